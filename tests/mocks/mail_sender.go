package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/mails"
)

type MockMailSender struct {
	mu        sync.Mutex
	sentMails []mails.Payload
	failNext  error
}

func NewMockMailSender() *MockMailSender {
	return &MockMailSender{
		sentMails: make([]mails.Payload, 0),
	}
}

func (m *MockMailSender) SendMail(ctx context.Context, payload mails.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}

	m.sentMails = append(m.sentMails, mails.Payload{
		To:      payload.To,
		Subject: payload.Subject,
		Body:    payload.Body,
	})
	fmt.Printf("Mock mail sent to %s with subject: %s\n", payload.To, payload.Subject)
	fmt.Printf("Mail body: %s\n", payload.Body)
	return nil
}

func (m *MockMailSender) SendVerificationCode(ctx context.Context, email, code string) error {
	return m.SendMail(ctx, mails.Payload{
		To:      email,
		Subject: "Your StaffSync verification code",
		Body:    fmt.Sprintf("Your verification code is: %s", code),
	})
}

// FailNextWith makes the next send return err instead of recording mail.
func (m *MockMailSender) FailNextWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockMailSender) GetSentMails() []mails.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mails.Payload{}, m.sentMails...)
}

func (m *MockMailSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sentMails = make([]mails.Payload, 0)
}

func (m *MockMailSender) AssertMailSent(t *testing.T, email, subject string) {
	t.Helper()
	for _, sent := range m.GetSentMails() {
		if sent.To == email && strings.Contains(sent.Subject, subject) {
			return
		}
	}
	t.Errorf("Expected mail to %s with subject containing %s not found", email, subject)
}

func (m *MockMailSender) AssertBodyContains(t *testing.T, email, substr string) {
	t.Helper()
	for _, sent := range m.GetSentMails() {
		if sent.To == email && strings.Contains(sent.Body, substr) {
			return
		}
	}
	t.Errorf("Expected mail to %s with body containing %q not found", email, substr)
}
