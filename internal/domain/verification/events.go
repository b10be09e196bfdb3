package verification

import (
	"gitlab.com/staffsync/staffsync-backend/internal/domain/event"
)

const EventStreamName = "events_verification"

type CodeIssued struct {
	event.Header
	event.Otel
	AttemptID ID     `json:"attempt_id"`
	Email     string `json:"email"`
}

func (e CodeIssued) GetStreamName() string {
	return EventStreamName
}

type EmailVerified struct {
	event.Header
	event.Otel
	AttemptID ID     `json:"attempt_id"`
	Email     string `json:"email"`
}

func (e EmailVerified) GetStreamName() string {
	return EventStreamName
}
