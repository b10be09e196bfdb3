package member

import (
	"gitlab.com/staffsync/staffsync-backend/internal/domain/event"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/role"
)

const EventStreamName = "events_member"

type MemberRegistered struct {
	event.Header
	event.Otel
	MemberID ID        `json:"member_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     role.Role `json:"role"`
}

func (e MemberRegistered) GetStreamName() string {
	return EventStreamName
}
