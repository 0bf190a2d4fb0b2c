package events

import "time"

const LeaveLifecycleTopic = "leave.application.lifecycle.v1"

const (
	AggregateLeave = "leave_application"

	EventLeaveSubmitted     = "leave_submitted"
	EventLeaveStatusChanged = "leave_status_changed"
)

// Approver identifies one employee the application is routed to.
type Approver struct {
	Role         string `json:"role"`
	EmployeeCode string `json:"employee_code"`
}

type LeaveEvent struct {
	EventType      string     `json:"event_type"`
	LeaveID        string     `json:"leave_id"`
	EmployeeCode   string     `json:"employee_code"`
	EmployeeName   string     `json:"employee_name"`
	WhatsAppNumber string     `json:"whatsapp_number,omitempty"`
	Channel        string     `json:"channel"`
	FromDate       string     `json:"from_date"`
	ToDate         string     `json:"to_date"`
	Status         string     `json:"status"`
	PreviousStatus string     `json:"previous_status,omitempty"`
	DecidedBy      string     `json:"decided_by,omitempty"`
	Approvers      []Approver `json:"approvers,omitempty"`
	RequestID      string     `json:"request_id,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}
