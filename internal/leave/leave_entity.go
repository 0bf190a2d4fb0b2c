package leave

import (
	"time"

	"go-leave/internal/role"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// ParseDecision accepts only the two statuses an approver may set.
func ParseDecision(v string) (Status, bool) {
	switch Status(v) {
	case StatusApproved, StatusRejected:
		return Status(v), true
	}
	return "", false
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether s -> to is an edge of the state machine.
// Pending is the only state with outgoing edges.
func (s Status) CanTransition(to Status) bool {
	return s == StatusPending && to.IsTerminal()
}

// LeaveRecord is one leave application. The submitter identity and the
// approver codes are copied from the directory at submission and never
// change; only the status and decision fields are written afterwards.
type LeaveRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeCode   string    `gorm:"type:varchar(32);not null;index"`
	EmployeeName   string    `gorm:"type:varchar(120);not null"`
	Designation    string    `gorm:"type:varchar(120)"`
	Department     string    `gorm:"type:varchar(120)"`
	WhatsAppNumber string    `gorm:"column:whatsapp_number;type:varchar(20)"`
	Email          string    `gorm:"type:varchar(160)"`
	WorkLocation   string    `gorm:"type:varchar(120)"`

	FromDate time.Time `gorm:"type:date;not null"`
	ToDate   time.Time `gorm:"type:date;not null"`
	Reason   string    `gorm:"column:leave_reason;type:text;not null"`

	Status  Status    `gorm:"type:varchar(16);not null;default:'Pending';index:idx_leave_pending"`
	Channel role.Role `gorm:"type:varchar(20);not null;index:idx_leave_pending"`

	ManagerCode string `gorm:"type:varchar(32);index"`
	PartnerCode string `gorm:"type:varchar(32);index"`
	HRCode      string `gorm:"column:hr_code;type:varchar(32);index"`

	SubmissionDate time.Time `gorm:"not null"`
	DecidedBy      *string   `gorm:"type:varchar(32)"`
	DecidedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRecord) TableName() string {
	return "leave_applications"
}

// approverRoutes lists, per submitting role, who decides the application.
var approverRoutes = map[role.Role][]role.Role{
	role.Employee:  {role.Manager, role.Partner, role.HR},
	role.HrManager: {role.Partner},
}

// ApproverRoles returns the roles that see applications submitted through
// channel, in a stable order.
func ApproverRoles(channel role.Role) []role.Role {
	return approverRoutes[channel]
}

// ChannelsFor is the inverse of ApproverRoles.
func ChannelsFor(approver role.Role) []role.Role {
	var out []role.Role
	for _, ch := range []role.Role{role.Employee, role.HrManager} {
		for _, r := range approverRoutes[ch] {
			if r == approver {
				out = append(out, ch)
			}
		}
	}
	return out
}

// ScopeCode is the employee code that decides this record for r.
func (l LeaveRecord) ScopeCode(r role.Role) string {
	switch r {
	case role.Manager:
		return l.ManagerCode
	case role.Partner:
		return l.PartnerCode
	case role.HR:
		return l.HRCode
	}
	return ""
}

func (l *LeaveRecord) setScopeCode(r role.Role, code string) {
	switch r {
	case role.Manager:
		l.ManagerCode = code
	case role.Partner:
		l.PartnerCode = code
	case role.HR:
		l.HRCode = code
	}
}

// RoutedTo reports whether the employee code of role r may see and decide
// this record.
func (l LeaveRecord) RoutedTo(r role.Role, code string) bool {
	if code == "" {
		return false
	}
	for _, ar := range ApproverRoles(l.Channel) {
		if ar == r && l.ScopeCode(r) == code {
			return true
		}
	}
	return false
}
