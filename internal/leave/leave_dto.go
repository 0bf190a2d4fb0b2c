package leave

import (
	"time"

	"go-leave/internal/role"
)

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	EmployeeCode string
	Role         role.Role
}

type SubmitLeaveRequest struct {
	// Optional; when sent it must match the caller's own code.
	EmployeeCode string `json:"employeeCode"`
	FromDate     string `json:"fromDate" binding:"required,datetime=2006-01-02"`
	ToDate       string `json:"toDate" binding:"required,datetime=2006-01-02"`
	LeaveReason  string `json:"leaveReason" binding:"required,min=10,max=500"`
}

type ChangeStatusRequest struct {
	LeaveID string `json:"leaveId" binding:"required"`
	Status  string `json:"status" binding:"required,oneof=Approved Rejected"`
}

type LeaveResponse struct {
	LeaveID        string     `json:"leaveId"`
	EmployeeCode   string     `json:"employeeCode"`
	EmployeeName   string     `json:"employeeName"`
	Designation    string     `json:"designation"`
	Department     string     `json:"department"`
	WhatsAppNumber string     `json:"whatsappNumber"`
	Email          string     `json:"email"`
	WorkLocation   string     `json:"workLocation"`
	FromDate       string     `json:"fromDate"`
	ToDate         string     `json:"toDate"`
	LeaveReason    string     `json:"leaveReason"`
	Status         string     `json:"status"`
	SubmissionDate time.Time  `json:"submissionDate"`
	Channel        string     `json:"channel"`
	DecidedBy      string     `json:"decidedBy,omitempty"`
	DecidedAt      *time.Time `json:"decidedAt,omitempty"`
}
