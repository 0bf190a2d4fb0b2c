package api

import "time"

type Identity struct {
	EmployeeCode   string `json:"employeeCode"`
	Name           string `json:"name"`
	Designation    string `json:"designation,omitempty"`
	Department     string `json:"department,omitempty"`
	WhatsAppNumber string `json:"whatsappNumber,omitempty"`
	Email          string `json:"email,omitempty"`
	WorkLocation   string `json:"workLocation,omitempty"`
}

type LoginResult struct {
	Role        string    `json:"role"`
	AccessToken string    `json:"accessToken"`
	IssuedAt    time.Time `json:"issuedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Identity    Identity  `json:"identity"`
}

type SubmitLeaveRequest struct {
	EmployeeCode string `json:"employeeCode"`
	FromDate     string `json:"fromDate"`
	ToDate       string `json:"toDate"`
	LeaveReason  string `json:"leaveReason"`
}

type ChangeStatusRequest struct {
	LeaveID string `json:"leaveId"`
	Status  string `json:"status"`
}

type LeaveRecord struct {
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
