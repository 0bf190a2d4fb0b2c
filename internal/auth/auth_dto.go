package auth

import "time"

type EmployeeLoginRequest struct {
	WhatsAppNumber string `json:"whatsappNumber" binding:"required,whatsapp"`
}

type PasswordLoginRequest struct {
	EmployeeCode string `json:"employeeCode" binding:"required"`
	Password     string `json:"password" binding:"required,min=5"`
}

// IdentityResponse is the directory snapshot the client stores with its
// session. Fields that do not apply to the role are left empty.
type IdentityResponse struct {
	EmployeeCode   string `json:"employeeCode"`
	Name           string `json:"name"`
	Designation    string `json:"designation,omitempty"`
	Department     string `json:"department,omitempty"`
	WhatsAppNumber string `json:"whatsappNumber,omitempty"`
	Email          string `json:"email,omitempty"`
	WorkLocation   string `json:"workLocation,omitempty"`
}

type LoginResponse struct {
	Role        string           `json:"role"`
	AccessToken string           `json:"accessToken"`
	IssuedAt    time.Time        `json:"issuedAt"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	Identity    IdentityResponse `json:"identity"`
}
