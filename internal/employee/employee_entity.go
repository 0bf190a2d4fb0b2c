package employee

import (
	"time"

	"go-leave/internal/role"

	"github.com/google/uuid"
)

// Employee is a directory row. Approver codes point at the employees who
// decide this person's leave for each approving role.
type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeCode   string    `gorm:"type:varchar(32);not null;uniqueIndex:uq_employee_code"`
	Name           string    `gorm:"type:varchar(120);not null"`
	Role           role.Role `gorm:"type:varchar(20);not null;index"`
	Designation    string    `gorm:"type:varchar(120)"`
	Department     string    `gorm:"type:varchar(120)"`
	WhatsAppNumber string    `gorm:"column:whatsapp_number;type:varchar(20);uniqueIndex:uq_employee_whatsapp"`
	Email          string    `gorm:"type:varchar(160)"`
	WorkLocation   string    `gorm:"type:varchar(120)"`
	PasswordHash   string    `gorm:"type:varchar(100)"`

	ManagerCode string `gorm:"type:varchar(32)"`
	PartnerCode string `gorm:"type:varchar(32)"`
	HRCode      string `gorm:"column:hr_code;type:varchar(32)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApproverCode returns the code of the employee who approves for r.
func (e Employee) ApproverCode(r role.Role) string {
	switch r {
	case role.Manager:
		return e.ManagerCode
	case role.Partner:
		return e.PartnerCode
	case role.HR:
		return e.HRCode
	default:
		return ""
	}
}
