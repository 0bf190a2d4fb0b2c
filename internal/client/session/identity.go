package session

import (
	"encoding/json"
	"fmt"

	"go-leave/internal/client/api"
	"go-leave/internal/role"
)

// Identity is the directory snapshot of the logged in person. Each role has
// its own variant carrying only the fields that role has.
type Identity interface {
	Role() role.Role
	Code() string
	DisplayName() string
}

type EmployeeIdentity struct {
	EmployeeCode   string `json:"employeeCode"`
	Name           string `json:"name"`
	Designation    string `json:"designation"`
	Department     string `json:"department"`
	WhatsAppNumber string `json:"whatsappNumber"`
	WorkLocation   string `json:"workLocation"`
	Email          string `json:"email"`
}

func (EmployeeIdentity) Role() role.Role       { return role.Employee }
func (i EmployeeIdentity) Code() string        { return i.EmployeeCode }
func (i EmployeeIdentity) DisplayName() string { return i.Name }

type HrManagerIdentity struct {
	EmployeeCode   string `json:"employeeCode"`
	Name           string `json:"name"`
	Designation    string `json:"designation"`
	Department     string `json:"department"`
	WhatsAppNumber string `json:"whatsappNumber"`
	WorkLocation   string `json:"workLocation"`
	Email          string `json:"email"`
}

func (HrManagerIdentity) Role() role.Role       { return role.HrManager }
func (i HrManagerIdentity) Code() string        { return i.EmployeeCode }
func (i HrManagerIdentity) DisplayName() string { return i.Name }

type HRIdentity struct {
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	Email        string `json:"email"`
}

func (HRIdentity) Role() role.Role       { return role.HR }
func (i HRIdentity) Code() string        { return i.EmployeeCode }
func (i HRIdentity) DisplayName() string { return i.Name }

type ManagerIdentity struct {
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	Designation  string `json:"designation"`
	Department   string `json:"department"`
	Email        string `json:"email"`
}

func (ManagerIdentity) Role() role.Role       { return role.Manager }
func (i ManagerIdentity) Code() string        { return i.EmployeeCode }
func (i ManagerIdentity) DisplayName() string { return i.Name }

type PartnerIdentity struct {
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	Email        string `json:"email"`
}

func (PartnerIdentity) Role() role.Role       { return role.Partner }
func (i PartnerIdentity) Code() string        { return i.EmployeeCode }
func (i PartnerIdentity) DisplayName() string { return i.Name }

// identityFromAPI picks the variant for r and drops fields r does not carry.
func identityFromAPI(r role.Role, in api.Identity) (Identity, error) {
	switch r {
	case role.Employee:
		return EmployeeIdentity{
			EmployeeCode:   in.EmployeeCode,
			Name:           in.Name,
			Designation:    in.Designation,
			Department:     in.Department,
			WhatsAppNumber: in.WhatsAppNumber,
			WorkLocation:   in.WorkLocation,
			Email:          in.Email,
		}, nil
	case role.HrManager:
		return HrManagerIdentity{
			EmployeeCode:   in.EmployeeCode,
			Name:           in.Name,
			Designation:    in.Designation,
			Department:     in.Department,
			WhatsAppNumber: in.WhatsAppNumber,
			WorkLocation:   in.WorkLocation,
			Email:          in.Email,
		}, nil
	case role.HR:
		return HRIdentity{EmployeeCode: in.EmployeeCode, Name: in.Name, Email: in.Email}, nil
	case role.Manager:
		return ManagerIdentity{
			EmployeeCode: in.EmployeeCode,
			Name:         in.Name,
			Designation:  in.Designation,
			Department:   in.Department,
			Email:        in.Email,
		}, nil
	case role.Partner:
		return PartnerIdentity{EmployeeCode: in.EmployeeCode, Name: in.Name, Email: in.Email}, nil
	}
	return nil, fmt.Errorf("no identity variant for role %q", r)
}

func decodeIdentity(kind role.Role, raw json.RawMessage) (Identity, error) {
	var (
		id  Identity
		err error
	)
	switch kind {
	case role.Employee:
		var v EmployeeIdentity
		err = json.Unmarshal(raw, &v)
		id = v
	case role.HrManager:
		var v HrManagerIdentity
		err = json.Unmarshal(raw, &v)
		id = v
	case role.HR:
		var v HRIdentity
		err = json.Unmarshal(raw, &v)
		id = v
	case role.Manager:
		var v ManagerIdentity
		err = json.Unmarshal(raw, &v)
		id = v
	case role.Partner:
		var v PartnerIdentity
		err = json.Unmarshal(raw, &v)
		id = v
	default:
		return nil, fmt.Errorf("unknown identity kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return id, nil
}
