package sdk

import "strings"

// Role is the application role stored by the backend.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMedico Role = "MEDICO"
)

func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Amministratore"
	case RoleMedico:
		return "Medico"
	default:
		return string(r)
	}
}

// Gender as the backend enumerates it.
type Gender string

const (
	GenderMale        Gender = "MASCHIO"
	GenderFemale      Gender = "FEMMINA"
	GenderUnspecified Gender = "NON_SPECIFICATO"
)

func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Maschio"
	case GenderFemale:
		return "Femmina"
	default:
		return "Non specificato"
	}
}

// DoctorTitle is the honorific shown before a doctor's name.
func (g Gender) DoctorTitle() string {
	if g == GenderFemale {
		return "Dott.ssa"
	}
	return "Dr."
}

// User is an application account.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	Role           Role      `json:"role"`
	Gender         Gender    `json:"genere,omitempty"`
	Specialization string    `json:"specializzazione,omitempty"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      Timestamp `json:"createdAt"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName prefixes the full name with the doctor title.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	name := u.FullName
	if name == "" {
		name = u.Email
	}
	return u.Gender.DoctorTitle() + " " + name
}

// FormatSpecialization renders an enumerant name for display.
func FormatSpecialization(s string) string {
	if s == "" {
		return "NESSUNA"
	}
	return strings.ReplaceAll(s, "_", " ")
}
