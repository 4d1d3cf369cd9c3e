package model

// Patient is the read-side projection served to the dashboard. The clinic
// master data lives in an upstream population registry, so writes stay out
// of scope here.
type Patient struct {
	ID          int64   `db:"id" json:"id"`
	FirstName   *string `db:"first_name" json:"first_name,omitempty"`
	LastName    *string `db:"last_name" json:"last_name,omitempty"`
	Email       *string `db:"email" json:"email,omitempty"`
	Phone       *string `db:"phone" json:"phone,omitempty"`
	DateOfBirth *string `db:"date_of_birth" json:"date_of_birth,omitempty"`
	GenderCode  *string `db:"gender_code" json:"gender_code,omitempty"`
	Matricule   *string `db:"matricule" json:"matricule,omitempty"`
	Status      string  `db:"status" json:"status"`
}

// FullName joins first and last name, trimmed of missing parts
func (p *Patient) FullName() string {
	first, last := "", ""
	if p.FirstName != nil {
		first = *p.FirstName
	}
	if p.LastName != nil {
		last = *p.LastName
	}
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// PatientFilters narrows a patient listing
type PatientFilters struct {
	Name   string `form:"name"`
	Status string `form:"status"`
}

// PatientStats summarizes the patient roster for the dashboard
type PatientStats struct {
	TotalPatients  int64 `json:"total_patients"`
	ActivePatients int64 `json:"active_patients"`
}
