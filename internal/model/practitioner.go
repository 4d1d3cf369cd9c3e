package model

// Practitioner mirrors the clinic's practitioner roster
type Practitioner struct {
	ID   int64   `db:"id" json:"id"`
	Name string  `db:"name" json:"name"`
	Code *string `db:"code" json:"code,omitempty"`
}

// WaitlistEntry is a practitioner-side visit request awaiting scheduling
type WaitlistEntry struct {
	ID           int64   `db:"id" json:"id"`
	Practitioner string  `db:"practitioner" json:"practitioner"`
	Date         string  `db:"visit_date" json:"date"`
	Time         *string `db:"visit_time" json:"time,omitempty"`
	PatientName  *string `db:"patient_name" json:"patient_name,omitempty"`
	Reason       *string `db:"reason" json:"reason,omitempty"`
}
