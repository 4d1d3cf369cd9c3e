package model

// Appointment is the central scheduling record. Practitioner and room are
// independent booking axes; a record may specify neither, either, or both.
// The display fields past CareNature are opaque pass-through strings carried
// for reporting and hold no invariants.
type Appointment struct {
	ID           int64   `db:"id" json:"id"`
	PatientID    *int64  `db:"patient_id" json:"patient_id,omitempty"`
	Practitioner *string `db:"practitioner" json:"practitioner,omitempty"`
	Room         *string `db:"room" json:"room,omitempty"`
	Date         string  `db:"visit_date" json:"date"`
	Time         string  `db:"visit_time" json:"time"`
	Duration     *string `db:"duration" json:"duration,omitempty"`
	Observation  *string `db:"observation" json:"observation,omitempty"`
	CareNature   *string `db:"care_nature" json:"care_nature,omitempty"`
	PatientName  *string `db:"patient_name" json:"patient_name,omitempty"`
	PatientRole  *string `db:"patient_role" json:"patient_role,omitempty"`
	Affiliation  *string `db:"affiliation" json:"affiliation,omitempty"`
	Agent        *string `db:"agent" json:"agent,omitempty"`
	InsurerName  *string `db:"insurer_name" json:"insurer_name,omitempty"`
	SuppressedAt *string `db:"suppressed_at" json:"suppressed_at,omitempty"`
	Timestamps
}

// PractitionerName returns the practitioner axis value, empty when unset
func (a *Appointment) PractitionerName() string {
	if a.Practitioner == nil {
		return ""
	}
	return *a.Practitioner
}

// RoomID returns the room axis value, empty when unset
func (a *Appointment) RoomID() string {
	if a.Room == nil {
		return ""
	}
	return *a.Room
}

// AppointmentFilters narrows a listing. All set filters are ANDed.
type AppointmentFilters struct {
	PatientName  string `form:"patient"`
	Practitioner string `form:"practitioner"`
	Date         string `form:"date"`
}

// AvailableSlotsRequest asks which slot labels remain bookable for a day
type AvailableSlotsRequest struct {
	Practitioner string `form:"practitioner"`
	Room         string `form:"room"`
	Date         string `form:"date" validate:"required"`
	StepMinutes  int    `form:"step"`
}

// DayScheduleStats summarizes bookings for a single day
type DayScheduleStats struct {
	Date        string `json:"date"`
	TotalSlots  int    `json:"total_slots"`
	BookedSlots int    `json:"booked_slots"`
	Utilization int    `json:"utilization_percent"`
}
