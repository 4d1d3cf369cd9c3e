package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/pkg/errors"
)

const uniqueViolation = "23505"

// The partial unique indexes on (practitioner, visit_date, visit_time) and
// (room, visit_date, visit_time) are the correctness baseline for the
// no-double-booking invariant; the service-level scan is only a fast path.
const (
	practitionerSlotConstraint = "uq_appointments_practitioner_slot"
	roomSlotConstraint         = "uq_appointments_room_slot"
)

const appointmentColumns = `
	id, patient_id, practitioner, room,
	to_char(visit_date, 'YYYY-MM-DD') AS visit_date, visit_time,
	duration, observation, care_nature, patient_name, patient_role,
	affiliation, agent, insurer_name, suppressed_at, created_at, updated_at`

// translateUniqueViolation maps a late constraint violation (the
// check-then-act race losing) back to a conflict the caller can act on.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !stderrors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return nil
	}
	switch pqErr.Constraint {
	case practitionerSlotConstraint:
		return errors.Conflict("practitioner already has an appointment at this time")
	case roomSlotConstraint:
		return errors.Conflict("room is already booked at this time")
	default:
		return errors.Conflict("appointment slot is already taken")
	}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			patient_id, practitioner, room, visit_date, visit_time,
			duration, observation, care_nature, patient_name, patient_role,
			affiliation, agent, insurer_name, suppressed_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	err := r.db.QueryRowContext(ctx, query,
		appointment.PatientID,
		appointment.Practitioner,
		appointment.Room,
		appointment.Date,
		appointment.Time,
		appointment.Duration,
		appointment.Observation,
		appointment.CareNature,
		appointment.PatientName,
		appointment.PatientRole,
		appointment.Affiliation,
		appointment.Agent,
		appointment.InsurerName,
		appointment.SuppressedAt,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	).Scan(&appointment.ID)
	if err != nil {
		if conflict := translateUniqueViolation(err); conflict != nil {
			return conflict
		}
		return errors.Storage("create appointment", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("appointment")
		}
		return nil, errors.Storage("get appointment", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	// Wholesale replacement: every mutable column is overwritten, nil
	// incoming fields become NULL.
	query := `
		UPDATE appointments
		SET patient_id = $1, practitioner = $2, room = $3, visit_date = $4,
			visit_time = $5, duration = $6, observation = $7, care_nature = $8,
			patient_name = $9, patient_role = $10, affiliation = $11,
			agent = $12, insurer_name = $13, suppressed_at = $14, updated_at = $15
		WHERE id = $16
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.PatientID,
		appointment.Practitioner,
		appointment.Room,
		appointment.Date,
		appointment.Time,
		appointment.Duration,
		appointment.Observation,
		appointment.CareNature,
		appointment.PatientName,
		appointment.PatientRole,
		appointment.Affiliation,
		appointment.Agent,
		appointment.InsurerName,
		appointment.SuppressedAt,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		if conflict := translateUniqueViolation(err); conflict != nil {
			return conflict
		}
		return errors.Storage("update appointment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Storage("update appointment", err)
	}
	if rows == 0 {
		return errors.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return errors.Storage("delete appointment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Storage("delete appointment", err)
	}
	if rows == 0 {
		return errors.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE 1=1`, appointmentColumns)
	args := []interface{}{}
	argCount := 1

	if filters != nil && filters.PatientName != "" {
		query += fmt.Sprintf(" AND patient_name ILIKE $%d", argCount)
		args = append(args, "%"+filters.PatientName+"%")
		argCount++
	}

	if filters != nil && filters.Practitioner != "" {
		query += fmt.Sprintf(" AND practitioner ILIKE $%d", argCount)
		args = append(args, "%"+filters.Practitioner+"%")
		argCount++
	}

	if filters != nil && filters.Date != "" {
		query += fmt.Sprintf(" AND visit_date = $%d", argCount)
		args = append(args, filters.Date)
		argCount++
	}

	query += " ORDER BY visit_date ASC, visit_time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, errors.Storage("list appointments", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDateAndTime(ctx context.Context, date, timeLabel string) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE visit_date = $1 AND visit_time = $2
	`, appointmentColumns)

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, date, timeLabel)
	if err != nil {
		return nil, errors.Storage("find appointments by slot", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPractitionerAndDateRange(ctx context.Context, practitioner, startDate, endDate string) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE practitioner = $1 AND visit_date >= $2 AND visit_date <= $3
	`, appointmentColumns)

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, practitioner, startDate, endDate)
	if err != nil {
		return nil, errors.Storage("find appointments by practitioner", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE patient_id = $1
		ORDER BY visit_date ASC, visit_time ASC
	`, appointmentColumns)

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, patientID)
	if err != nil {
		return nil, errors.Storage("find appointments by patient", err)
	}
	return appointments, nil
}

// FindBookedTimes projects the time labels taken on a date by either the
// practitioner or the room (inclusive or).
func (r *appointmentRepository) FindBookedTimes(ctx context.Context, date, practitioner, room string) ([]string, error) {
	query := `
		SELECT visit_time FROM appointments
		WHERE visit_date = $1 AND (practitioner = $2 OR room = $3)
	`

	var times []string
	err := r.db.SelectContext(ctx, &times, query, date, practitioner, room)
	if err != nil {
		return nil, errors.Storage("find booked times", err)
	}
	return times, nil
}
