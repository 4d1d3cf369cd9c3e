package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/pkg/errors"
)

const patientColumns = `
	id, first_name, last_name, email, phone,
	to_char(date_of_birth, 'YYYY-MM-DD') AS date_of_birth,
	gender_code, matricule, status`

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE id = $1`, patientColumns)

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("patient")
		}
		return nil, errors.Storage("get patient", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByMatricule(ctx context.Context, matricule string) (*model.Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE matricule = $1`, patientColumns)

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, matricule)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("patient")
		}
		return nil, errors.Storage("get patient by matricule", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE 1=1`, patientColumns)
	args := []interface{}{}
	argCount := 1

	if filters != nil && filters.Name != "" {
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filters.Name+"%")
		argCount++
	}

	if filters != nil && filters.Status != "" && filters.Status != "all" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	query += " ORDER BY last_name ASC, first_name ASC"

	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, args...)
	if err != nil {
		return nil, errors.Storage("list patients", err)
	}
	return patients, nil
}

func (r *patientRepository) Stats(ctx context.Context) (*model.PatientStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'active') AS active
		FROM patients
	`

	var row struct {
		Total  int64 `db:"total"`
		Active int64 `db:"active"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, errors.Storage("patient stats", err)
	}

	return &model.PatientStats{
		TotalPatients:  row.Total,
		ActivePatients: row.Active,
	}, nil
}
