package postgres

import (
	"context"

	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/pkg/errors"
)

func (r *practitionerRepository) List(ctx context.Context) ([]*model.Practitioner, error) {
	query := `SELECT id, name, code FROM practitioners ORDER BY name ASC`

	var practitioners []*model.Practitioner
	err := r.db.SelectContext(ctx, &practitioners, query)
	if err != nil {
		return nil, errors.Storage("list practitioners", err)
	}
	return practitioners, nil
}

func (r *waitlistRepository) FindByPractitionerAndDate(ctx context.Context, practitioner, date string) ([]*model.WaitlistEntry, error) {
	query := `
		SELECT id, practitioner, to_char(visit_date, 'YYYY-MM-DD') AS visit_date,
			   visit_time, patient_name, reason
		FROM waitlist
		WHERE practitioner = $1 AND visit_date = $2
		ORDER BY visit_time ASC NULLS LAST
	`

	var entries []*model.WaitlistEntry
	err := r.db.SelectContext(ctx, &entries, query, practitioner, date)
	if err != nil {
		return nil, errors.Storage("list waitlist entries", err)
	}
	return entries, nil
}
