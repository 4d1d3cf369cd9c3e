package repository

import (
	"context"

	"github.com/dentalreserve/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository mediates access to the appointment collection
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		FindByDateAndTime(ctx context.Context, date, timeLabel string) ([]*model.Appointment, error)
		FindByPractitionerAndDateRange(ctx context.Context, practitioner, startDate, endDate string) ([]*model.Appointment, error)
		FindByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error)
		FindBookedTimes(ctx context.Context, date, practitioner, room string) ([]string, error)
	}

	PatientRepository interface {
		Get(ctx context.Context, id int64) (*model.Patient, error)
		GetByMatricule(ctx context.Context, matricule string) (*model.Patient, error)
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
		Stats(ctx context.Context) (*model.PatientStats, error)
	}

	PractitionerRepository interface {
		List(ctx context.Context) ([]*model.Practitioner, error)
	}

	WaitlistRepository interface {
		FindByPractitionerAndDate(ctx context.Context, practitioner, date string) ([]*model.WaitlistEntry, error)
	}

	UserRepository interface {
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		UpdateLastName(ctx context.Context, username string, lastName *string) error
		UpdatePassword(ctx context.Context, username, passwordHash string) error
	}
)
