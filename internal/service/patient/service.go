package patient

import (
	"context"

	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/internal/repository"
)

// Service serves the read-side patient views consumed by the dashboard
type Service struct {
	repo         repository.PatientRepository
	appointments repository.AppointmentRepository
}

func NewService(repo repository.PatientRepository, appointments repository.AppointmentRepository) *Service {
	return &Service{repo: repo, appointments: appointments}
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByMatricule(ctx context.Context, matricule string) (*model.Patient, error) {
	return s.repo.GetByMatricule(ctx, matricule)
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Stats(ctx context.Context) (*model.PatientStats, error) {
	return s.repo.Stats(ctx)
}

// ListAppointments resolves a patient first so an unknown id surfaces as
// not-found instead of an empty list.
func (s *Service) ListAppointments(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	if _, err := s.repo.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.appointments.FindByPatient(ctx, patientID)
}
