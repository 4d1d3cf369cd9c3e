package appointment

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dentalreserve/clinic-api/internal/email"
	"github.com/dentalreserve/clinic-api/internal/model"
	redisclient "github.com/dentalreserve/clinic-api/internal/redis"
	"github.com/dentalreserve/clinic-api/internal/repository"
	"github.com/dentalreserve/clinic-api/internal/service/schedule"
	"github.com/dentalreserve/clinic-api/pkg/errors"
	"github.com/dentalreserve/clinic-api/pkg/metrics"
)

// Service enforces the no-double-booking invariant and mediates all writes
// to the appointment collection. Practitioner and room are independent
// booking axes; an empty axis on the incoming record is exempt from the
// conflict scan.
type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
	waitlist repository.WaitlistRepository
	locker   redisclient.Locker
	mailer   email.Service
	metrics  *metrics.Metrics
}

// NewService wires the scheduler. locker, mailer and metrics are optional;
// a nil locker means the in-process conflict check runs unguarded and the
// storage unique indexes alone close the race.
func NewService(
	repo repository.AppointmentRepository,
	patients repository.PatientRepository,
	waitlist repository.WaitlistRepository,
	locker redisclient.Locker,
	mailer email.Service,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		waitlist: waitlist,
		locker:   locker,
		mailer:   mailer,
		metrics:  m,
	}
}

// CreateAppointment validates and persists a new booking. Exactly one
// insert on success, none on any failure.
func (s *Service) CreateAppointment(ctx context.Context, apt *model.Appointment) (*model.Appointment, error) {
	if err := s.validateAppointment(apt); err != nil {
		return nil, err
	}

	create := func(ctx context.Context) error {
		if err := s.checkConflicts(ctx, apt, nil); err != nil {
			return err
		}
		return s.repo.Create(ctx, apt)
	}

	if err := s.withSlotLock(ctx, apt, create); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.sendConfirmation(ctx, apt)
	return apt, nil
}

// UpdateAppointment replaces every mutable field of the stored record with
// the incoming one. The conflict scan excludes the record's own id so an
// unchanged re-save never trips over itself.
func (s *Service) UpdateAppointment(ctx context.Context, id int64, apt *model.Appointment) (*model.Appointment, error) {
	if err := s.validateAppointment(apt); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apt.ID = id
	apt.CreatedAt = existing.CreatedAt

	update := func(ctx context.Context) error {
		if err := s.checkConflicts(ctx, apt, &id); err != nil {
			return err
		}
		return s.repo.Update(ctx, apt)
	}

	if err := s.withSlotLock(ctx, apt, update); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsUpdated.Inc()
	}
	return apt, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.BookingsDeleted.Inc()
	}
	return nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

// ListAppointments applies the optional filters, ANDed. No filters returns
// every appointment.
func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters != nil && filters.Date != "" {
		normalized, err := normalizeDate(filters.Date)
		if err != nil {
			return nil, err
		}
		filters.Date = normalized
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) FindByPractitionerAndDate(ctx context.Context, practitioner, date string) ([]*model.Appointment, error) {
	return s.FindByPractitionerAndDateRange(ctx, practitioner, date, date)
}

func (s *Service) FindByPractitionerAndDateRange(ctx context.Context, practitioner, startDate, endDate string) ([]*model.Appointment, error) {
	if practitioner == "" {
		return nil, errors.Validation("practitioner is required")
	}
	start, err := normalizeDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := normalizeDate(endDate)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByPractitionerAndDateRange(ctx, practitioner, start, end)
}

func (s *Service) FindByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	return s.repo.FindByPatient(ctx, patientID)
}

// AvailableSlots derives the bookable labels for a day: the fixed daily
// grid minus the labels already taken by the target practitioner or room.
func (s *Service) AvailableSlots(ctx context.Context, req *model.AvailableSlotsRequest) ([]string, error) {
	date, err := normalizeDate(req.Date)
	if err != nil {
		return nil, err
	}

	all := schedule.DailySlots(schedule.DefaultStartHour, schedule.DefaultEndHour, req.StepMinutes)
	booked, err := s.repo.FindBookedTimes(ctx, date, req.Practitioner, req.Room)
	if err != nil {
		return nil, err
	}
	return schedule.Available(all, booked), nil
}

// DayStats summarizes a day's bookings for the dashboard
func (s *Service) DayStats(ctx context.Context, req *model.AvailableSlotsRequest) (*model.DayScheduleStats, error) {
	date, err := normalizeDate(req.Date)
	if err != nil {
		return nil, err
	}

	all := schedule.DailySlots(schedule.DefaultStartHour, schedule.DefaultEndHour, req.StepMinutes)
	booked, err := s.repo.FindBookedTimes(ctx, date, req.Practitioner, req.Room)
	if err != nil {
		return nil, err
	}

	available := schedule.Available(all, booked)
	bookedCount := len(all) - len(available)

	return &model.DayScheduleStats{
		Date:        date,
		TotalSlots:  len(all),
		BookedSlots: bookedCount,
		Utilization: schedule.Utilization(len(all), bookedCount),
	}, nil
}

// ListWaitlist returns the practitioner-side visit requests for a day
func (s *Service) ListWaitlist(ctx context.Context, practitioner, date string) ([]*model.WaitlistEntry, error) {
	if practitioner == "" {
		return nil, errors.Validation("practitioner is required")
	}
	normalized, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}
	return s.waitlist.FindByPractitionerAndDate(ctx, practitioner, normalized)
}

// validateAppointment checks the two required fields and normalizes the
// date and time labels in place. Both conflict axes are canonicalized:
// empty-string pointers become nil so the blank-axis exemption holds in
// storage too, and the time label is reformatted so "9:00" and "09:00"
// share one conflict key.
func (s *Service) validateAppointment(apt *model.Appointment) error {
	if apt.Date == "" {
		return errors.Validation("date is required")
	}
	if apt.Time == "" {
		return errors.Validation("time is required")
	}

	if apt.Practitioner != nil && *apt.Practitioner == "" {
		apt.Practitioner = nil
	}
	if apt.Room != nil && *apt.Room == "" {
		apt.Room = nil
	}

	date, err := normalizeDate(apt.Date)
	if err != nil {
		return err
	}
	apt.Date = date

	parsed, err := time.Parse(model.TimeLayout, schedule.NormalizeLabel(apt.Time))
	if err != nil {
		return errors.Validation("time must be a HH:MM label")
	}
	apt.Time = parsed.Format(model.TimeLayout)
	return nil
}

// checkConflicts scans the appointments sharing the slot. Both axes are
// evaluated on every call; the practitioner axis is reported first when
// both conflict.
func (s *Service) checkConflicts(ctx context.Context, apt *model.Appointment, excludeID *int64) error {
	practitioner := apt.PractitionerName()
	room := apt.RoomID()
	if practitioner == "" && room == "" {
		return nil
	}

	existing, err := s.repo.FindByDateAndTime(ctx, apt.Date, apt.Time)
	if err != nil {
		return err
	}

	var practitionerTaken, roomTaken bool
	for _, other := range existing {
		if excludeID != nil && other.ID == *excludeID {
			continue
		}
		if practitioner != "" && other.PractitionerName() == practitioner {
			practitionerTaken = true
		}
		if room != "" && other.RoomID() == room {
			roomTaken = true
		}
	}

	if practitionerTaken {
		s.countConflict("practitioner")
		return errors.Conflict("practitioner already has an appointment at this time")
	}
	if roomTaken {
		s.countConflict("room")
		return errors.Conflict("room is already booked at this time")
	}
	return nil
}

// withSlotLock serializes the check-then-act window per (date, time) when a
// locker is configured. A contended lock is reported as a conflict so the
// caller can simply pick another slot or retry.
func (s *Service) withSlotLock(ctx context.Context, apt *model.Appointment, fn func(ctx context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}

	err := s.locker.WithSlotLock(ctx, apt.Date, apt.Time, fn)
	if stderrors.Is(err, redisclient.ErrLockNotAcquired) {
		s.countLock("contended")
		return errors.Conflict("slot is currently being booked, please retry")
	}
	if err == nil {
		s.countLock("acquired")
	}
	return err
}

func (s *Service) sendConfirmation(ctx context.Context, apt *model.Appointment) {
	if s.mailer == nil || apt.PatientID == nil {
		return
	}

	patient, err := s.patients.Get(ctx, *apt.PatientID)
	if err != nil || patient.Email == nil || *patient.Email == "" {
		return
	}

	if err := s.mailer.SendBookingConfirmation(ctx, *patient.Email, patient.FullName(), apt.Date, apt.Time); err != nil {
		log.Warn().Err(err).Int64("appointment_id", apt.ID).Msg("failed to send booking confirmation")
	}
}

func (s *Service) countConflict(axis string) {
	if s.metrics != nil {
		s.metrics.BookingConflicts.WithLabelValues(axis).Inc()
	}
}

func (s *Service) countLock(status string) {
	if s.metrics != nil {
		s.metrics.LockAcquisitions.WithLabelValues(status).Inc()
	}
}

func normalizeDate(date string) (string, error) {
	parsed, err := time.Parse(model.DateLayout, date)
	if err != nil {
		// Accept full timestamps from older dashboard builds, keep the day
		parsed, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return "", errors.Validation("date must be a YYYY-MM-DD value")
		}
	}
	return parsed.Format(model.DateLayout), nil
}
