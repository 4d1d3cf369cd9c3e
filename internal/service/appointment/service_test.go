package appointment_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalreserve/clinic-api/internal/model"
	redisclient "github.com/dentalreserve/clinic-api/internal/redis"
	appointmentService "github.com/dentalreserve/clinic-api/internal/service/appointment"
	"github.com/dentalreserve/clinic-api/pkg/errors"
	"github.com/dentalreserve/clinic-api/pkg/metrics"
)

// fakeAppointmentRepo is an in-memory stand-in for the postgres repository
type fakeAppointmentRepo struct {
	nextID  int64
	items   map[int64]*model.Appointment
	inserts int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: make(map[int64]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	f.nextID++
	apt.ID = f.nextID
	stored := *apt
	f.items[apt.ID] = &stored
	f.inserts++
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id int64) (*model.Appointment, error) {
	stored, ok := f.items[id]
	if !ok {
		return nil, errors.NotFound("appointment")
	}
	copy := *stored
	return &copy, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	if _, ok := f.items[apt.ID]; !ok {
		return errors.NotFound("appointment")
	}
	stored := *apt
	f.items[apt.ID] = &stored
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return errors.NotFound("appointment")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	all := make([]*model.Appointment, 0, len(f.items))
	for _, apt := range f.items {
		copy := *apt
		all = append(all, &copy)
	}
	return all, nil
}

func (f *fakeAppointmentRepo) FindByDateAndTime(_ context.Context, date, timeLabel string) ([]*model.Appointment, error) {
	var matched []*model.Appointment
	for _, apt := range f.items {
		if apt.Date == date && apt.Time == timeLabel {
			copy := *apt
			matched = append(matched, &copy)
		}
	}
	return matched, nil
}

func (f *fakeAppointmentRepo) FindByPractitionerAndDateRange(_ context.Context, practitioner, startDate, endDate string) ([]*model.Appointment, error) {
	var matched []*model.Appointment
	for _, apt := range f.items {
		if apt.PractitionerName() == practitioner && apt.Date >= startDate && apt.Date <= endDate {
			copy := *apt
			matched = append(matched, &copy)
		}
	}
	return matched, nil
}

func (f *fakeAppointmentRepo) FindByPatient(_ context.Context, patientID int64) ([]*model.Appointment, error) {
	var matched []*model.Appointment
	for _, apt := range f.items {
		if apt.PatientID != nil && *apt.PatientID == patientID {
			copy := *apt
			matched = append(matched, &copy)
		}
	}
	return matched, nil
}

func (f *fakeAppointmentRepo) FindBookedTimes(_ context.Context, date, practitioner, room string) ([]string, error) {
	var times []string
	for _, apt := range f.items {
		if apt.Date != date {
			continue
		}
		if (practitioner != "" && apt.PractitionerName() == practitioner) ||
			(room != "" && apt.RoomID() == room) {
			times = append(times, apt.Time)
		}
	}
	return times, nil
}

type fakeWaitlistRepo struct {
	entries []*model.WaitlistEntry
}

func (f *fakeWaitlistRepo) FindByPractitionerAndDate(_ context.Context, practitioner, date string) ([]*model.WaitlistEntry, error) {
	var matched []*model.WaitlistEntry
	for _, e := range f.entries {
		if e.Practitioner == practitioner && e.Date == date {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

type contentedLocker struct{}

func (contentedLocker) WithSlotLock(_ context.Context, _, _ string, _ func(ctx context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

type failingLocker struct{}

func (failingLocker) WithSlotLock(_ context.Context, _, _ string, _ func(ctx context.Context) error) error {
	return stderrors.New("redis: connection refused")
}

type passthroughLocker struct{}

func (passthroughLocker) WithSlotLock(ctx context.Context, _, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func strPtr(s string) *string { return &s }

func newService(repo *fakeAppointmentRepo) *appointmentService.Service {
	return appointmentService.NewService(repo, nil, &fakeWaitlistRepo{}, nil, nil, nil)
}

func booking(practitioner, room, date, timeLabel string) *model.Appointment {
	apt := &model.Appointment{Date: date, Time: timeLabel}
	if practitioner != "" {
		apt.Practitioner = strPtr(practitioner)
	}
	if room != "" {
		apt.Room = strPtr(room)
	}
	return apt
}

func TestCreateAppointmentRequiresDateAndTime(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	_, err := svc.CreateAppointment(context.Background(), &model.Appointment{Date: "2024-01-15"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = svc.CreateAppointment(context.Background(), &model.Appointment{Time: "09:00"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	assert.Equal(t, 0, repo.inserts, "validation failures must not write")
}

func TestCreateAppointmentAssignsIdentity(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	created, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, 1, repo.inserts)
}

func TestCreateAppointmentNormalizesTimeLabel(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	created, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", "09:00:00"))
	require.NoError(t, err)
	assert.Equal(t, "09:00", created.Time)
}

func TestCreateAppointmentRejectsMalformedLabels(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "soon", "09:00"))
	assert.True(t, errors.IsValidation(err))

	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", "morning"))
	assert.True(t, errors.IsValidation(err))

	assert.Equal(t, 0, repo.inserts)
}

func TestPractitionerDoubleBookingRejected(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:00"))
	require.NoError(t, err)

	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C02", "2024-01-15", "09:00"))
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.Equal(t, 1, repo.inserts, "conflicts must not write")
}

func TestRoomDoubleBookingRejected(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:00"))
	require.NoError(t, err)

	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Jones", "C01", "2024-01-15", "09:00"))
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestAxesAreIndependent(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:00"))
	require.NoError(t, err)

	// Different practitioner, different room: both axes clear
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Jones", "C02", "2024-01-15", "09:00"))
	require.NoError(t, err)

	// Room-only booking against a free room
	_, err = svc.CreateAppointment(context.Background(), booking("", "C03", "2024-01-15", "09:00"))
	require.NoError(t, err)
}

func TestBlankAxesAreExemptFromConflicts(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	// Neither axis specified: unlimited bookings on the same slot
	_, err := svc.CreateAppointment(context.Background(), booking("", "", "2024-01-15", "09:00"))
	require.NoError(t, err)
	_, err = svc.CreateAppointment(context.Background(), booking("", "", "2024-01-15", "09:00"))
	require.NoError(t, err)
}

func TestConflictsOnlyApplyToSameSlot(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:00"))
	require.NoError(t, err)

	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:30"))
	require.NoError(t, err)

	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-16", "09:00"))
	require.NoError(t, err)
}

func TestUpdateExcludesOwnRecordFromScan(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	created, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:00"))
	require.NoError(t, err)

	// Re-save unchanged: must not conflict with itself
	resaved := booking("Dr. Smith", "C01", "2024-01-15", "09:00")
	updated, err := svc.UpdateAppointment(context.Background(), created.ID, resaved)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
}

func TestUpdateStillConflictsWithOthers(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:00"))
	require.NoError(t, err)

	second, err := svc.CreateAppointment(context.Background(), booking("Dr. Jones", "C02", "2024-01-15", "09:00"))
	require.NoError(t, err)

	// Moving the second booking onto Dr. Smith's slot must fail
	_, err = svc.UpdateAppointment(context.Background(), second.ID, booking("Dr. Smith", "C02", "2024-01-15", "09:00"))
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestUpdateReplacesAllFields(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	original := booking("Dr. Smith", "C01", "2024-01-15", "09:00")
	original.Observation = strPtr("first visit")
	original.InsurerName = strPtr("ACME Mutual")
	created, err := svc.CreateAppointment(context.Background(), original)
	require.NoError(t, err)

	// The replacement omits observation and insurer: they become null
	replacement := booking("Dr. Smith", "C01", "2024-01-15", "10:00")
	updated, err := svc.UpdateAppointment(context.Background(), created.ID, replacement)
	require.NoError(t, err)

	stored, err := svc.GetAppointment(context.Background(), updated.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", stored.Time)
	assert.Nil(t, stored.Observation)
	assert.Nil(t, stored.InsurerName)
}

func TestUpdateUnknownAppointment(t *testing.T) {
	svc := newService(newFakeAppointmentRepo())

	_, err := svc.UpdateAppointment(context.Background(), 42, booking("Dr. Smith", "", "2024-01-15", "09:00"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestDeleteThenUpdateFailsWithNotFound(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	created, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", "09:00"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAppointment(context.Background(), created.ID))

	_, err = svc.UpdateAppointment(context.Background(), created.ID, booking("Dr. Smith", "", "2024-01-15", "09:00"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestDeleteUnknownAppointment(t *testing.T) {
	svc := newService(newFakeAppointmentRepo())

	err := svc.DeleteAppointment(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestBookedPractitionerAndRoomScenario(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	// Dr. Smith in room C01 at 2024-01-15 09:00
	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:00"))
	require.NoError(t, err)

	// Same practitioner, different room: practitioner axis conflict
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C02", "2024-01-15", "09:00"))
	assert.True(t, errors.IsConflict(err))

	// Different practitioner, same room: room axis conflict
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Jones", "C01", "2024-01-15", "09:00"))
	assert.True(t, errors.IsConflict(err))

	// Different practitioner, different room: bookable
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Jones", "C02", "2024-01-15", "09:00"))
	assert.NoError(t, err)
}

func TestContendedSlotLockSurfacesAsConflict(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := appointmentService.NewService(repo, nil, &fakeWaitlistRepo{}, contentedLocker{}, nil, nil)

	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", "09:00"))
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.Equal(t, 0, repo.inserts)
}

func TestAvailableSlotsExcludeBookedTimes(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:00"))
	require.NoError(t, err)
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C02", "2024-01-15", "14:30"))
	require.NoError(t, err)
	// Another practitioner, another room: irrelevant to this query
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Jones", "C03", "2024-01-15", "10:00"))
	require.NoError(t, err)

	slots, err := svc.AvailableSlots(context.Background(), &model.AvailableSlotsRequest{
		Practitioner: "Dr. Smith",
		Room:         "C01",
		Date:         "2024-01-15",
		StepMinutes:  30,
	})
	require.NoError(t, err)

	assert.Len(t, slots, 18)
	assert.NotContains(t, slots, "09:00")
	assert.NotContains(t, slots, "14:30")
	assert.Contains(t, slots, "10:00")
}

func TestAvailableSlotsMatchRoomOrPractitioner(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	// Room C01 taken by another practitioner: still blocks the room axis
	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Jones", "C01", "2024-01-15", "11:00"))
	require.NoError(t, err)

	slots, err := svc.AvailableSlots(context.Background(), &model.AvailableSlotsRequest{
		Practitioner: "Dr. Smith",
		Room:         "C01",
		Date:         "2024-01-15",
		StepMinutes:  30,
	})
	require.NoError(t, err)
	assert.NotContains(t, slots, "11:00")
}

func TestDayStats(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	for _, label := range []string{"09:00", "09:30", "10:00", "10:30", "11:00"} {
		_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", label))
		require.NoError(t, err)
	}

	stats, err := svc.DayStats(context.Background(), &model.AvailableSlotsRequest{
		Practitioner: "Dr. Smith",
		Date:         "2024-01-15",
		StepMinutes:  30,
	})
	require.NoError(t, err)

	assert.Equal(t, 20, stats.TotalSlots)
	assert.Equal(t, 5, stats.BookedSlots)
	assert.Equal(t, 25, stats.Utilization)
}

func TestFindByPractitionerAndDateRange(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", "09:00"))
	require.NoError(t, err)
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-20", "09:00"))
	require.NoError(t, err)
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-02-01", "09:00"))
	require.NoError(t, err)

	appointments, err := svc.FindByPractitionerAndDateRange(context.Background(), "Dr. Smith", "2024-01-15", "2024-01-31")
	require.NoError(t, err)
	assert.Len(t, appointments, 2)

	single, err := svc.FindByPractitionerAndDate(context.Background(), "Dr. Smith", "2024-01-20")
	require.NoError(t, err)
	assert.Len(t, single, 1)
}

func TestFindByPractitionerRequiresName(t *testing.T) {
	svc := newService(newFakeAppointmentRepo())

	_, err := svc.FindByPractitionerAndDate(context.Background(), "", "2024-01-15")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestListNormalizesDateFilter(t *testing.T) {
	svc := newService(newFakeAppointmentRepo())

	_, err := svc.ListAppointments(context.Background(), &model.AppointmentFilters{Date: "yesterday"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestUnpaddedTimeSharesConflictKey(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "C01", "2024-01-15", "09:00"))
	require.NoError(t, err)

	// "9:00" is the same real time as "09:00" on both axes
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", "9:00"))
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	_, err = svc.CreateAppointment(context.Background(), booking("", "C01", "2024-01-15", "9:00"))
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	assert.Equal(t, 1, repo.inserts)
}

func TestUnpaddedTimeIsStoredCanonicalized(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	created, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", "9:00"))
	require.NoError(t, err)
	assert.Equal(t, "09:00", created.Time)

	// The canonicalized label subtracts from the slot grid
	slots, err := svc.AvailableSlots(context.Background(), &model.AvailableSlotsRequest{
		Practitioner: "Dr. Smith",
		Date:         "2024-01-15",
		StepMinutes:  30,
	})
	require.NoError(t, err)
	assert.NotContains(t, slots, "09:00")
}

func TestBlankAxisStringsBecomeNil(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo)

	apt := &model.Appointment{
		Practitioner: strPtr(""),
		Room:         strPtr(""),
		Date:         "2024-01-15",
		Time:         "09:00",
	}
	created, err := svc.CreateAppointment(context.Background(), apt)
	require.NoError(t, err)
	assert.Nil(t, created.Practitioner)
	assert.Nil(t, created.Room)

	// Empty-string axes stay exempt: the same slot books again
	again := &model.Appointment{
		Practitioner: strPtr(""),
		Room:         strPtr(""),
		Date:         "2024-01-15",
		Time:         "09:00",
	}
	_, err = svc.CreateAppointment(context.Background(), again)
	require.NoError(t, err)
}

func TestLockAcquisitionCounting(t *testing.T) {
	m := metrics.NewMetrics("clinic_api_test", "scheduler")
	acquired := m.LockAcquisitions.WithLabelValues("acquired")
	contended := m.LockAcquisitions.WithLabelValues("contended")

	// A Redis outage is neither an acquisition nor contention
	repo := newFakeAppointmentRepo()
	svc := appointmentService.NewService(repo, nil, &fakeWaitlistRepo{}, failingLocker{}, nil, m)
	_, err := svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", "09:00"))
	require.Error(t, err)
	assert.False(t, errors.IsConflict(err))
	assert.Equal(t, float64(0), testutil.ToFloat64(acquired))

	svc = appointmentService.NewService(repo, nil, &fakeWaitlistRepo{}, contentedLocker{}, nil, m)
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", "09:00"))
	require.Error(t, err)
	assert.Equal(t, float64(0), testutil.ToFloat64(acquired))
	assert.Equal(t, float64(1), testutil.ToFloat64(contended))

	svc = appointmentService.NewService(repo, nil, &fakeWaitlistRepo{}, passthroughLocker{}, nil, m)
	_, err = svc.CreateAppointment(context.Background(), booking("Dr. Smith", "", "2024-01-15", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(acquired))
}
