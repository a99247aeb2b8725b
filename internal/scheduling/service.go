package scheduling

import (
	"context"
	"strings"
	"time"

	"barberm/internal/calendar"
	"barberm/internal/events"
	"barberm/internal/logging"
	"barberm/internal/metrics"
	"barberm/internal/models"
	"barberm/internal/repository"
	"barberm/internal/slots"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service implements both the public and the admin scheduling surfaces on
// top of the store, the business calendar and the injected catalog.
type Service struct {
	store          Store
	cal            *calendar.Calendar
	gen            *slots.Generator
	catalog        []models.Service
	catalogByName  map[string]models.Service
	maxBookingDays int
	bus            EventPublisher
	snapshots      repository.SnapshotCache
	logger         zerolog.Logger
	now            func() time.Time
}

var _ PublicScheduler = (*Service)(nil)
var _ AdminScheduler = (*Service)(nil)

func NewService(store Store, cal *calendar.Calendar, catalog []models.Service, maxBookingDays int, bus EventPublisher, logger *zerolog.Logger) *Service {
	if maxBookingDays <= 0 {
		maxBookingDays = 365
	}

	s := &Service{
		store:          store,
		cal:            cal,
		catalog:        catalog,
		catalogByName:  make(map[string]models.Service, len(catalog)),
		maxBookingDays: maxBookingDays,
		bus:            bus,
		now:            time.Now,
	}
	for _, svc := range catalog {
		s.catalogByName[catalogKey(svc.Name)] = svc
	}

	s.logger = logging.Component(logger, "scheduling")
	s.gen = slots.NewGenerator(cal, s, logger)
	return s
}

// SetSnapshotCache attaches a day-snapshot cache. Day reads are then served
// from the cache when a snapshot exists, and every mutation clears the
// affected day so the next read comes from the store.
func (s *Service) SetSnapshotCache(cache repository.SnapshotCache) {
	s.snapshots = cache
}

func catalogKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Services returns the bookable catalog entries in configuration order.
func (s *Service) Services() []models.Service {
	available := make([]models.Service, 0, len(s.catalog))
	for _, svc := range s.catalog {
		if svc.Available {
			available = append(available, svc)
		}
	}
	return available
}

// ServiceByName looks up a catalog entry by case-insensitive name.
func (s *Service) ServiceByName(name string) (models.Service, bool) {
	svc, ok := s.catalogByName[catalogKey(name)]
	return svc, ok
}

// OpenDays lists the next bookable dates starting today.
func (s *Service) OpenDays(count int) []string {
	if count <= 0 {
		count = models.DefaultOpenDaysCount
	}
	return s.cal.NextOpenDays(s.now(), count)
}

// Slots generates the candidate slots for a date and service duration.
func (s *Service) Slots(ctx context.Context, date string, durationMinutes int) ([]models.Slot, error) {
	return s.gen.Generate(ctx, date, durationMinutes)
}

// CreateRequest is the client-facing booking input. The service price and
// duration are snapshotted from the catalog, never taken from the caller.
type CreateRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	Service     string `json:"service"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
}

// CreateAppointment validates the request, snapshots the catalog price and
// inserts the appointment in pending status. The insert re-checks
// availability transactionally, so an overlapping concurrent booking
// surfaces as database.ErrSlotTaken rather than a double booking.
func (s *Service) CreateAppointment(ctx context.Context, req CreateRequest) (*models.Appointment, error) {
	svc, err := s.validateCreate(req)
	if err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		ID:              uuid.NewString(),
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientEmail:     strings.TrimSpace(req.ClientEmail),
		ClientPhone:     strings.TrimSpace(req.ClientPhone),
		Service:         svc.Name,
		ServiceDuration: svc.DurationMinutes,
		ServicePrice:    svc.Price,
		Date:            req.Date,
		Time:            req.Time,
		Notes:           strings.TrimSpace(req.Notes),
		Status:          models.StatusPending,
	}

	if err := s.store.CreateAppointmentChecked(ctx, appt); err != nil {
		return nil, err
	}
	s.clearSnapshot(ctx, appt.Date)

	metrics.IncCreated()
	s.publishEvent(events.EventAppointmentCreated, appt)
	s.logger.Info().
		Str("appointment_id", appt.ID).
		Str("service", appt.Service).
		Str("date", appt.Date).
		Str("time", appt.Time).
		Msg("appointment created")

	return appt, nil
}

func (s *Service) validateCreate(req CreateRequest) (models.Service, error) {
	var zero models.Service

	if strings.TrimSpace(req.ClientName) == "" {
		return zero, validationf("client_name is required")
	}
	if strings.TrimSpace(req.ClientEmail) == "" && strings.TrimSpace(req.ClientPhone) == "" {
		return zero, validationf("client_email or client_phone is required")
	}
	if len(req.Notes) > models.MaxNotesLength {
		return zero, validationf("notes exceed %d characters", models.MaxNotesLength)
	}

	svc, ok := s.ServiceByName(req.Service)
	if !ok {
		// The catalog is the only price source; an unknown name must fail
		// rather than default the price to zero.
		return zero, validationf("unknown service %q", req.Service)
	}
	if !svc.Available {
		return zero, validationf("service %q is not bookable", svc.Name)
	}

	if err := s.validateBookingDate(req.Date); err != nil {
		return zero, err
	}
	if err := s.validateSlotTime(req.Date, req.Time, svc.DurationMinutes); err != nil {
		return zero, err
	}

	return svc, nil
}

func (s *Service) validateBookingDate(date string) error {
	parsed, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return validationf("invalid date %q, expected YYYY-MM-DD", date)
	}

	today := s.now().Format(models.DateFormat)
	if date < today {
		return validationf("date %s is in the past", date)
	}

	maxDate := s.now().AddDate(0, 0, s.maxBookingDays)
	if parsed.After(maxDate) {
		return validationf("date %s is more than %d days ahead", date, s.maxBookingDays)
	}

	if !s.cal.IsOpen(date) {
		return validationf("business is closed on %s", date)
	}
	return nil
}

func (s *Service) validateSlotTime(date, startTime string, durationMinutes int) error {
	start, err := calendar.ParseClock(startTime)
	if err != nil {
		return validationf("invalid time %q, expected HH:MM", startTime)
	}

	hours, ok := s.cal.HoursFor(date)
	if !ok {
		return validationf("business is closed on %s", date)
	}
	if start < hours.Start || start+durationMinutes > hours.End {
		return validationf("time %s does not fit the operating hours", startTime)
	}
	return nil
}

// GetAppointment returns one appointment by id.
func (s *Service) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	return s.store.GetAppointment(ctx, id)
}

// ListAppointments returns the full non-deleted book.
func (s *Service) ListAppointments(ctx context.Context) ([]*models.Appointment, error) {
	return s.store.GetAllAppointments(ctx)
}

// ClientAppointments returns the appointments matching a client email or
// phone. Possession of the identifier is the credential.
func (s *Service) ClientAppointments(ctx context.Context, identifier string) ([]*models.Appointment, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, validationf("identifier is required")
	}
	return s.store.GetAppointmentsByClient(ctx, identifier)
}

// AppointmentsByDate returns the appointments for one exact date. A cached
// day snapshot is served when present; a snapshot of an empty day looks
// like a miss and falls through to the store.
func (s *Service) AppointmentsByDate(ctx context.Context, date string) ([]*models.Appointment, error) {
	if _, err := calendar.Weekday(date); err != nil {
		return nil, validationf("invalid date %q, expected YYYY-MM-DD", date)
	}

	if s.snapshots != nil {
		cached, err := s.snapshots.GetDaySnapshot(ctx, date)
		if err != nil {
			s.logger.Warn().Err(err).Str("date", date).Msg("snapshot read error")
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	appointments, err := s.store.GetAppointmentsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if s.snapshots != nil && len(appointments) > 0 {
		if err := s.snapshots.SetDaySnapshot(ctx, date, appointments); err != nil {
			s.logger.Warn().Err(err).Str("date", date).Msg("snapshot write error")
		}
	}
	return appointments, nil
}

// AppointmentsByDateRange returns the appointments dated within [from, to],
// both bounds inclusive.
func (s *Service) AppointmentsByDateRange(ctx context.Context, from, to string) ([]*models.Appointment, error) {
	if _, err := calendar.Weekday(from); err != nil {
		return nil, validationf("invalid date %q, expected YYYY-MM-DD", from)
	}
	if _, err := calendar.Weekday(to); err != nil {
		return nil, validationf("invalid date %q, expected YYYY-MM-DD", to)
	}
	if from > to {
		return nil, validationf("range start %s is after range end %s", from, to)
	}
	return s.store.GetAppointmentsByDateRange(ctx, from, to)
}

// clearSnapshot drops the cached day after a mutation touching it.
func (s *Service) clearSnapshot(ctx context.Context, date string) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.ClearDaySnapshot(ctx, date); err != nil {
		s.logger.Warn().Err(err).Str("date", date).Msg("snapshot clear error")
	}
}

// Patch applies a partial update. When the patch moves the appointment to
// a different slot, availability is re-checked with the appointment itself
// excluded from the conflict scan.
func (s *Service) Patch(ctx context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error) {
	if patch.IsEmpty() {
		return nil, validationf("patch contains no fields")
	}
	if patch.Notes != nil && len(*patch.Notes) > models.MaxNotesLength {
		return nil, validationf("notes exceed %d characters", models.MaxNotesLength)
	}

	current, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil || patch.Time != nil {
		date := current.Date
		if patch.Date != nil {
			date = *patch.Date
		}
		startTime := current.Time
		if patch.Time != nil {
			startTime = *patch.Time
		}

		if err := s.validateBookingDate(date); err != nil {
			return nil, err
		}
		if err := s.validateSlotTime(date, startTime, current.ServiceDuration); err != nil {
			return nil, err
		}

		available, err := s.IsAvailable(ctx, date, startTime, current.ServiceDuration, id)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, validationf("slot %s %s is already taken", date, startTime)
		}
	}

	if err := s.store.UpdateAppointment(ctx, id, patch); err != nil {
		return nil, err
	}

	s.clearSnapshot(ctx, current.Date)
	if patch.Date != nil && *patch.Date != current.Date {
		s.clearSnapshot(ctx, *patch.Date)
	}

	return s.store.GetAppointment(ctx, id)
}

// Delete logically removes the appointment from all reads.
func (s *Service) Delete(ctx context.Context, id string) error {
	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.SoftDeleteAppointment(ctx, id); err != nil {
		return err
	}
	s.clearSnapshot(ctx, appt.Date)
	s.logger.Info().Str("appointment_id", id).Msg("appointment deleted")
	return nil
}

// Stats summarizes the book for the dashboard.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	return s.store.GetStats(ctx, s.now().Format(models.DateFormat))
}

// Cleanup purges non-pending appointments older than the retention window.
func (s *Service) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = models.DefaultCleanupDays
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays).Format(models.DateFormat)

	removed, err := s.store.CleanupOldAppointments(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Str("cutoff", cutoff).Msg("old appointments cleaned up")
	}
	return removed, nil
}

func (s *Service) publishEvent(eventType string, appt *models.Appointment) {
	if s.bus == nil {
		return
	}

	payload := events.AppointmentEventPayload{
		AppointmentID:   appt.ID,
		ClientName:      appt.ClientName,
		ClientEmail:     appt.ClientEmail,
		ClientPhone:     appt.ClientPhone,
		Service:         appt.Service,
		Date:            appt.Date,
		Time:            appt.Time,
		Status:          string(appt.Status),
		RejectionReason: appt.RejectionReason,
		FinalPrice:      appt.FinalPrice,
	}

	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("appointment_id", appt.ID).Msg("publish event error")
	}
}
