package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"sterling_partners/internal/domain/entities"
	"sterling_partners/internal/domain/scheduler"
	"sterling_partners/internal/logger"
	"sterling_partners/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an untouched wizard session survives.
const DefaultSessionTTL = 30 * time.Minute

var (
	ErrBookingSessionNotFound = errors.New("booking session not found")
	ErrInvalidSessionID       = errors.New("invalid booking session id")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrInvalidBookingID       = errors.New("invalid booking id")
	ErrBookingRepoUnset       = errors.New("booking repository not configured")
)

// BookingOpener opens the appointment wizard. Anything on the page that offers
// "plan a meeting" is handed this capability instead of reaching for the use case.
type BookingOpener interface {
	Open(ctx context.Context, params OpenBookingParams) (entities.BookingSession, error)
}

// OpenBookingParams preselects wizard fields. Zero values keep the defaults.
type OpenBookingParams struct {
	Package entities.PackageChoice
	QuoteID string
}

// BookingUpdate patches a draft. It is applied as a whole: if any field is
// rejected none of them are.
type BookingUpdate struct {
	Package *entities.PackageChoice
	Date    *string
	Time    *string
	Contact scheduler.ContactUpdate
}

// IBookingUseCase manages appointment wizard sessions.
//
//   - POST   /booking-sessions              => Open()
//   - GET    /booking-sessions/{id}         => Get()
//   - PATCH  /booking-sessions/{id}         => Update()
//   - POST   /booking-sessions/{id}/next    => Next()
//   - POST   /booking-sessions/{id}/back    => Back()
//   - POST   /booking-sessions/{id}/submit  => Submit()
//   - DELETE /booking-sessions/{id}         => Close()
//   - GET    /booking/availability          => Availability()
//   - GET    /bookings/{id}                 => GetBooking()

type IBookingUseCase interface {
	BookingOpener
	Get(ctx context.Context, sessionID string) (entities.BookingSession, error)
	Update(ctx context.Context, sessionID string, u BookingUpdate) (entities.BookingSession, error)
	Next(ctx context.Context, sessionID string) (entities.BookingSession, error)
	Back(ctx context.Context, sessionID string) (entities.BookingSession, error)
	Submit(ctx context.Context, sessionID string) (entities.BookingSession, error)
	Close(ctx context.Context, sessionID string) error
	Availability(ctx context.Context) entities.Availability
	GetBooking(ctx context.Context, id string) (entities.Booking, error)
}

type BookingOption func(*BookingUseCase)

func WithBookingClock(now func() time.Time) BookingOption {
	return func(u *BookingUseCase) { u.now = now }
}

func WithBookingAfterFunc(af scheduler.AfterFunc) BookingOption {
	return func(u *BookingUseCase) { u.afterFunc = af }
}

func WithConfirmationDwell(d time.Duration) BookingOption {
	return func(u *BookingUseCase) { u.dwell = d }
}

func WithSessionTTL(ttl time.Duration) BookingOption {
	return func(u *BookingUseCase) { u.ttl = ttl }
}

func WithBookingLocation(loc *time.Location) BookingOption {
	return func(u *BookingUseCase) { u.loc = loc }
}

func WithBookingNotifier(n interfaces.IBookingNotifier) BookingOption {
	return func(u *BookingUseCase) { u.notifier = n }
}

// WithBookingTimeSlots replaces the default appointment slots. Empty keeps them.
func WithBookingTimeSlots(slots []string) BookingOption {
	return func(u *BookingUseCase) {
		if len(slots) > 0 {
			u.slots = slots
		}
	}
}

func WithBookingEventPublisher(p interfaces.IBookingEventPublisher) BookingOption {
	return func(u *BookingUseCase) { u.publisher = p }
}

// BookingUseCase keeps wizard sessions in memory and confirms submitted drafts.
// Only the resulting Booking is persisted.
type BookingUseCase struct {
	bookings  interfaces.IBookingRepository
	quotes    interfaces.IQuoteRepository
	notifier  interfaces.IBookingNotifier
	publisher interfaces.IBookingEventPublisher

	mu       sync.Mutex
	sessions map[string]*scheduler.Wizard

	now       func() time.Time
	afterFunc scheduler.AfterFunc
	dwell     time.Duration
	ttl       time.Duration
	loc       *time.Location
	slots     []string
}

var (
	_ IBookingUseCase     = (*BookingUseCase)(nil)
	_ scheduler.Confirmer = (*BookingUseCase)(nil)
)

func NewBookingUseCase(bookings interfaces.IBookingRepository, quotes interfaces.IQuoteRepository, opts ...BookingOption) *BookingUseCase {
	u := &BookingUseCase{
		bookings:  bookings,
		quotes:    quotes,
		sessions:  make(map[string]*scheduler.Wizard),
		now:       time.Now,
		afterFunc: scheduler.StdAfterFunc,
		dwell:     scheduler.DefaultDwell,
		ttl:       DefaultSessionTTL,
		loc:       time.UTC,
		slots:     scheduler.DefaultTimeSlots,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *BookingUseCase) Open(ctx context.Context, params OpenBookingParams) (entities.BookingSession, error) {
	opts := []scheduler.Option{
		scheduler.WithClock(u.now),
		scheduler.WithAfterFunc(u.afterFunc),
		scheduler.WithDwell(u.dwell),
		scheduler.WithLocation(u.loc),
		scheduler.WithTimeSlots(u.slots),
		scheduler.WithConfirmer(u),
		scheduler.WithOnReset(u.forget),
	}
	if params.Package != "" {
		if !params.Package.Valid() {
			return entities.BookingSession{}, scheduler.ErrInvalidPackage
		}
		opts = append(opts, scheduler.WithPackage(params.Package))
	}
	if quoteID := strings.TrimSpace(params.QuoteID); quoteID != "" {
		if err := u.ensureQuote(ctx, quoteID); err != nil {
			return entities.BookingSession{}, err
		}
		opts = append(opts, scheduler.WithQuoteID(quoteID))
	}

	w := scheduler.NewWizard(uuid.NewString(), opts...)
	u.mu.Lock()
	u.sessions[w.ID()] = w
	u.mu.Unlock()

	logger.Info("[booking][usecase] session opened",
		zap.String("session_id", w.ID()),
		zap.String("quote_id", params.QuoteID),
	)
	return w.Snapshot(), nil
}

func (u *BookingUseCase) Get(_ context.Context, sessionID string) (entities.BookingSession, error) {
	w, err := u.lookup(sessionID)
	if err != nil {
		return entities.BookingSession{}, err
	}
	return w.Snapshot(), nil
}

func (u *BookingUseCase) Update(_ context.Context, sessionID string, upd BookingUpdate) (entities.BookingSession, error) {
	w, err := u.lookup(sessionID)
	if err != nil {
		return entities.BookingSession{}, err
	}

	s, err := w.Update(scheduler.DraftUpdate{
		Package: upd.Package,
		Date:    trimmed(upd.Date),
		Time:    trimmed(upd.Time),
		Contact: upd.Contact,
	})
	return s, u.sessionErr(err)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (u *BookingUseCase) Next(_ context.Context, sessionID string) (entities.BookingSession, error) {
	w, err := u.lookup(sessionID)
	if err != nil {
		return entities.BookingSession{}, err
	}
	s, err := w.Next()
	return s, u.sessionErr(err)
}

func (u *BookingUseCase) Back(_ context.Context, sessionID string) (entities.BookingSession, error) {
	w, err := u.lookup(sessionID)
	if err != nil {
		return entities.BookingSession{}, err
	}
	s, err := w.Back()
	return s, u.sessionErr(err)
}

func (u *BookingUseCase) Submit(ctx context.Context, sessionID string) (entities.BookingSession, error) {
	w, err := u.lookup(sessionID)
	if err != nil {
		return entities.BookingSession{}, err
	}
	s, err := w.Submit(ctx)
	if err != nil {
		logger.Warn("[booking][usecase] submit rejected",
			zap.String("session_id", sessionID),
			zap.String("step", s.Draft.Step.String()),
			zap.Error(err),
		)
	}
	return s, u.sessionErr(err)
}

func (u *BookingUseCase) Close(_ context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrInvalidSessionID
	}

	u.mu.Lock()
	w, ok := u.sessions[sessionID]
	delete(u.sessions, sessionID)
	u.mu.Unlock()

	if !ok {
		return ErrBookingSessionNotFound
	}
	w.Close()
	logger.Info("[booking][usecase] session closed", zap.String("session_id", sessionID))
	return nil
}

func (u *BookingUseCase) Availability(_ context.Context) entities.Availability {
	return entities.Availability{
		Dates:     scheduler.SelectableDates(u.now().In(u.loc)),
		TimeSlots: append([]string(nil), u.slots...),
		Timezone:  u.loc.String(),
	}
}

func (u *BookingUseCase) GetBooking(ctx context.Context, id string) (entities.Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Booking{}, ErrInvalidBookingID
	}
	if u.bookings == nil {
		return entities.Booking{}, ErrBookingRepoUnset
	}

	b, err := u.bookings.GetByID(ctx, id)
	if err != nil {
		return entities.Booking{}, err
	}
	if b.ID == "" {
		return entities.Booking{}, ErrBookingNotFound
	}
	return b, nil
}

// Confirm records the submitted draft as a booking. Persisting is required;
// marking the quote, the email and the event are best-effort.
func (u *BookingUseCase) Confirm(ctx context.Context, sessionID string, draft entities.BookingDraft) (string, error) {
	if u.bookings == nil {
		return "", ErrBookingRepoUnset
	}

	b := entities.Booking{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		QuoteID:   draft.QuoteID,
		Package:   draft.Package,
		Date:      draft.Date,
		Time:      draft.Time,
		Contact:   draft.Contact,
		Status:    entities.BookingStatusConfirmed,
		CreatedAt: u.now().UTC(),
	}
	log := logger.With(zap.String("session_id", sessionID), zap.String("booking_id", b.ID))

	created, err := u.bookings.Create(ctx, b)
	if err != nil {
		log.Error("[booking][usecase] persist failed", zap.Error(err))
		return "", err
	}

	if created.QuoteID != "" && u.quotes != nil {
		if _, err := u.quotes.UpdateStatusByID(ctx, created.QuoteID, entities.QuoteStatusBooked); err != nil {
			log.Warn("[booking][usecase] marking quote booked failed", zap.String("quote_id", created.QuoteID), zap.Error(err))
		}
	}
	if u.notifier != nil {
		if err := u.notifier.SendBookingConfirmation(ctx, created); err != nil {
			log.Warn("[booking][usecase] confirmation email failed", zap.Error(err))
		}
	}
	if u.publisher != nil {
		if err := u.publisher.PublishBookingConfirmed(ctx, created); err != nil {
			log.Warn("[booking][usecase] publishing booking event failed", zap.Error(err))
		}
	}

	log.Info("[booking][usecase] booking confirmed",
		zap.String("date", created.Date),
		zap.String("time", created.Time),
		zap.String("package", string(created.Package)),
	)
	return created.ID, nil
}

// ExpireIdle closes sessions untouched for longer than the TTL and returns how
// many were removed. A session waiting on its confirmer is left alone.
func (u *BookingUseCase) ExpireIdle(now time.Time) int {
	var stale []*scheduler.Wizard

	u.mu.Lock()
	for id, w := range u.sessions {
		if now.Sub(w.LastActivity()) > u.ttl && !w.Submitting() {
			stale = append(stale, w)
			delete(u.sessions, id)
		}
	}
	u.mu.Unlock()

	for _, w := range stale {
		w.Close()
	}
	return len(stale)
}

// RunJanitor expires idle sessions every interval until ctx is done.
func (u *BookingUseCase) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := u.ExpireIdle(u.now()); n > 0 {
				logger.Info("[booking][janitor] expired idle sessions", zap.Int("count", n))
			}
		}
	}
}

func (u *BookingUseCase) SessionCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.sessions)
}

func (u *BookingUseCase) lookup(sessionID string) (*scheduler.Wizard, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	w, ok := u.sessions[sessionID]
	if !ok {
		return nil, ErrBookingSessionNotFound
	}
	return w, nil
}

// forget drops a session whose dwell has elapsed.
func (u *BookingUseCase) forget(sessionID string) {
	u.mu.Lock()
	delete(u.sessions, sessionID)
	u.mu.Unlock()
	logger.Debug("[booking][usecase] session reset after confirmation", zap.String("session_id", sessionID))
}

// sessionErr hides wizards closed between lookup and use.
func (u *BookingUseCase) sessionErr(err error) error {
	if errors.Is(err, scheduler.ErrWizardClosed) {
		return ErrBookingSessionNotFound
	}
	return err
}

func (u *BookingUseCase) ensureQuote(ctx context.Context, quoteID string) error {
	if u.quotes == nil {
		return ErrQuoteRepoUnset
	}
	q, err := u.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return err
	}
	if q.ID == "" {
		return ErrQuoteNotFound
	}
	return nil
}
