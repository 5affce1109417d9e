package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sterling_partners/internal/domain/entities"
	"sterling_partners/internal/domain/scheduler"
	"sterling_partners/internal/usecase/interfaces"
	mock_interfaces "sterling_partners/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

// Monday.
var bookingNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) scheduler.Timer {
	t := &manualTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) FireAll() {
	for _, t := range c.timers {
		if !t.stopped {
			t.f()
		}
	}
}

func newBookingUC(clock *manualClock, bookings *mock_interfaces.MockIBookingRepository, quotes *mock_interfaces.MockIQuoteRepository, opts ...BookingOption) *BookingUseCase {
	base := []BookingOption{
		WithBookingClock(clock.Now),
		WithBookingAfterFunc(clock.AfterFunc),
	}
	// Keep absent repositories as untyped nil.
	var b interfaces.IBookingRepository
	if bookings != nil {
		b = bookings
	}
	var q interfaces.IQuoteRepository
	if quotes != nil {
		q = quotes
	}
	return NewBookingUseCase(b, q, append(base, opts...)...)
}

func ptr[T any](v T) *T { return &v }

// completeDraft walks an open session to the contact step with contact filled in.
func completeDraft(t *testing.T, uc *BookingUseCase, id string) {
	t.Helper()
	ctx := context.Background()
	if _, err := uc.Next(ctx, id); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := uc.Update(ctx, id, BookingUpdate{Date: ptr("2026-10-21"), Time: ptr("13:30")}); err != nil {
		t.Fatalf("update schedule: %v", err)
	}
	if _, err := uc.Next(ctx, id); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := uc.Update(ctx, id, BookingUpdate{Contact: scheduler.ContactUpdate{Name: ptr("Sanne Bakker"), Email: ptr("sanne@example.nl")}}); err != nil {
		t.Fatalf("update contact: %v", err)
	}
}

func TestBookingUseCase_Open(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil)
		s, err := uc.Open(context.Background(), OpenBookingParams{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ID == "" || s.Draft.Package != entities.PackageGrowth || s.Draft.Step != entities.BookingStepPackage {
			t.Fatalf("unexpected session: %+v", s)
		}
		if uc.SessionCount() != 1 {
			t.Fatalf("expected 1 session, got %d", uc.SessionCount())
		}
	})

	t.Run("invalid package", func(t *testing.T) {
		uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil)
		_, err := uc.Open(context.Background(), OpenBookingParams{Package: "premium"})
		if !errors.Is(err, scheduler.ErrInvalidPackage) {
			t.Fatalf("expected ErrInvalidPackage, got %v", err)
		}
	})

	t.Run("unknown quote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		quotes := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := newBookingUC(&manualClock{now: bookingNow}, nil, quotes)

		quotes.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quote{}, nil)

		_, err := uc.Open(context.Background(), OpenBookingParams{QuoteID: "q-1"})
		if !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
		if uc.SessionCount() != 0 {
			t.Fatalf("expected no session")
		}
	})

	t.Run("from quote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		quotes := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := newBookingUC(&manualClock{now: bookingNow}, nil, quotes)

		quotes.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quote{ID: "q-1"}, nil)

		s, err := uc.Open(context.Background(), OpenBookingParams{QuoteID: "q-1", Package: entities.PackagePlus})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Draft.QuoteID != "q-1" || s.Draft.Package != entities.PackagePlus {
			t.Fatalf("unexpected draft: %+v", s.Draft)
		}
	})
}

func TestBookingUseCase_SessionLookup(t *testing.T) {
	uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil)

	if _, err := uc.Get(context.Background(), " "); !errors.Is(err, ErrInvalidSessionID) {
		t.Fatalf("expected ErrInvalidSessionID, got %v", err)
	}
	if _, err := uc.Next(context.Background(), "missing"); !errors.Is(err, ErrBookingSessionNotFound) {
		t.Fatalf("expected ErrBookingSessionNotFound, got %v", err)
	}
	if err := uc.Close(context.Background(), "missing"); !errors.Is(err, ErrBookingSessionNotFound) {
		t.Fatalf("expected ErrBookingSessionNotFound, got %v", err)
	}
}

func TestBookingUseCase_ScheduleGate(t *testing.T) {
	ctx := context.Background()
	uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil)
	s, _ := uc.Open(ctx, OpenBookingParams{})

	if _, err := uc.Next(ctx, s.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := uc.Next(ctx, s.ID)
	if !errors.Is(err, scheduler.ErrScheduleIncomplete) {
		t.Fatalf("expected ErrScheduleIncomplete, got %v", err)
	}
	if got.Draft.Step != entities.BookingStepSchedule {
		t.Fatalf("expected to stay on schedule step, got %s", got.Draft.Step)
	}

	got, err = uc.Update(ctx, s.ID, BookingUpdate{Date: ptr("2026-10-24")})
	if !errors.Is(err, scheduler.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if got.Draft.Date != "" {
		t.Fatalf("date must not change on rejection")
	}

	got, err = uc.Update(ctx, s.ID, BookingUpdate{Date: ptr(" 2026-10-20 "), Time: ptr("09:30")})
	if err != nil || !got.CanAdvance {
		t.Fatalf("expected schedule complete, got %+v err=%v", got, err)
	}
	got, err = uc.Next(ctx, s.ID)
	if err != nil || got.Draft.Step != entities.BookingStepContact {
		t.Fatalf("expected contact step, got %+v err=%v", got, err)
	}
	got, err = uc.Back(ctx, s.ID)
	if err != nil || got.Draft.Step != entities.BookingStepSchedule || got.Draft.Time != "09:30" {
		t.Fatalf("expected back to schedule with fields kept, got %+v err=%v", got, err)
	}
}

func TestBookingUseCase_UpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil)
	s, _ := uc.Open(ctx, OpenBookingParams{})

	got, err := uc.Update(ctx, s.ID, BookingUpdate{
		Package: ptr(entities.PackageBasic),
		Date:    ptr("2026-10-21"),
		Time:    ptr("12:15"),
	})
	if !errors.Is(err, scheduler.ErrInvalidTimeSlot) {
		t.Fatalf("expected ErrInvalidTimeSlot, got %v", err)
	}
	if got.Draft.Package != entities.PackageGrowth || got.Draft.Date != "" {
		t.Fatalf("rejected patch must not be partially applied: %+v", got.Draft)
	}

	got, _ = uc.Get(ctx, s.ID)
	if got.Draft.Package != entities.PackageGrowth || got.Draft.Date != "" || got.Draft.Time != "" {
		t.Fatalf("stored draft changed: %+v", got.Draft)
	}
}

func TestBookingUseCase_CloseDuringSubmit(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bookings := mock_interfaces.NewMockIBookingRepository(ctrl)
	clock := &manualClock{now: bookingNow}
	uc := newBookingUC(clock, bookings, nil)

	s, _ := uc.Open(ctx, OpenBookingParams{})
	completeDraft(t, uc, s.ID)

	entered := make(chan struct{})
	release := make(chan struct{})
	bookings.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, b entities.Booking) (entities.Booking, error) {
			close(entered)
			<-release
			return b, nil
		},
	)

	type result struct {
		s   entities.BookingSession
		err error
	}
	done := make(chan result, 1)
	go func() {
		got, err := uc.Submit(ctx, s.ID)
		done <- result{got, err}
	}()
	<-entered

	clock.Advance(DefaultSessionTTL + time.Minute)
	if n := uc.ExpireIdle(clock.Now()); n != 0 {
		t.Fatalf("a session waiting on its confirmer must not expire, got %d", n)
	}
	if err := uc.Close(ctx, s.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	close(release)

	res := <-done
	if res.err != nil {
		t.Fatalf("submit: %v", res.err)
	}
	if res.s.Draft.Step != entities.BookingStepSubmitted || res.s.Reference == "" {
		t.Fatalf("expected the booking reference, got %+v", res.s)
	}
	if uc.SessionCount() != 0 {
		t.Fatalf("expected session removed")
	}
	if len(clock.timers) != 0 {
		t.Fatalf("a closed session must not start the dwell")
	}
}

func TestBookingUseCase_SubmitConfirms(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bookings := mock_interfaces.NewMockIBookingRepository(ctrl)
	quotes := mock_interfaces.NewMockIQuoteRepository(ctrl)
	notifier := mock_interfaces.NewMockIBookingNotifier(ctrl)
	publisher := mock_interfaces.NewMockIBookingEventPublisher(ctrl)
	clock := &manualClock{now: bookingNow}
	uc := newBookingUC(clock, bookings, quotes, WithBookingNotifier(notifier), WithBookingEventPublisher(publisher))

	quotes.EXPECT().GetByID(gomock.Any(), "q-7").Return(entities.Quote{ID: "q-7"}, nil)
	s, err := uc.Open(ctx, OpenBookingParams{QuoteID: "q-7"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	completeDraft(t, uc, s.ID)

	var bookingID string
	bookings.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Booking{})).DoAndReturn(
		func(_ context.Context, b entities.Booking) (entities.Booking, error) {
			if b.ID == "" || b.SessionID != s.ID || b.QuoteID != "q-7" || b.Status != entities.BookingStatusConfirmed {
				t.Fatalf("unexpected booking: %+v", b)
			}
			if b.Date != "2026-10-21" || b.Time != "13:30" || b.Contact.Email != "sanne@example.nl" {
				t.Fatalf("draft not copied: %+v", b)
			}
			bookingID = b.ID
			return b, nil
		},
	)
	quotes.EXPECT().UpdateStatusByID(gomock.Any(), "q-7", entities.QuoteStatusBooked).Return(entities.Quote{ID: "q-7"}, nil)
	notifier.EXPECT().SendBookingConfirmation(gomock.Any(), gomock.Any()).Return(nil)
	publisher.EXPECT().PublishBookingConfirmed(gomock.Any(), gomock.Any()).Return(nil)

	got, err := uc.Submit(ctx, s.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Draft.Step != entities.BookingStepSubmitted || got.Reference != bookingID {
		t.Fatalf("unexpected session after submit: %+v", got)
	}

	if _, err := uc.Submit(ctx, s.ID); !errors.Is(err, scheduler.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}

	clock.FireAll()
	if uc.SessionCount() != 0 {
		t.Fatalf("expected session removed after dwell")
	}
	if _, err := uc.Get(ctx, s.ID); !errors.Is(err, ErrBookingSessionNotFound) {
		t.Fatalf("expected ErrBookingSessionNotFound, got %v", err)
	}
}

func TestBookingUseCase_SubmitBestEffortSideEffects(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bookings := mock_interfaces.NewMockIBookingRepository(ctrl)
	notifier := mock_interfaces.NewMockIBookingNotifier(ctrl)
	publisher := mock_interfaces.NewMockIBookingEventPublisher(ctrl)
	uc := newBookingUC(&manualClock{now: bookingNow}, bookings, nil, WithBookingNotifier(notifier), WithBookingEventPublisher(publisher))

	s, _ := uc.Open(ctx, OpenBookingParams{})
	completeDraft(t, uc, s.ID)

	bookings.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, b entities.Booking) (entities.Booking, error) { return b, nil },
	)
	notifier.EXPECT().SendBookingConfirmation(gomock.Any(), gomock.Any()).Return(errors.New("resend down"))
	publisher.EXPECT().PublishBookingConfirmed(gomock.Any(), gomock.Any()).Return(errors.New("sqs down"))

	got, err := uc.Submit(ctx, s.ID)
	if err != nil {
		t.Fatalf("side effect failures must not fail the booking: %v", err)
	}
	if got.Draft.Step != entities.BookingStepSubmitted {
		t.Fatalf("expected submitted, got %s", got.Draft.Step)
	}
}

func TestBookingUseCase_SubmitPersistFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bookings := mock_interfaces.NewMockIBookingRepository(ctrl)
	uc := newBookingUC(&manualClock{now: bookingNow}, bookings, nil)

	s, _ := uc.Open(ctx, OpenBookingParams{})
	completeDraft(t, uc, s.ID)

	bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Booking{}, errors.New("db"))

	got, err := uc.Submit(ctx, s.ID)
	if !errors.Is(err, scheduler.ErrConfirmationFailed) {
		t.Fatalf("expected ErrConfirmationFailed, got %v", err)
	}
	if got.Draft.Step != entities.BookingStepFailed || got.FailureReason != "db" {
		t.Fatalf("expected failed state, got %+v", got)
	}

	bookings.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, b entities.Booking) (entities.Booking, error) { return b, nil },
	)
	got, err = uc.Submit(ctx, s.ID)
	if err != nil || got.Draft.Step != entities.BookingStepSubmitted {
		t.Fatalf("expected retry to succeed, got %+v err=%v", got, err)
	}
}

func TestBookingUseCase_SubmitWithoutRepository(t *testing.T) {
	ctx := context.Background()
	uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil)
	s, _ := uc.Open(ctx, OpenBookingParams{})
	completeDraft(t, uc, s.ID)

	_, err := uc.Submit(ctx, s.ID)
	if !errors.Is(err, ErrBookingRepoUnset) {
		t.Fatalf("expected ErrBookingRepoUnset, got %v", err)
	}
}

func TestBookingUseCase_Close(t *testing.T) {
	ctx := context.Background()
	uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil)
	s, _ := uc.Open(ctx, OpenBookingParams{})

	if err := uc.Close(ctx, s.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Get(ctx, s.ID); !errors.Is(err, ErrBookingSessionNotFound) {
		t.Fatalf("expected ErrBookingSessionNotFound, got %v", err)
	}
}

func TestBookingUseCase_ExpireIdle(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{now: bookingNow}
	uc := newBookingUC(clock, nil, nil, WithSessionTTL(10*time.Minute))

	stale, _ := uc.Open(ctx, OpenBookingParams{})
	clock.Advance(8 * time.Minute)
	fresh, _ := uc.Open(ctx, OpenBookingParams{})
	clock.Advance(3 * time.Minute)

	if n := uc.ExpireIdle(clock.Now()); n != 1 {
		t.Fatalf("expected 1 expired session, got %d", n)
	}
	if _, err := uc.Get(ctx, stale.ID); !errors.Is(err, ErrBookingSessionNotFound) {
		t.Fatalf("expected stale session gone, got %v", err)
	}
	if _, err := uc.Get(ctx, fresh.ID); err != nil {
		t.Fatalf("expected fresh session kept, got %v", err)
	}
}

func TestBookingUseCase_RunJanitorStops(t *testing.T) {
	uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		uc.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop")
	}
}

func TestBookingUseCase_Availability(t *testing.T) {
	ams, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil, WithBookingLocation(ams))

	a := uc.Availability(context.Background())
	if len(a.Dates) != 10 || a.Dates[0] != "2026-10-20" {
		t.Fatalf("unexpected dates: %v", a.Dates)
	}
	if len(a.TimeSlots) != 13 || a.Timezone != "Europe/Amsterdam" {
		t.Fatalf("unexpected availability: %+v", a)
	}
}

func TestBookingUseCase_CustomTimeSlots(t *testing.T) {
	ctx := context.Background()
	slots := []string{"08:00", "08:45"}
	uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil, WithBookingTimeSlots(slots))

	a := uc.Availability(ctx)
	if len(a.TimeSlots) != 2 || a.TimeSlots[1] != "08:45" {
		t.Fatalf("unexpected slots: %v", a.TimeSlots)
	}

	s, _ := uc.Open(ctx, OpenBookingParams{})
	if _, err := uc.Update(ctx, s.ID, BookingUpdate{Date: ptr("2026-10-20"), Time: ptr("09:00")}); !errors.Is(err, scheduler.ErrInvalidTimeSlot) {
		t.Fatalf("expected ErrInvalidTimeSlot, got %v", err)
	}
	got, err := uc.Update(ctx, s.ID, BookingUpdate{Date: ptr("2026-10-20"), Time: ptr("08:45")})
	if err != nil || got.Draft.Time != "08:45" {
		t.Fatalf("expected custom slot accepted, got %+v err=%v", got, err)
	}

	uc = newBookingUC(&manualClock{now: bookingNow}, nil, nil, WithBookingTimeSlots(nil))
	if got := uc.Availability(ctx).TimeSlots; len(got) != len(scheduler.DefaultTimeSlots) {
		t.Fatalf("empty slots must keep the defaults, got %v", got)
	}
}

func TestBookingUseCase_GetBooking(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := newBookingUC(&manualClock{now: bookingNow}, nil, nil)
		if _, err := uc.GetBooking(context.Background(), ""); !errors.Is(err, ErrInvalidBookingID) {
			t.Fatalf("expected ErrInvalidBookingID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		bookings := mock_interfaces.NewMockIBookingRepository(ctrl)
		uc := newBookingUC(&manualClock{now: bookingNow}, bookings, nil)

		bookings.EXPECT().GetByID(gomock.Any(), "b-1").Return(entities.Booking{}, nil)
		if _, err := uc.GetBooking(context.Background(), "b-1"); !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		bookings := mock_interfaces.NewMockIBookingRepository(ctrl)
		uc := newBookingUC(&manualClock{now: bookingNow}, bookings, nil)

		bookings.EXPECT().GetByID(gomock.Any(), "b-1").Return(entities.Booking{ID: "b-1"}, nil)
		b, err := uc.GetBooking(context.Background(), "b-1")
		if err != nil || b.ID != "b-1" {
			t.Fatalf("unexpected result: %+v err=%v", b, err)
		}
	})
}
