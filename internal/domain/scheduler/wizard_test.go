package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sterling_partners/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday morning.
var fixedNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

type fakeTimer struct {
	mu      sync.Mutex
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (t *fakeTimer) fire() {
	t.mu.Lock()
	stopped := t.stopped
	t.mu.Unlock()
	if !stopped {
		t.f()
	}
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) afterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func okConfirmer(ref string) Confirmer {
	return ConfirmerFunc(func(context.Context, string, entities.BookingDraft) (string, error) {
		return ref, nil
	})
}

func newTestWizard(clock *fakeClock, opts ...Option) *Wizard {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithAfterFunc(clock.afterFunc),
		WithConfirmer(okConfirmer("ref-1")),
	}
	return NewWizard("s-1", append(base, opts...)...)
}

func strPtr(s string) *string { return &s }

// fillToContact drives a fresh wizard to the contact step.
func fillToContact(t *testing.T, w *Wizard) {
	t.Helper()
	_, err := w.Next()
	require.NoError(t, err)
	_, err = w.SelectDate("2026-10-20")
	require.NoError(t, err)
	_, err = w.SelectTime("10:30")
	require.NoError(t, err)
	_, err = w.Next()
	require.NoError(t, err)
}

func TestNewWizard_Defaults(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	s := w.Snapshot()

	assert.Equal(t, "s-1", s.ID)
	assert.Equal(t, entities.BookingStepPackage, s.Draft.Step)
	assert.Equal(t, entities.PackageGrowth, s.Draft.Package)
	assert.True(t, s.CanAdvance)
	assert.False(t, s.CanSubmit)
	assert.Len(t, s.AvailableDates, 10)
	assert.Equal(t, "2026-10-20", s.AvailableDates[0])
	assert.Equal(t, DefaultTimeSlots, s.TimeSlots)
	assert.Equal(t, fixedNow, s.OpenedAt)
}

func TestNewWizard_Preselection(t *testing.T) {
	w := newTestWizard(&fakeClock{}, WithPackage(entities.PackagePlus), WithQuoteID("q-9"))
	s := w.Snapshot()
	assert.Equal(t, entities.PackagePlus, s.Draft.Package)
	assert.Equal(t, "q-9", s.Draft.QuoteID)

	w = newTestWizard(&fakeClock{}, WithPackage("premium"))
	assert.Equal(t, entities.DefaultPackage, w.Snapshot().Draft.Package)
}

func TestWizard_PackageStepAdvancesUnconditionally(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	_, err := w.SelectPackage(entities.PackageUndecided)
	require.NoError(t, err)

	s, err := w.Next()
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStepSchedule, s.Draft.Step)
	assert.Equal(t, entities.PackageUndecided, s.Draft.Package)
}

func TestWizard_SelectPackageRejectsUnknown(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	s, err := w.SelectPackage("premium")
	assert.ErrorIs(t, err, ErrInvalidPackage)
	assert.Equal(t, entities.PackageGrowth, s.Draft.Package)
}

func TestWizard_ScheduleGate(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	_, err := w.Next()
	require.NoError(t, err)

	s, err := w.Next()
	assert.ErrorIs(t, err, ErrScheduleIncomplete)
	assert.Equal(t, entities.BookingStepSchedule, s.Draft.Step)
	assert.False(t, s.CanAdvance)

	_, err = w.SelectDate("2026-10-22")
	require.NoError(t, err)
	s, err = w.Next()
	assert.ErrorIs(t, err, ErrScheduleIncomplete)
	assert.Equal(t, entities.BookingStepSchedule, s.Draft.Step)

	s, err = w.SelectTime("14:00")
	require.NoError(t, err)
	assert.True(t, s.CanAdvance)

	s, err = w.Next()
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStepContact, s.Draft.Step)
}

func TestWizard_SelectDateValidation(t *testing.T) {
	w := newTestWizard(&fakeClock{})

	for _, bad := range []string{"2026-10-19", "2026-10-24", "2026-11-30", "tomorrow", ""} {
		_, err := w.SelectDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
	assert.Empty(t, w.Snapshot().Draft.Date)
}

func TestWizard_SelectDateUsesLocation(t *testing.T) {
	ams, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	// Sunday 23:30 UTC is Monday in Amsterdam, so Monday is no longer selectable.
	late := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)
	w := NewWizard("s-2",
		WithClock(func() time.Time { return late }),
		WithLocation(ams),
	)
	_, err = w.SelectDate("2026-10-19")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = w.SelectDate("2026-10-20")
	assert.NoError(t, err)
}

func TestWizard_SelectTimeValidation(t *testing.T) {
	w := newTestWizard(&fakeClock{})

	_, err := w.SelectTime("09:00")
	assert.ErrorIs(t, err, ErrDateRequired)

	_, err = w.SelectDate("2026-10-20")
	require.NoError(t, err)
	_, err = w.SelectTime("12:00")
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	s, err := w.SelectTime("16:00")
	require.NoError(t, err)
	assert.Equal(t, "16:00", s.Draft.Time)
}

func TestWizard_BackPreservesFields(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	_, err := w.SelectPackage(entities.PackageBasic)
	require.NoError(t, err)
	fillToContact(t, w)
	_, err = w.UpdateContact(ContactUpdate{Name: strPtr("Anna de Vries")})
	require.NoError(t, err)

	s, err := w.Back()
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStepSchedule, s.Draft.Step)

	s, err = w.Back()
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStepPackage, s.Draft.Step)
	assert.Equal(t, entities.PackageBasic, s.Draft.Package)
	assert.Equal(t, "2026-10-20", s.Draft.Date)
	assert.Equal(t, "10:30", s.Draft.Time)
	assert.Equal(t, "Anna de Vries", s.Draft.Contact.Name)

	_, err = w.Back()
	assert.ErrorIs(t, err, ErrNoPreviousStep)
}

func TestWizard_NextOnContactStep(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	fillToContact(t, w)

	_, err := w.Next()
	assert.ErrorIs(t, err, ErrFinalStep)
}

func TestWizard_UpdateContactTrimsAndPatches(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	_, err := w.UpdateContact(ContactUpdate{
		Name:  strPtr("  Jan Jansen "),
		Email: strPtr(" jan@example.nl"),
		Phone: strPtr("0612345678"),
	})
	require.NoError(t, err)

	s, err := w.UpdateContact(ContactUpdate{Company: strPtr("Jansen BV")})
	require.NoError(t, err)
	assert.Equal(t, entities.Contact{Name: "Jan Jansen", Email: "jan@example.nl", Phone: "0612345678", Company: "Jansen BV"}, s.Draft.Contact)
}

func TestWizard_SubmitRequiresContact(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	fillToContact(t, w)

	s, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrContactIncomplete)
	assert.Equal(t, entities.BookingStepContact, s.Draft.Step)

	_, err = w.UpdateContact(ContactUpdate{Name: strPtr("Jan"), Email: strPtr("   ")})
	require.NoError(t, err)
	s, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrContactIncomplete)
	assert.False(t, s.CanSubmit)
}

func TestWizard_SubmitOnlyFromContactStep(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	_, err := w.UpdateContact(ContactUpdate{Name: strPtr("Jan"), Email: strPtr("jan@example.nl")})
	require.NoError(t, err)

	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitUnavailable)
}

func TestWizard_SubmitAndDwellReset(t *testing.T) {
	clock := &fakeClock{}
	var resetID string
	var received entities.BookingDraft
	confirmer := ConfirmerFunc(func(_ context.Context, sessionID string, d entities.BookingDraft) (string, error) {
		assert.Equal(t, "s-1", sessionID)
		received = d
		return "BK-42", nil
	})
	w := newTestWizard(clock,
		WithConfirmer(confirmer),
		WithOnReset(func(id string) { resetID = id }),
	)
	fillToContact(t, w)
	_, err := w.UpdateContact(ContactUpdate{Name: strPtr("Jan"), Email: strPtr("jan@example.nl")})
	require.NoError(t, err)

	s, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStepSubmitted, s.Draft.Step)
	assert.Equal(t, "BK-42", s.Reference)
	assert.False(t, s.CanSubmit)
	assert.Equal(t, "2026-10-20", received.Date)
	assert.Equal(t, "Jan", received.Contact.Name)

	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	_, err = w.SelectTime("09:00")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	require.Len(t, clock.timers, 1)
	assert.Equal(t, DefaultDwell, clock.timers[0].d)
	clock.timers[0].fire()

	s = w.Snapshot()
	assert.Equal(t, "s-1", resetID)
	assert.True(t, w.Closed())
	assert.Equal(t, entities.BookingStepPackage, s.Draft.Step)
	assert.Equal(t, entities.PackageGrowth, s.Draft.Package)
	assert.Empty(t, s.Draft.Date)
	assert.Empty(t, s.Draft.Time)
	assert.Empty(t, s.Draft.Contact)
	assert.Empty(t, s.Reference)
}

func TestWizard_CloseCancelsDwell(t *testing.T) {
	clock := &fakeClock{}
	resets := 0
	w := newTestWizard(clock, WithOnReset(func(string) { resets++ }))
	fillToContact(t, w)
	_, err := w.UpdateContact(ContactUpdate{Name: strPtr("Jan"), Email: strPtr("jan@example.nl")})
	require.NoError(t, err)
	_, err = w.Submit(context.Background())
	require.NoError(t, err)

	w.Close()
	require.Len(t, clock.timers, 1)
	assert.True(t, clock.timers[0].stopped)

	// A timer that already started firing must not reset a closed wizard.
	clock.timers[0].f()
	assert.Zero(t, resets)

	_, err = w.Next()
	assert.ErrorIs(t, err, ErrWizardClosed)
	w.Close()
}

func TestWizard_CloseResetsDraft(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	fillToContact(t, w)

	w.Close()
	s := w.Snapshot()
	assert.Equal(t, entities.BookingStepPackage, s.Draft.Step)
	assert.Empty(t, s.Draft.Date)
	assert.False(t, s.CanAdvance)
}

func TestWizard_ConfirmerFailureAndRetry(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	confirmer := ConfirmerFunc(func(context.Context, string, entities.BookingDraft) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("dynamodb unavailable")
		}
		return "BK-2", nil
	})
	w := newTestWizard(clock, WithConfirmer(confirmer))
	fillToContact(t, w)
	_, err := w.UpdateContact(ContactUpdate{Name: strPtr("Jan"), Email: strPtr("jan@example.nl")})
	require.NoError(t, err)

	s, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrConfirmationFailed)
	assert.Equal(t, entities.BookingStepFailed, s.Draft.Step)
	assert.Equal(t, "dynamodb unavailable", s.FailureReason)
	assert.True(t, s.CanSubmit)
	assert.Empty(t, clock.timers)

	_, err = w.UpdateContact(ContactUpdate{Phone: strPtr("06")})
	assert.ErrorIs(t, err, ErrNotEditable)

	s, err = w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStepSubmitted, s.Draft.Step)
	assert.Equal(t, "BK-2", s.Reference)
	assert.Empty(t, s.FailureReason)
}

func TestWizard_BackFromFailed(t *testing.T) {
	w := newTestWizard(&fakeClock{}, WithConfirmer(ConfirmerFunc(func(context.Context, string, entities.BookingDraft) (string, error) {
		return "", errors.New("boom")
	})))
	fillToContact(t, w)
	_, err := w.UpdateContact(ContactUpdate{Name: strPtr("Jan"), Email: strPtr("jan@example.nl")})
	require.NoError(t, err)
	_, err = w.Submit(context.Background())
	require.Error(t, err)

	s, err := w.Back()
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStepContact, s.Draft.Step)
	assert.Empty(t, s.FailureReason)
	assert.Equal(t, "Jan", s.Draft.Contact.Name)
}

func TestWizard_SubmitWithoutConfirmer(t *testing.T) {
	w := NewWizard("s-3", WithClock(func() time.Time { return fixedNow }))
	fillToContact(t, w)
	_, err := w.UpdateContact(ContactUpdate{Name: strPtr("Jan"), Email: strPtr("jan@example.nl")})
	require.NoError(t, err)

	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNoConfirmer)
}

func TestWizard_LastActivity(t *testing.T) {
	now := fixedNow
	w := NewWizard("s-4", WithClock(func() time.Time { return now }))
	assert.Equal(t, fixedNow, w.LastActivity())

	now = fixedNow.Add(5 * time.Minute)
	_, err := w.SelectPackage(entities.PackageBasic)
	require.NoError(t, err)
	assert.Equal(t, now, w.LastActivity())
}

func TestWizard_CloseDuringSubmitReportsOutcome(t *testing.T) {
	clock := &fakeClock{}
	entered := make(chan struct{})
	release := make(chan struct{})
	confirmer := ConfirmerFunc(func(context.Context, string, entities.BookingDraft) (string, error) {
		close(entered)
		<-release
		return "BK-7", nil
	})
	w := newTestWizard(clock, WithConfirmer(confirmer))
	fillToContact(t, w)
	_, err := w.UpdateContact(ContactUpdate{Name: strPtr("Jan"), Email: strPtr("jan@example.nl")})
	require.NoError(t, err)

	type result struct {
		s   entities.BookingSession
		err error
	}
	done := make(chan result, 1)
	go func() {
		s, err := w.Submit(context.Background())
		done <- result{s, err}
	}()

	<-entered
	assert.True(t, w.Submitting())
	w.Close()
	assert.False(t, w.Closed(), "close waits for the confirmer")
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, entities.BookingStepSubmitted, res.s.Draft.Step)
	assert.Equal(t, "BK-7", res.s.Reference)

	assert.True(t, w.Closed())
	assert.False(t, w.Submitting())
	assert.Empty(t, clock.timers)
	s := w.Snapshot()
	assert.Equal(t, entities.BookingStepPackage, s.Draft.Step)
	assert.Empty(t, s.Reference)

	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrWizardClosed)
}

func TestWizard_CloseDuringFailedSubmit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	confirmer := ConfirmerFunc(func(context.Context, string, entities.BookingDraft) (string, error) {
		close(entered)
		<-release
		return "", errors.New("throttled")
	})
	w := newTestWizard(&fakeClock{}, WithConfirmer(confirmer))
	fillToContact(t, w)
	_, err := w.UpdateContact(ContactUpdate{Name: strPtr("Jan"), Email: strPtr("jan@example.nl")})
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		errc <- err
	}()
	<-entered
	w.Close()
	close(release)

	assert.ErrorIs(t, <-errc, ErrConfirmationFailed)
	assert.True(t, w.Closed())
}

func TestWizard_SubmitAfterMidnightDropsStaleDate(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 50, 0, 0, time.UTC)
	calls := 0
	w := NewWizard("s-4",
		WithClock(func() time.Time { return now }),
		WithAfterFunc((&fakeClock{}).afterFunc),
		WithConfirmer(ConfirmerFunc(func(context.Context, string, entities.BookingDraft) (string, error) {
			calls++
			return "BK-9", nil
		})),
	)
	fillToContact(t, w)
	_, err := w.UpdateContact(ContactUpdate{Name: strPtr("Jan"), Email: strPtr("jan@example.nl")})
	require.NoError(t, err)
	require.True(t, w.Snapshot().CanSubmit)

	// Tuesday morning: the picked date is now today and no longer bookable.
	now = time.Date(2026, 10, 20, 9, 15, 0, 0, time.UTC)
	assert.False(t, w.Snapshot().CanSubmit)

	s, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Zero(t, calls)
	assert.Equal(t, entities.BookingStepSchedule, s.Draft.Step)
	assert.Empty(t, s.Draft.Date)
	assert.Empty(t, s.Draft.Time)
	assert.Equal(t, "Jan", s.Draft.Contact.Name)
	assert.Equal(t, "2026-10-21", s.AvailableDates[0])
}

func TestWizard_NextAfterMidnightDropsStaleDate(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 50, 0, 0, time.UTC)
	w := NewWizard("s-5", WithClock(func() time.Time { return now }))
	_, err := w.Next()
	require.NoError(t, err)
	_, err = w.SelectDate("2026-10-20")
	require.NoError(t, err)
	_, err = w.SelectTime("10:30")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	s, err := w.Next()
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, entities.BookingStepSchedule, s.Draft.Step)
	assert.Empty(t, s.Draft.Date)
	assert.False(t, s.CanAdvance)
}

func TestWizard_UpdateIsAllOrNothing(t *testing.T) {
	w := newTestWizard(&fakeClock{})
	before := w.Snapshot().Draft

	plus := entities.PackagePlus
	s, err := w.Update(DraftUpdate{
		Package: &plus,
		Date:    strPtr("2026-10-21"),
		Time:    strPtr("12:00"),
		Contact: ContactUpdate{Name: strPtr("Jan")},
	})
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	assert.Equal(t, before, s.Draft)
	assert.Equal(t, before, w.Snapshot().Draft)

	s, err = w.Update(DraftUpdate{Package: &plus, Date: strPtr("2026-10-19")})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, entities.PackageGrowth, s.Draft.Package)

	// A date and a time in the same patch: the time is checked against the new date.
	s, err = w.Update(DraftUpdate{Package: &plus, Date: strPtr("2026-10-21"), Time: strPtr("14:30")})
	require.NoError(t, err)
	assert.Equal(t, entities.PackagePlus, s.Draft.Package)
	assert.Equal(t, "2026-10-21", s.Draft.Date)
	assert.Equal(t, "14:30", s.Draft.Time)
}

func TestWizard_CustomTimeSlots(t *testing.T) {
	w := newTestWizard(&fakeClock{}, WithTimeSlots([]string{"08:00", "08:30"}))
	assert.Equal(t, []string{"08:00", "08:30"}, w.Snapshot().TimeSlots)

	_, err := w.SelectDate("2026-10-20")
	require.NoError(t, err)
	_, err = w.SelectTime("09:00")
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	s, err := w.SelectTime("08:30")
	require.NoError(t, err)
	assert.Equal(t, "08:30", s.Draft.Time)
}
