package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"sterling_partners/internal/domain/entities"
)

// DefaultDwell is how long a submitted wizard shows its confirmation before resetting.
const DefaultDwell = 3 * time.Second

var (
	ErrScheduleIncomplete = errors.New("date and time must be selected before continuing")
	ErrContactIncomplete  = errors.New("name and email are required to submit")
	ErrInvalidPackage     = errors.New("invalid package choice")
	ErrInvalidDate        = errors.New("date is not one of the selectable business days")
	ErrInvalidTimeSlot    = errors.New("time is not one of the available slots")
	ErrDateRequired       = errors.New("select a date before choosing a time")
	ErrNotEditable        = errors.New("booking draft cannot be edited in the current step")
	ErrNoPreviousStep     = errors.New("no previous step")
	ErrFinalStep          = errors.New("already on the last step, submit instead")
	ErrSubmitUnavailable  = errors.New("booking can only be submitted from the contact step")
	ErrAlreadySubmitted   = errors.New("booking already submitted")
	ErrWizardClosed       = errors.New("booking wizard is closed")
	ErrNoConfirmer        = errors.New("no confirmer configured")
	ErrConfirmationFailed = errors.New("booking confirmation failed")
)

// Timer is the cancellable handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func StdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Confirmer receives the finished draft on submit and returns a booking reference.
type Confirmer interface {
	Confirm(ctx context.Context, sessionID string, draft entities.BookingDraft) (string, error)
}

type ConfirmerFunc func(ctx context.Context, sessionID string, draft entities.BookingDraft) (string, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, sessionID string, draft entities.BookingDraft) (string, error) {
	return f(ctx, sessionID, draft)
}

// ContactUpdate is a partial contact patch. Nil fields are left untouched.
type ContactUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Company *string
}

type Option func(*Wizard)

func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

func WithAfterFunc(af AfterFunc) Option {
	return func(w *Wizard) { w.afterFunc = af }
}

func WithConfirmer(c Confirmer) Option {
	return func(w *Wizard) { w.confirmer = c }
}

func WithDwell(d time.Duration) Option {
	return func(w *Wizard) { w.dwell = d }
}

func WithLocation(loc *time.Location) Option {
	return func(w *Wizard) { w.loc = loc }
}

func WithTimeSlots(slots []string) Option {
	return func(w *Wizard) { w.slots = slots }
}

// WithOnReset registers a callback invoked, outside the wizard lock, after the
// post-submit dwell has reset the draft.
func WithOnReset(fn func(id string)) Option {
	return func(w *Wizard) { w.onReset = fn }
}

// WithPackage preselects the package. Invalid choices are ignored.
func WithPackage(p entities.PackageChoice) Option {
	return func(w *Wizard) {
		if p.Valid() {
			w.initial.Package = p
		}
	}
}

func WithQuoteID(id string) Option {
	return func(w *Wizard) { w.initial.QuoteID = id }
}

// Wizard is the three step appointment form: package, schedule, contact.
// It is safe for concurrent use.
type Wizard struct {
	mu sync.Mutex

	id      string
	initial entities.BookingDraft
	draft   entities.BookingDraft

	reference     string
	failureReason string
	submitting    bool
	closePending  bool
	closed        bool
	timer         Timer

	openedAt  time.Time
	updatedAt time.Time

	now       func() time.Time
	afterFunc AfterFunc
	confirmer Confirmer
	dwell     time.Duration
	loc       *time.Location
	slots     []string
	onReset   func(id string)
}

func NewWizard(id string, opts ...Option) *Wizard {
	w := &Wizard{
		id:        id,
		initial:   entities.BookingDraft{Package: entities.DefaultPackage, Step: entities.BookingStepPackage},
		now:       time.Now,
		afterFunc: StdAfterFunc,
		dwell:     DefaultDwell,
		loc:       time.UTC,
		slots:     DefaultTimeSlots,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.draft = w.initial
	w.openedAt = w.now()
	w.updatedAt = w.openedAt
	return w
}

func (w *Wizard) ID() string {
	return w.id
}

// DraftUpdate patches several draft fields at once. Nil fields are left untouched.
type DraftUpdate struct {
	Package *entities.PackageChoice
	Date    *string
	Time    *string
	Contact ContactUpdate
}

// Update validates every field of u before applying any of them, so a
// rejected update leaves the draft as it was.
func (w *Wizard) Update(u DraftUpdate) (entities.BookingSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return w.snapshotLocked(), err
	}
	if err := w.validateLocked(u); err != nil {
		return w.snapshotLocked(), err
	}

	if u.Package != nil {
		w.draft.Package = *u.Package
	}
	if u.Date != nil {
		w.draft.Date = *u.Date
	}
	if u.Time != nil {
		w.draft.Time = *u.Time
	}
	c := &w.draft.Contact
	if u.Contact.Name != nil {
		c.Name = strings.TrimSpace(*u.Contact.Name)
	}
	if u.Contact.Email != nil {
		c.Email = strings.TrimSpace(*u.Contact.Email)
	}
	if u.Contact.Phone != nil {
		c.Phone = strings.TrimSpace(*u.Contact.Phone)
	}
	if u.Contact.Company != nil {
		c.Company = strings.TrimSpace(*u.Contact.Company)
	}
	w.touchLocked()
	return w.snapshotLocked(), nil
}

func (w *Wizard) SelectPackage(p entities.PackageChoice) (entities.BookingSession, error) {
	return w.Update(DraftUpdate{Package: &p})
}

func (w *Wizard) SelectDate(date string) (entities.BookingSession, error) {
	return w.Update(DraftUpdate{Date: &date})
}

// SelectTime sets the slot. Slots are only offered once a date is chosen.
func (w *Wizard) SelectTime(slot string) (entities.BookingSession, error) {
	return w.Update(DraftUpdate{Time: &slot})
}

func (w *Wizard) UpdateContact(u ContactUpdate) (entities.BookingSession, error) {
	return w.Update(DraftUpdate{Contact: u})
}

func (w *Wizard) validateLocked(u DraftUpdate) error {
	if u.Package != nil && !u.Package.Valid() {
		return ErrInvalidPackage
	}
	date := w.draft.Date
	if u.Date != nil {
		if !IsSelectableDate(w.localNow(), *u.Date) {
			return ErrInvalidDate
		}
		date = *u.Date
	}
	if u.Time != nil {
		if date == "" {
			return ErrDateRequired
		}
		if !IsTimeSlot(w.slots, *u.Time) {
			return ErrInvalidTimeSlot
		}
	}
	return nil
}

// Next moves forward one step. Leaving the schedule step requires both a date
// and a time; a blocked transition leaves the wizard unchanged.
func (w *Wizard) Next() (entities.BookingSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return w.snapshotLocked(), err
	}
	switch w.draft.Step {
	case entities.BookingStepPackage:
		w.draft.Step = entities.BookingStepSchedule
	case entities.BookingStepSchedule:
		if w.dropStaleDateLocked() {
			return w.snapshotLocked(), ErrInvalidDate
		}
		if !w.scheduleCompleteLocked() {
			return w.snapshotLocked(), ErrScheduleIncomplete
		}
		w.draft.Step = entities.BookingStepContact
	default:
		return w.snapshotLocked(), ErrFinalStep
	}
	w.touchLocked()
	return w.snapshotLocked(), nil
}

// Back moves one step backwards keeping every entered field. From the failed
// state it returns to the contact step so the visitor can retry.
func (w *Wizard) Back() (entities.BookingSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return w.snapshotLocked(), ErrWizardClosed
	}
	if w.submitting || w.draft.Step == entities.BookingStepSubmitted {
		return w.snapshotLocked(), ErrAlreadySubmitted
	}
	switch w.draft.Step {
	case entities.BookingStepSchedule:
		w.draft.Step = entities.BookingStepPackage
	case entities.BookingStepContact:
		w.draft.Step = entities.BookingStepSchedule
	case entities.BookingStepFailed:
		w.draft.Step = entities.BookingStepContact
	default:
		return w.snapshotLocked(), ErrNoPreviousStep
	}
	w.failureReason = ""
	w.touchLocked()
	return w.snapshotLocked(), nil
}

// Submit hands the draft to the confirmer. On success the wizard enters the
// submitted state and resets itself after the dwell; on failure it enters the
// failed state, from which Submit may be retried.
func (w *Wizard) Submit(ctx context.Context) (entities.BookingSession, error) {
	w.mu.Lock()
	switch {
	case w.closed:
		defer w.mu.Unlock()
		return w.snapshotLocked(), ErrWizardClosed
	case w.submitting || w.draft.Step == entities.BookingStepSubmitted:
		defer w.mu.Unlock()
		return w.snapshotLocked(), ErrAlreadySubmitted
	case w.draft.Step != entities.BookingStepContact && w.draft.Step != entities.BookingStepFailed:
		defer w.mu.Unlock()
		return w.snapshotLocked(), ErrSubmitUnavailable
	case !w.contactCompleteLocked():
		defer w.mu.Unlock()
		return w.snapshotLocked(), ErrContactIncomplete
	case w.confirmer == nil:
		defer w.mu.Unlock()
		return w.snapshotLocked(), ErrNoConfirmer
	}
	if w.dropStaleDateLocked() {
		defer w.mu.Unlock()
		w.draft.Step = entities.BookingStepSchedule
		w.failureReason = ""
		return w.snapshotLocked(), ErrInvalidDate
	}
	w.submitting = true
	w.touchLocked()
	draft := w.draft
	draft.Step = entities.BookingStepContact
	confirmer := w.confirmer
	w.mu.Unlock()

	ref, err := confirmer.Confirm(ctx, w.id, draft)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		w.draft.Step = entities.BookingStepFailed
		w.failureReason = err.Error()
		err = errors.Join(ErrConfirmationFailed, err)
	} else {
		w.draft.Step = entities.BookingStepSubmitted
		w.reference = ref
		w.failureReason = ""
	}
	w.touchLocked()
	s := w.snapshotLocked()

	if w.closePending {
		// Closed while the confirmer ran: report its outcome, then retire.
		w.closePending = false
		w.retireLocked()
		return s, err
	}
	if err == nil {
		w.timer = w.afterFunc(w.dwell, w.expire)
	}
	return s, err
}

// Close cancels a pending dwell, resets the draft and retires the wizard.
// While a submit is with the confirmer the close is deferred until it returns,
// so the submitter still learns the outcome. It is idempotent.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.submitting {
		w.closePending = true
		return
	}
	w.retireLocked()
}

// Submitting reports whether a submit is waiting on the confirmer.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

func (w *Wizard) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *Wizard) Snapshot() entities.BookingSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Wizard) LastActivity() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updatedAt
}

func (w *Wizard) expire() {
	w.mu.Lock()
	if w.closed || w.draft.Step != entities.BookingStepSubmitted {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.resetLocked()
	w.closed = true
	onReset := w.onReset
	w.mu.Unlock()

	if onReset != nil {
		onReset(w.id)
	}
}

func (w *Wizard) editableLocked() error {
	switch {
	case w.closed:
		return ErrWizardClosed
	case w.submitting || w.draft.Step == entities.BookingStepSubmitted:
		return ErrAlreadySubmitted
	case w.draft.Step == entities.BookingStepFailed:
		return ErrNotEditable
	}
	return nil
}

func (w *Wizard) scheduleCompleteLocked() bool {
	return w.draft.Date != "" && w.draft.Time != "" && IsSelectableDate(w.localNow(), w.draft.Date)
}

// dropStaleDateLocked clears a date (and its slot) that has left the bookable
// window since it was picked, e.g. after midnight.
func (w *Wizard) dropStaleDateLocked() bool {
	if w.draft.Date == "" || IsSelectableDate(w.localNow(), w.draft.Date) {
		return false
	}
	w.draft.Date = ""
	w.draft.Time = ""
	w.touchLocked()
	return true
}

func (w *Wizard) retireLocked() {
	w.stopTimerLocked()
	w.resetLocked()
	w.closed = true
}

func (w *Wizard) contactCompleteLocked() bool {
	return w.draft.Contact.Name != "" && w.draft.Contact.Email != ""
}

func (w *Wizard) stopTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Wizard) resetLocked() {
	w.draft = w.initial
	w.reference = ""
	w.failureReason = ""
	w.touchLocked()
}

func (w *Wizard) touchLocked() {
	w.updatedAt = w.now()
}

func (w *Wizard) localNow() time.Time {
	return w.now().In(w.loc)
}

func (w *Wizard) snapshotLocked() entities.BookingSession {
	s := entities.BookingSession{
		ID:             w.id,
		Draft:          w.draft,
		Reference:      w.reference,
		FailureReason:  w.failureReason,
		AvailableDates: SelectableDates(w.localNow()),
		TimeSlots:      append([]string(nil), w.slots...),
		OpenedAt:       w.openedAt,
		UpdatedAt:      w.updatedAt,
	}
	if !w.closed && !w.submitting {
		switch w.draft.Step {
		case entities.BookingStepPackage:
			s.CanAdvance = true
		case entities.BookingStepSchedule:
			s.CanAdvance = w.scheduleCompleteLocked()
		case entities.BookingStepContact, entities.BookingStepFailed:
			s.CanSubmit = w.contactCompleteLocked() && w.scheduleCompleteLocked()
		}
	}
	return s
}
