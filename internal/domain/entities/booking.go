package entities

import "time"

// PackageChoice is the package the visitor wants to discuss in the appointment.
type PackageChoice string

const (
	PackageBasic     PackageChoice = "basic"
	PackageGrowth    PackageChoice = "growth"
	PackagePlus      PackageChoice = "plus"
	PackageUndecided PackageChoice = "undecided"
)

// DefaultPackage is preselected when the booking wizard opens.
const DefaultPackage = PackageGrowth

func (p PackageChoice) Valid() bool {
	switch p {
	case PackageBasic, PackageGrowth, PackagePlus, PackageUndecided:
		return true
	}
	return false
}

// PackageForPlan maps a recommended pricing plan onto the wizard's package list.
func PackageForPlan(p Plan) PackageChoice {
	switch p {
	case PlanBasic:
		return PackageBasic
	case PlanGrowth:
		return PackageGrowth
	case PlanPlus:
		return PackagePlus
	}
	return DefaultPackage
}

// BookingStep is the wizard position. Package, schedule and contact are the
// three interactive steps; submitted and failed are terminal.
type BookingStep int

const (
	BookingStepPackage BookingStep = iota
	BookingStepSchedule
	BookingStepContact
	BookingStepSubmitted
	BookingStepFailed
)

func (s BookingStep) String() string {
	switch s {
	case BookingStepPackage:
		return "package"
	case BookingStepSchedule:
		return "schedule"
	case BookingStepContact:
		return "contact"
	case BookingStepSubmitted:
		return "submitted"
	case BookingStepFailed:
		return "failed"
	}
	return "unknown"
}

// Contact holds the visitor's details. Name and Email are required to submit.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// BookingDraft is the wizard accumulator. It only lives in memory.
type BookingDraft struct {
	Package PackageChoice `json:"package"`
	Date    string        `json:"date,omitempty"`
	Time    string        `json:"time,omitempty"`
	Contact Contact       `json:"contact"`
	QuoteID string        `json:"quote_id,omitempty"`
	Step    BookingStep   `json:"step"`
}

// BookingSession is a point-in-time snapshot of a wizard.
type BookingSession struct {
	ID             string       `json:"id"`
	Draft          BookingDraft `json:"draft"`
	CanAdvance     bool         `json:"can_advance"`
	CanSubmit      bool         `json:"can_submit"`
	Reference      string       `json:"reference,omitempty"`
	FailureReason  string       `json:"failure_reason,omitempty"`
	AvailableDates []string     `json:"available_dates"`
	TimeSlots      []string     `json:"time_slots"`
	OpenedAt       time.Time    `json:"opened_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// Booking is the appointment recorded when a wizard is submitted.
//
// Storage model (DynamoDB):
//   - PK: id
type Booking struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	QuoteID   string        `json:"quote_id,omitempty"`
	Package   PackageChoice `json:"package"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Contact   Contact       `json:"contact"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Availability lists what the schedule step can offer right now.
type Availability struct {
	Dates     []string `json:"dates"`
	TimeSlots []string `json:"time_slots"`
	Timezone  string   `json:"timezone"`
}
