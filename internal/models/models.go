package models

import "time"

type BookingStatus string

const (
	BookingScheduled BookingStatus = "Scheduled"
	BookingCancelled BookingStatus = "Cancelled"
	BookingCompleted BookingStatus = "Completed"
)

// Spoc is a single point of contact: a staff expert assignable to a client
// meeting. Spocs are seeded from configuration at startup and never mutated.
type Spoc struct {
	SpocID         int    `db:"spoc_id"`
	Name           string `db:"name"`
	Expertise      string `db:"expertise"`
	Specialization string `db:"specialization"`
	Email          string `db:"email"`
	Phone          string `db:"phone"`
}

// Slot is a fixed time window during which a spoc can hold one meeting.
// IsBooked is the only mutable field; slots are never deleted and become
// bookable again once released.
type Slot struct {
	SlotID   int       `db:"slot_id"`
	SpocID   int       `db:"spoc_id"`
	Start    time.Time `db:"start_time"`
	End      time.Time `db:"end_time"`
	IsBooked bool      `db:"is_booked"`
}

type Client struct {
	ClientID         string    `db:"client_id"`
	CompanyName      string    `db:"company_name"`
	ContactName      *string   `db:"contact_name"`
	ContactEmail     *string   `db:"contact_email"`
	ContactPhone     *string   `db:"contact_phone"`
	Industry         *string   `db:"industry"`
	BudgetRange      *string   `db:"budget_range"`
	DecisionTimeline *string   `db:"decision_timeline"`
	SolutionType     *string   `db:"solution_type"`
	CreatedAt        time.Time `db:"created_at"`
}

// Booking references its client, spoc and slot by id only. At most one
// Scheduled booking may reference a given slot.
type Booking struct {
	BookingID   string        `db:"booking_id"`
	ClientID    string        `db:"client_id"`
	SpocID      int           `db:"spoc_id"`
	SlotID      int           `db:"slot_id"`
	MeetingType string        `db:"meeting_type"`
	Status      BookingStatus `db:"booking_status"`
	MeetingLink string        `db:"meeting_link"`
	CreatedAt   time.Time     `db:"created_at"`
}
