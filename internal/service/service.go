package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"spoc-booking-service/api"
	"spoc-booking-service/internal/lock"
	"spoc-booking-service/internal/models"
	"spoc-booking-service/pkg/metrics"
	"spoc-booking-service/pkg/response"
)

const slotLockTTL = 10 * time.Second

type Service struct {
	store  Store
	locker lock.Locker
}

func NewService(store Store, locker lock.Locker) *Service {
	return &Service{store: store, locker: locker}
}

type Store interface {
	// Spocs
	SeedSpocs(ctx context.Context, spocs []*models.Spoc) error
	GetSpoc(ctx context.Context, spocID int) (*models.Spoc, error)
	ListSpocs(ctx context.Context) ([]*models.Spoc, error)

	// Slots
	CreateSlots(ctx context.Context, slots []*models.Slot) error
	ClaimSlot(ctx context.Context, slotID int) (*models.Slot, error)
	ReleaseSlot(ctx context.Context, slotID int) error
	ListAvailableSlots(ctx context.Context, spocID int, from, to *time.Time) ([]*models.Slot, error)

	// Clients
	CreateClient(ctx context.Context, client *models.Client) error
	GetClient(ctx context.Context, clientID string) (*models.Client, error)
	ListClients(ctx context.Context, skip, limit int) ([]*models.Client, error)

	// Bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, status *string, spocID *int, skip, limit int) ([]*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) error
}

// SlotWindow is one bookable window per day, whole hours.
type SlotWindow struct {
	StartHour int
	EndHour   int
}

// newID returns the short uuid form used for client and booking identifiers.
func newID() string {
	return uuid.NewString()[:8]
}

// #### directory seeding ####

func (s *Service) SeedSpocs(ctx context.Context, spocs []*models.Spoc) error {
	const op = "service.SeedSpocs"

	if err := s.store.SeedSpocs(ctx, spocs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GenerateSlots builds the slot calendar for every seeded spoc: one slot per
// window per day, starting tomorrow, with sequential ids. Windows within a
// day never overlap, so slots per spoc never overlap by construction.
// Existing slot ids are kept as-is by the store, which makes re-running this
// on a durable store safe.
func (s *Service) GenerateSlots(ctx context.Context, horizonDays int, windows []SlotWindow) (int, error) {
	const op = "service.GenerateSlots"

	if horizonDays <= 0 {
		return 0, fmt.Errorf("%s: invalid horizon: %d", op, horizonDays)
	}
	for _, w := range windows {
		if w.StartHour >= w.EndHour {
			return 0, fmt.Errorf("%s: invalid window %d-%d", op, w.StartHour, w.EndHour)
		}
	}

	spocs, err := s.store.ListSpocs(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	base := time.Now().AddDate(0, 0, 1)
	loc := base.Location()

	slotID := 1
	slots := make([]*models.Slot, 0, len(spocs)*horizonDays*len(windows))
	for _, spoc := range spocs {
		for day := 0; day < horizonDays; day++ {
			d := base.AddDate(0, 0, day)
			for _, w := range windows {
				slots = append(slots, &models.Slot{
					SlotID: slotID,
					SpocID: spoc.SpocID,
					Start:  time.Date(d.Year(), d.Month(), d.Day(), w.StartHour, 0, 0, 0, loc),
					End:    time.Date(d.Year(), d.Month(), d.Day(), w.EndHour, 0, 0, 0, loc),
				})
				slotID++
			}
		}
	}

	if err := s.store.CreateSlots(ctx, slots); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return len(slots), nil
}

// #### spocs ####

// ListSpocs filters case-insensitively: solutionType against expertise,
// expertise against specialization. An empty result is ErrNotFound so the
// handler can answer 404.
func (s *Service) ListSpocs(ctx context.Context, solutionType, expertise *string) ([]*api.SpocResponse, error) {
	const op = "service.ListSpocs"

	spocs, err := s.store.ListSpocs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.SpocResponse, 0, len(spocs))
	for _, spoc := range spocs {
		if solutionType != nil && !containsFold(spoc.Expertise, *solutionType) {
			continue
		}
		if expertise != nil && !containsFold(spoc.Specialization, *expertise) {
			continue
		}
		result = append(result, toSpocResponse(spoc))
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return result, nil
}

func (s *Service) GetSpoc(ctx context.Context, spocID int) (*api.SpocResponse, error) {
	const op = "service.GetSpoc"

	spoc, err := s.store.GetSpoc(ctx, spocID)
	if err != nil {
		if errors.Is(err, response.ErrSpocNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrSpocNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toSpocResponse(spoc), nil
}

func (s *Service) GetSpocAvailability(ctx context.Context, spocID int, from, to *time.Time) (*api.SpocAvailabilityResponse, error) {
	const op = "service.GetSpocAvailability"

	spoc, err := s.store.GetSpoc(ctx, spocID)
	if err != nil {
		if errors.Is(err, response.ErrSpocNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrSpocNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slots, err := s.store.ListAvailableSlots(ctx, spocID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	available := make([]api.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		available = append(available, api.SlotResponse{
			SlotID:    slot.SlotID,
			StartTime: slot.Start.Format(time.RFC3339),
			EndTime:   slot.End.Format(time.RFC3339),
		})
	}

	return &api.SpocAvailabilityResponse{
		SpocID:         spoc.SpocID,
		Name:           spoc.Name,
		Expertise:      spoc.Expertise,
		Specialization: spoc.Specialization,
		Email:          spoc.Email,
		AvailableSlots: available,
	}, nil
}

// #### clients ####

func (s *Service) CreateClient(ctx context.Context, req *api.ClientCreateRequest) (*api.ClientResponse, error) {
	const op = "service.CreateClient"

	client := &models.Client{
		ClientID:         newID(),
		CompanyName:      req.CompanyName,
		ContactName:      req.ContactName,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		Industry:         req.Industry,
		BudgetRange:      req.BudgetRange,
		DecisionTimeline: req.DecisionTimeline,
		SolutionType:     req.SolutionType,
		CreatedAt:        time.Now(),
	}

	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toClientResponse(client), nil
}

func (s *Service) GetClient(ctx context.Context, clientID string) (*api.ClientResponse, error) {
	const op = "service.GetClient"

	client, err := s.store.GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, response.ErrClientNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrClientNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toClientResponse(client), nil
}

func (s *Service) ListClients(ctx context.Context, skip, limit int) ([]*api.ClientResponse, error) {
	const op = "service.ListClients"

	clients, err := s.store.ListClients(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.ClientResponse, 0, len(clients))
	for _, client := range clients {
		result = append(result, toClientResponse(client))
	}

	return result, nil
}

// #### bookings ####

// CreateBooking claims the slot first, then validates spoc, slot ownership
// and client. Every failure past the claim releases the slot again, so
// is_booked stays true only while a Scheduled booking references the slot.
func (s *Service) CreateBooking(ctx context.Context, req *api.BookingRequest) (*api.BookingConfirmation, error) {
	const op = "service.CreateBooking"

	lockKey := fmt.Sprintf("slot:%d", req.SlotID)

	locked, err := s.locker.Lock(ctx, lockKey, slotLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	slot, err := s.store.ClaimSlot(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, response.ErrSlotNotAvailable) {
			metrics.ClaimConflicts.Inc()
			return nil, fmt.Errorf("%s: %w", op, response.ErrSlotNotAvailable)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	spoc, err := s.store.GetSpoc(ctx, req.SpocID)
	if err != nil {
		s.rollbackClaim(ctx, slot.SlotID)
		if errors.Is(err, response.ErrSpocNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrSpocNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if slot.SpocID != req.SpocID {
		s.rollbackClaim(ctx, slot.SlotID)
		return nil, fmt.Errorf("%s: %w", op, response.ErrSlotSpocMismatch)
	}

	if _, err := s.store.GetClient(ctx, req.ClientID); err != nil {
		s.rollbackClaim(ctx, slot.SlotID)
		if errors.Is(err, response.ErrClientNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrClientNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookingID := newID()
	booking := &models.Booking{
		BookingID:   bookingID,
		ClientID:    req.ClientID,
		SpocID:      req.SpocID,
		SlotID:      req.SlotID,
		MeetingType: req.MeetingType,
		Status:      models.BookingScheduled,
		MeetingLink: fmt.Sprintf("https://meet.example.com/booking/%s", bookingID),
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		s.rollbackClaim(ctx, slot.SlotID)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.BookingsCreated.Inc()

	return &api.BookingConfirmation{
		BookingID:   bookingID,
		Message:     "Booking created successfully",
		SpocName:    spoc.Name,
		MeetingLink: booking.MeetingLink,
		StartTime:   slot.Start.Format(time.RFC3339),
	}, nil
}

func (s *Service) rollbackClaim(ctx context.Context, slotID int) {
	_ = s.store.ReleaseSlot(ctx, slotID)
	metrics.ClaimRollbacks.Inc()
}

func (s *Service) GetBooking(ctx context.Context, bookingID string) (*api.BookingResponse, error) {
	const op = "service.GetBooking"

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, response.ErrBookingNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toBookingResponse(booking), nil
}

func (s *Service) ListBookings(ctx context.Context, status *string, spocID *int, skip, limit int) ([]*api.BookingResponse, error) {
	const op = "service.ListBookings"

	bookings, err := s.store.ListBookings(ctx, status, spocID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		result = append(result, toBookingResponse(booking))
	}

	return result, nil
}

// CancelBooking sets the booking Cancelled and frees the slot. Cancelling an
// already cancelled booking is a conflict, not a silent success, and leaves
// the slot untouched.
func (s *Service) CancelBooking(ctx context.Context, bookingID string) (*api.CancellationResponse, error) {
	const op = "service.CancelBooking"

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, response.ErrBookingNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if booking.Status == models.BookingCancelled {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBookingCancelled)
	}

	if err := s.store.UpdateBookingStatus(ctx, bookingID, models.BookingCancelled); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Release is idempotent; an already-free slot is not an error.
	if err := s.store.ReleaseSlot(ctx, booking.SlotID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.BookingsCancelled.Inc()

	return &api.CancellationResponse{
		Message:   "Booking cancelled successfully",
		BookingID: bookingID,
		Status:    string(models.BookingCancelled),
	}, nil
}

// #### mapping ####

func toSpocResponse(spoc *models.Spoc) *api.SpocResponse {
	return &api.SpocResponse{
		SpocID:         spoc.SpocID,
		Name:           spoc.Name,
		Expertise:      spoc.Expertise,
		Specialization: spoc.Specialization,
		Email:          spoc.Email,
		Phone:          spoc.Phone,
	}
}

func toClientResponse(client *models.Client) *api.ClientResponse {
	return &api.ClientResponse{
		ClientID:     client.ClientID,
		CompanyName:  client.CompanyName,
		ContactName:  client.ContactName,
		ContactEmail: client.ContactEmail,
		CreatedAt:    client.CreatedAt.Format(time.RFC3339),
	}
}

func toBookingResponse(booking *models.Booking) *api.BookingResponse {
	return &api.BookingResponse{
		BookingID:     booking.BookingID,
		ClientID:      booking.ClientID,
		SpocID:        booking.SpocID,
		SlotID:        booking.SlotID,
		MeetingType:   booking.MeetingType,
		BookingStatus: string(booking.Status),
		MeetingLink:   booking.MeetingLink,
		CreatedAt:     booking.CreatedAt.Format(time.RFC3339),
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
