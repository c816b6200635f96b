package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"spoc-booking-service/internal/models"
	"spoc-booking-service/pkg/response"
)

// Storage keeps every record in maps indexed by id, guarded by a single
// RWMutex. ClaimSlot is a check-and-set under the write lock, so two
// concurrent claims on the same slot can never both succeed. All reads
// return copies; interior pointers never leave the lock.
type Storage struct {
	mu         sync.RWMutex
	spocs      map[int]*models.Spoc
	spocIDs    []int
	slots      map[int]*models.Slot
	slotIDs    []int
	clients    map[string]*models.Client
	clientIDs  []string
	bookings   map[string]*models.Booking
	bookingIDs []string
}

func New() *Storage {
	return &Storage{
		spocs:    make(map[int]*models.Spoc),
		slots:    make(map[int]*models.Slot),
		clients:  make(map[string]*models.Client),
		bookings: make(map[string]*models.Booking),
	}
}

func (s *Storage) Close() error {
	return nil
}

// #### spocs ####

func (s *Storage) SeedSpocs(_ context.Context, spocs []*models.Spoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, spoc := range spocs {
		cp := *spoc
		if _, ok := s.spocs[cp.SpocID]; !ok {
			s.spocIDs = append(s.spocIDs, cp.SpocID)
		}
		s.spocs[cp.SpocID] = &cp
	}

	return nil
}

func (s *Storage) GetSpoc(_ context.Context, spocID int) (*models.Spoc, error) {
	const op = "storage.memory.GetSpoc"

	s.mu.RLock()
	defer s.mu.RUnlock()

	spoc, ok := s.spocs[spocID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, response.ErrSpocNotFound)
	}

	cp := *spoc
	return &cp, nil
}

func (s *Storage) ListSpocs(_ context.Context) ([]*models.Spoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Spoc, 0, len(s.spocIDs))
	for _, id := range s.spocIDs {
		cp := *s.spocs[id]
		result = append(result, &cp)
	}

	return result, nil
}

// #### slots ####

func (s *Storage) CreateSlots(_ context.Context, slots []*models.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range slots {
		if _, ok := s.slots[slot.SlotID]; ok {
			continue
		}
		cp := *slot
		s.slots[cp.SlotID] = &cp
		s.slotIDs = append(s.slotIDs, cp.SlotID)
	}

	return nil
}

// ClaimSlot atomically flips is_booked for an unbooked slot and returns it.
// A missing or already-booked slot yields ErrSlotNotAvailable.
func (s *Storage) ClaimSlot(_ context.Context, slotID int) (*models.Slot, error) {
	const op = "storage.memory.ClaimSlot"

	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotID]
	if !ok || slot.IsBooked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrSlotNotAvailable)
	}

	slot.IsBooked = true

	cp := *slot
	return &cp, nil
}

// ReleaseSlot marks the slot free again. Unknown slot ids are a no-op.
func (s *Storage) ReleaseSlot(_ context.Context, slotID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot, ok := s.slots[slotID]; ok {
		slot.IsBooked = false
	}

	return nil
}

func (s *Storage) ListAvailableSlots(_ context.Context, spocID int, from, to *time.Time) ([]*models.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Slot, 0)
	for _, id := range s.slotIDs {
		slot := s.slots[id]
		if slot.SpocID != spocID || slot.IsBooked {
			continue
		}
		if from != nil && slot.Start.Before(*from) {
			continue
		}
		if to != nil && slot.End.After(*to) {
			continue
		}
		cp := *slot
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})

	return result, nil
}

// #### clients ####

func (s *Storage) CreateClient(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *client
	if _, ok := s.clients[cp.ClientID]; !ok {
		s.clientIDs = append(s.clientIDs, cp.ClientID)
	}
	s.clients[cp.ClientID] = &cp

	return nil
}

func (s *Storage) GetClient(_ context.Context, clientID string) (*models.Client, error) {
	const op = "storage.memory.GetClient"

	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, response.ErrClientNotFound)
	}

	cp := *client
	return &cp, nil
}

// ListClients returns clients in creation order, offset by skip and capped
// at limit.
func (s *Storage) ListClients(_ context.Context, skip, limit int) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := paginate(s.clientIDs, skip, limit)

	result := make([]*models.Client, 0, len(ids))
	for _, id := range ids {
		cp := *s.clients[id]
		result = append(result, &cp)
	}

	return result, nil
}

// #### bookings ####

func (s *Storage) CreateBooking(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *booking
	if _, ok := s.bookings[cp.BookingID]; !ok {
		s.bookingIDs = append(s.bookingIDs, cp.BookingID)
	}
	s.bookings[cp.BookingID] = &cp

	return nil
}

func (s *Storage) GetBooking(_ context.Context, bookingID string) (*models.Booking, error) {
	const op = "storage.memory.GetBooking"

	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBookingNotFound)
	}

	cp := *booking
	return &cp, nil
}

// ListBookings filters by exact status and spoc id, sorts newest-first by
// created_at, then applies skip/limit.
func (s *Storage) ListBookings(_ context.Context, status *string, spocID *int, skip, limit int) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]*models.Booking, 0, len(s.bookingIDs))
	for _, id := range s.bookingIDs {
		booking := s.bookings[id]
		if status != nil && string(booking.Status) != *status {
			continue
		}
		if spocID != nil && booking.SpocID != *spocID {
			continue
		}
		cp := *booking
		filtered = append(filtered, &cp)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return paginate(filtered, skip, limit), nil
}

func (s *Storage) UpdateBookingStatus(_ context.Context, bookingID string, status models.BookingStatus) error {
	const op = "storage.memory.UpdateBookingStatus"

	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[bookingID]
	if !ok {
		return fmt.Errorf("%s: %w", op, response.ErrBookingNotFound)
	}

	booking.Status = status
	return nil
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if skip >= len(items) {
		return []T{}
	}

	end := skip + limit
	if end > len(items) {
		end = len(items)
	}

	return items[skip:end]
}
