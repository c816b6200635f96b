package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spoc-booking-service/api"
	"spoc-booking-service/internal/lock"
	"spoc-booking-service/internal/models"
	"spoc-booking-service/internal/storage/memory"
	"spoc-booking-service/pkg/response"
)

func newTestService(t *testing.T) (*Service, *memory.Storage) {
	t.Helper()

	store := memory.New()
	ctx := context.Background()

	err := store.SeedSpocs(ctx, []*models.Spoc{
		{SpocID: 1, Name: "Rajesh Sharma", Expertise: "Cloud Infrastructure", Specialization: "Enterprise Cloud Solutions & Migration"},
		{SpocID: 2, Name: "Priya Desai", Expertise: "Security Solutions", Specialization: "Regulatory & Data Protection"},
		{SpocID: 3, Name: "Amit Patel", Expertise: "Data Analytics", Specialization: "Predictive Analytics & Business Intelligence"},
	})
	require.NoError(t, err)

	base := time.Now().AddDate(0, 0, 1)
	err = store.CreateSlots(ctx, []*models.Slot{
		{SlotID: 5, SpocID: 1, Start: at(base, 10), End: at(base, 11)},
		{SlotID: 6, SpocID: 1, Start: at(base, 14), End: at(base, 15)},
		{SlotID: 7, SpocID: 2, Start: at(base, 10), End: at(base, 11)},
	})
	require.NoError(t, err)

	return NewService(store, lock.NewMemoryLock()), store
}

func at(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

func registerClient(t *testing.T, svc *Service, company string) string {
	t.Helper()

	client, err := svc.CreateClient(context.Background(), &api.ClientCreateRequest{CompanyName: company})
	require.NoError(t, err)
	require.Len(t, client.ClientID, 8)

	return client.ClientID
}

func slotAvailable(t *testing.T, store *memory.Storage, spocID, slotID int) bool {
	t.Helper()

	slots, err := store.ListAvailableSlots(context.Background(), spocID, nil, nil)
	require.NoError(t, err)

	for _, slot := range slots {
		if slot.SlotID == slotID {
			return true
		}
	}
	return false
}

func TestCreateBooking(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	clientID := registerClient(t, svc, "acme")

	confirmation, err := svc.CreateBooking(ctx, &api.BookingRequest{
		ClientID: clientID, SpocID: 1, SlotID: 5, MeetingType: "Demo",
	})
	require.NoError(t, err)

	assert.Len(t, confirmation.BookingID, 8)
	assert.Equal(t, "Rajesh Sharma", confirmation.SpocName)
	assert.Equal(t, "https://meet.example.com/booking/"+confirmation.BookingID, confirmation.MeetingLink)
	assert.NotEmpty(t, confirmation.StartTime)

	assert.False(t, slotAvailable(t, store, 1, 5))

	booking, err := svc.GetBooking(ctx, confirmation.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "Scheduled", booking.BookingStatus)
	assert.Equal(t, clientID, booking.ClientID)
	assert.Equal(t, 5, booking.SlotID)
}

func TestCreateBooking_SlotUnavailable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := registerClient(t, svc, "acme")
	second := registerClient(t, svc, "globex")

	_, err := svc.CreateBooking(ctx, &api.BookingRequest{ClientID: first, SpocID: 1, SlotID: 5, MeetingType: "Demo"})
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, &api.BookingRequest{ClientID: second, SpocID: 1, SlotID: 5, MeetingType: "Demo"})
	assert.ErrorIs(t, err, response.ErrSlotNotAvailable)
}

func TestCreateBooking_UnknownSlot(t *testing.T) {
	svc, _ := newTestService(t)

	clientID := registerClient(t, svc, "acme")

	_, err := svc.CreateBooking(context.Background(), &api.BookingRequest{
		ClientID: clientID, SpocID: 1, SlotID: 999, MeetingType: "Demo",
	})
	assert.ErrorIs(t, err, response.ErrSlotNotAvailable)
}

func TestCreateBooking_SpocNotFound_RollsBackClaim(t *testing.T) {
	svc, store := newTestService(t)

	clientID := registerClient(t, svc, "acme")

	_, err := svc.CreateBooking(context.Background(), &api.BookingRequest{
		ClientID: clientID, SpocID: 42, SlotID: 5, MeetingType: "Demo",
	})
	assert.ErrorIs(t, err, response.ErrSpocNotFound)

	assert.True(t, slotAvailable(t, store, 1, 5))
}

func TestCreateBooking_SpocMismatch_RollsBackClaim(t *testing.T) {
	svc, store := newTestService(t)

	clientID := registerClient(t, svc, "acme")

	// slot 5 belongs to spoc 1
	_, err := svc.CreateBooking(context.Background(), &api.BookingRequest{
		ClientID: clientID, SpocID: 2, SlotID: 5, MeetingType: "Demo",
	})
	assert.ErrorIs(t, err, response.ErrSlotSpocMismatch)

	assert.True(t, slotAvailable(t, store, 1, 5))
}

func TestCreateBooking_ClientNotFound_RollsBackClaim(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.CreateBooking(context.Background(), &api.BookingRequest{
		ClientID: "missing", SpocID: 1, SlotID: 5, MeetingType: "Demo",
	})
	assert.ErrorIs(t, err, response.ErrClientNotFound)

	assert.True(t, slotAvailable(t, store, 1, 5))
}

func TestCreateBooking_MutualExclusion(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	clientID := registerClient(t, svc, "acme")

	const attempts = 32

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, &api.BookingRequest{
				ClientID: clientID, SpocID: 1, SlotID: 5, MeetingType: "Demo",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.True(t,
			errors.Is(err, response.ErrSlotNotAvailable) || errors.Is(err, response.ErrLocked),
			"unexpected error: %v", err,
		)
	}

	assert.Equal(t, 1, successes)
	assert.False(t, slotAvailable(t, store, 1, 5))
}

func TestCancelBooking(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first := registerClient(t, svc, "acme")
	second := registerClient(t, svc, "globex")

	confirmation, err := svc.CreateBooking(ctx, &api.BookingRequest{ClientID: first, SpocID: 1, SlotID: 5, MeetingType: "Demo"})
	require.NoError(t, err)

	// second client bounces off the booked slot
	_, err = svc.CreateBooking(ctx, &api.BookingRequest{ClientID: second, SpocID: 1, SlotID: 5, MeetingType: "Demo"})
	require.ErrorIs(t, err, response.ErrSlotNotAvailable)

	cancellation, err := svc.CancelBooking(ctx, confirmation.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", cancellation.Status)
	assert.Equal(t, confirmation.BookingID, cancellation.BookingID)

	assert.True(t, slotAvailable(t, store, 1, 5))

	// the previously rejected request now succeeds
	_, err = svc.CreateBooking(ctx, &api.BookingRequest{ClientID: second, SpocID: 1, SlotID: 5, MeetingType: "Demo"})
	require.NoError(t, err)
	assert.False(t, slotAvailable(t, store, 1, 5))
}

func TestCancelBooking_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CancelBooking(context.Background(), "missing")
	assert.ErrorIs(t, err, response.ErrBookingNotFound)
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	clientID := registerClient(t, svc, "acme")

	confirmation, err := svc.CreateBooking(ctx, &api.BookingRequest{ClientID: clientID, SpocID: 1, SlotID: 5, MeetingType: "Demo"})
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, confirmation.BookingID)
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, confirmation.BookingID)
	assert.ErrorIs(t, err, response.ErrBookingCancelled)

	// the slot state is untouched by the rejected cancel
	assert.True(t, slotAvailable(t, store, 1, 5))
}

func TestSlotBookingInvariant(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	clientID := registerClient(t, svc, "acme")

	// book, cancel, rebook, fail a rollback path in between
	c1, err := svc.CreateBooking(ctx, &api.BookingRequest{ClientID: clientID, SpocID: 1, SlotID: 5, MeetingType: "Demo"})
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, &api.BookingRequest{ClientID: "ghost", SpocID: 1, SlotID: 6, MeetingType: "Demo"})
	require.ErrorIs(t, err, response.ErrClientNotFound)

	_, err = svc.CancelBooking(ctx, c1.BookingID)
	require.NoError(t, err)

	c2, err := svc.CreateBooking(ctx, &api.BookingRequest{ClientID: clientID, SpocID: 1, SlotID: 5, MeetingType: "POC"})
	require.NoError(t, err)

	// slot 5 is booked by exactly one Scheduled booking, slot 6 is free
	assert.False(t, slotAvailable(t, store, 1, 5))
	assert.True(t, slotAvailable(t, store, 1, 6))

	scheduled := "Scheduled"
	bookings, err := svc.ListBookings(ctx, &scheduled, nil, 0, 100)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, c2.BookingID, bookings[0].BookingID)
}

func TestListBookings_FilterAndOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	clientID := registerClient(t, svc, "acme")

	c1, err := svc.CreateBooking(ctx, &api.BookingRequest{ClientID: clientID, SpocID: 1, SlotID: 5, MeetingType: "Demo"})
	require.NoError(t, err)
	c2, err := svc.CreateBooking(ctx, &api.BookingRequest{ClientID: clientID, SpocID: 1, SlotID: 6, MeetingType: "POC"})
	require.NoError(t, err)
	c3, err := svc.CreateBooking(ctx, &api.BookingRequest{ClientID: clientID, SpocID: 2, SlotID: 7, MeetingType: "Demo"})
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, c1.BookingID)
	require.NoError(t, err)

	scheduled := "Scheduled"
	spoc1 := 1

	bookings, err := svc.ListBookings(ctx, &scheduled, &spoc1, 0, 100)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, c2.BookingID, bookings[0].BookingID)

	// no filters: all three, newest first
	bookings, err = svc.ListBookings(ctx, nil, nil, 0, 100)
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, c3.BookingID, bookings[0].BookingID)

	// pagination caps the page
	bookings, err = svc.ListBookings(ctx, nil, nil, 1, 1)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, c2.BookingID, bookings[0].BookingID)
}

func TestListSpocs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	spocs, err := svc.ListSpocs(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, spocs, 3)

	cloud := "cloud"
	spocs, err = svc.ListSpocs(ctx, &cloud, nil)
	require.NoError(t, err)
	require.Len(t, spocs, 1)
	assert.Equal(t, 1, spocs[0].SpocID)

	protection := "DATA PROTECTION"
	spocs, err = svc.ListSpocs(ctx, nil, &protection)
	require.NoError(t, err)
	require.Len(t, spocs, 1)
	assert.Equal(t, 2, spocs[0].SpocID)

	nomatch := "quantum"
	_, err = svc.ListSpocs(ctx, &nomatch, nil)
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestGetSpocAvailability(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	spoc, err := svc.GetSpocAvailability(ctx, 1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Rajesh Sharma", spoc.Name)
	require.Len(t, spoc.AvailableSlots, 2)
	assert.Less(t, spoc.AvailableSlots[0].StartTime, spoc.AvailableSlots[1].StartTime)

	_, err = svc.GetSpocAvailability(ctx, 42, nil, nil)
	assert.ErrorIs(t, err, response.ErrSpocNotFound)
}

func TestGenerateSlots(t *testing.T) {
	store := memory.New()
	svc := NewService(store, lock.NewMemoryLock())
	ctx := context.Background()

	err := store.SeedSpocs(ctx, []*models.Spoc{
		{SpocID: 1, Name: "Rajesh Sharma"},
		{SpocID: 2, Name: "Priya Desai"},
		{SpocID: 3, Name: "Amit Patel"},
	})
	require.NoError(t, err)

	windows := []SlotWindow{
		{StartHour: 10, EndHour: 11},
		{StartHour: 14, EndHour: 15},
		{StartHour: 16, EndHour: 17},
	}

	created, err := svc.GenerateSlots(ctx, 14, windows)
	require.NoError(t, err)
	assert.Equal(t, 3*14*3, created)

	slots, err := store.ListAvailableSlots(ctx, 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 14*3)

	for _, slot := range slots {
		assert.True(t, slot.Start.Before(slot.End))
	}
}

func TestGenerateSlots_InvalidWindow(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GenerateSlots(context.Background(), 14, []SlotWindow{{StartHour: 11, EndHour: 10}})
	assert.Error(t, err)

	_, err = svc.GenerateSlots(context.Background(), 0, nil)
	assert.Error(t, err)
}

func TestClients(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	contact := "Jane Doe"
	client, err := svc.CreateClient(ctx, &api.ClientCreateRequest{
		CompanyName: "acme",
		ContactName: &contact,
	})
	require.NoError(t, err)

	got, err := svc.GetClient(ctx, client.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "acme", got.CompanyName)
	require.NotNil(t, got.ContactName)
	assert.Equal(t, contact, *got.ContactName)

	_, err = svc.GetClient(ctx, "missing")
	assert.ErrorIs(t, err, response.ErrClientNotFound)

	clients, err := svc.ListClients(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}
