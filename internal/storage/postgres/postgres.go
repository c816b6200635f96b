package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"spoc-booking-service/internal/models"
	"spoc-booking-service/pkg/response"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Migrate applies the embedded goose migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.postgres.Migrate"

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: set dialect: %w", op, err)
	}

	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("%s: apply migrations: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// #### spocs ####

func (s *Storage) SeedSpocs(ctx context.Context, spocs []*models.Spoc) error {
	const op = "storage.postgres.SeedSpocs"

	for _, spoc := range spocs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO spocs (spoc_id, name, expertise, specialization, email, phone)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (spoc_id) DO NOTHING`,
			spoc.SpocID, spoc.Name, spoc.Expertise, spoc.Specialization, spoc.Email, spoc.Phone,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (s *Storage) GetSpoc(ctx context.Context, spocID int) (*models.Spoc, error) {
	const op = "storage.postgres.GetSpoc"

	var spoc models.Spoc

	err := s.db.QueryRowContext(ctx, `
		SELECT spoc_id, name, expertise, specialization, email, phone
		FROM spocs WHERE spoc_id = $1`, spocID,
	).Scan(&spoc.SpocID, &spoc.Name, &spoc.Expertise, &spoc.Specialization, &spoc.Email, &spoc.Phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrSpocNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &spoc, nil
}

func (s *Storage) ListSpocs(ctx context.Context) ([]*models.Spoc, error) {
	const op = "storage.postgres.ListSpocs"

	rows, err := s.db.QueryContext(ctx, `
		SELECT spoc_id, name, expertise, specialization, email, phone
		FROM spocs ORDER BY spoc_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Spoc, 0)
	for rows.Next() {
		var spoc models.Spoc
		if err := rows.Scan(&spoc.SpocID, &spoc.Name, &spoc.Expertise, &spoc.Specialization, &spoc.Email, &spoc.Phone); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &spoc)
	}

	return result, rows.Err()
}

// #### slots ####

func (s *Storage) CreateSlots(ctx context.Context, slots []*models.Slot) error {
	const op = "storage.postgres.CreateSlots"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, slot := range slots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO slots (slot_id, spoc_id, start_time, end_time, is_booked)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slot_id) DO NOTHING`,
			slot.SlotID, slot.SpocID, slot.Start, slot.End, slot.IsBooked,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// ClaimSlot is a single compare-and-set: the UPDATE only matches an unbooked
// slot, so concurrent claims race on the row and at most one wins.
func (s *Storage) ClaimSlot(ctx context.Context, slotID int) (*models.Slot, error) {
	const op = "storage.postgres.ClaimSlot"

	var slot models.Slot

	err := s.db.QueryRowContext(ctx, `
		UPDATE slots SET is_booked = TRUE
		WHERE slot_id = $1 AND NOT is_booked
		RETURNING slot_id, spoc_id, start_time, end_time, is_booked`, slotID,
	).Scan(&slot.SlotID, &slot.SpocID, &slot.Start, &slot.End, &slot.IsBooked)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrSlotNotAvailable)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &slot, nil
}

func (s *Storage) ReleaseSlot(ctx context.Context, slotID int) error {
	const op = "storage.postgres.ReleaseSlot"

	_, err := s.db.ExecContext(ctx, `UPDATE slots SET is_booked = FALSE WHERE slot_id = $1`, slotID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) ListAvailableSlots(ctx context.Context, spocID int, from, to *time.Time) ([]*models.Slot, error) {
	const op = "storage.postgres.ListAvailableSlots"

	query := `
		SELECT slot_id, spoc_id, start_time, end_time, is_booked
		FROM slots WHERE spoc_id = $1 AND NOT is_booked`
	args := []interface{}{spocID}

	if from != nil {
		args = append(args, *from)
		query += ` AND start_time >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND end_time <= $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY start_time`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Slot, 0)
	for rows.Next() {
		var slot models.Slot
		if err := rows.Scan(&slot.SlotID, &slot.SpocID, &slot.Start, &slot.End, &slot.IsBooked); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &slot)
	}

	return result, rows.Err()
}

// #### clients ####

func (s *Storage) CreateClient(ctx context.Context, client *models.Client) error {
	const op = "storage.postgres.CreateClient"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (client_id, company_name, contact_name, contact_email,
			contact_phone, industry, budget_range, decision_timeline, solution_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		client.ClientID, client.CompanyName, client.ContactName, client.ContactEmail,
		client.ContactPhone, client.Industry, client.BudgetRange, client.DecisionTimeline,
		client.SolutionType, client.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetClient(ctx context.Context, clientID string) (*models.Client, error) {
	const op = "storage.postgres.GetClient"

	var client models.Client

	err := s.db.QueryRowContext(ctx, `
		SELECT client_id, company_name, contact_name, contact_email, contact_phone,
			industry, budget_range, decision_timeline, solution_type, created_at
		FROM clients WHERE client_id = $1`, clientID,
	).Scan(&client.ClientID, &client.CompanyName, &client.ContactName, &client.ContactEmail,
		&client.ContactPhone, &client.Industry, &client.BudgetRange, &client.DecisionTimeline,
		&client.SolutionType, &client.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrClientNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &client, nil
}

func (s *Storage) ListClients(ctx context.Context, skip, limit int) ([]*models.Client, error) {
	const op = "storage.postgres.ListClients"

	rows, err := s.db.QueryContext(ctx, `
		SELECT client_id, company_name, contact_name, contact_email, contact_phone,
			industry, budget_range, decision_timeline, solution_type, created_at
		FROM clients ORDER BY created_at, client_id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Client, 0)
	for rows.Next() {
		var client models.Client
		err := rows.Scan(&client.ClientID, &client.CompanyName, &client.ContactName,
			&client.ContactEmail, &client.ContactPhone, &client.Industry, &client.BudgetRange,
			&client.DecisionTimeline, &client.SolutionType, &client.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &client)
	}

	return result, rows.Err()
}

// #### bookings ####

func (s *Storage) CreateBooking(ctx context.Context, booking *models.Booking) error {
	const op = "storage.postgres.CreateBooking"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (booking_id, client_id, spoc_id, slot_id, meeting_type,
			booking_status, meeting_link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		booking.BookingID, booking.ClientID, booking.SpocID, booking.SlotID,
		booking.MeetingType, booking.Status, booking.MeetingLink, booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	const op = "storage.postgres.GetBooking"

	var booking models.Booking

	err := s.db.QueryRowContext(ctx, `
		SELECT booking_id, client_id, spoc_id, slot_id, meeting_type, booking_status,
			meeting_link, created_at
		FROM bookings WHERE booking_id = $1`, bookingID,
	).Scan(&booking.BookingID, &booking.ClientID, &booking.SpocID, &booking.SlotID,
		&booking.MeetingType, &booking.Status, &booking.MeetingLink, &booking.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &booking, nil
}

func (s *Storage) ListBookings(ctx context.Context, status *string, spocID *int, skip, limit int) ([]*models.Booking, error) {
	const op = "storage.postgres.ListBookings"

	var conditions []string
	var args []interface{}

	if status != nil {
		args = append(args, *status)
		conditions = append(conditions, `booking_status = $`+strconv.Itoa(len(args)))
	}
	if spocID != nil {
		args = append(args, *spocID)
		conditions = append(conditions, `spoc_id = $`+strconv.Itoa(len(args)))
	}

	query := `
		SELECT booking_id, client_id, spoc_id, slot_id, meeting_type, booking_status,
			meeting_link, created_at
		FROM bookings`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}

	args = append(args, skip)
	query += ` ORDER BY created_at DESC OFFSET $` + strconv.Itoa(len(args))
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Booking, 0)
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(&booking.BookingID, &booking.ClientID, &booking.SpocID, &booking.SlotID,
			&booking.MeetingType, &booking.Status, &booking.MeetingLink, &booking.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &booking)
	}

	return result, rows.Err()
}

func (s *Storage) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) error {
	const op = "storage.postgres.UpdateBookingStatus"

	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings SET booking_status = $1 WHERE booking_id = $2`, status, bookingID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrBookingNotFound)
	}

	return nil
}
