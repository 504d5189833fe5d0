/*
Package sqlite provides a SQLite-backed implementation of ticket.Store.

PURPOSE:
  Persists ticket records in a single SQLite database. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLE:
  tickets: One row per parking stay, moving from 'pending' to 'completed'.
  The monetary total is stored as TEXT to keep decimal amounts exact.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  st, err := sqlite.New("./data/parking.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

  created, err := st.CreatePending(ctx, ticket.Ticket{...})

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - ticket/store.go: Interface definition
  - ticket/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/parking-engine/tariff"
	"github.com/warp/parking-engine/ticket"
)

// Store implements ticket.Store using SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time check that Store implements ticket.Store.
var _ ticket.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tickets (
		ticket_id INTEGER PRIMARY KEY AUTOINCREMENT,
		zone TEXT NOT NULL,
		member_tier TEXT NOT NULL,
		entry_time TEXT NOT NULL,
		day_type TEXT NOT NULL,
		validation_json TEXT,
		lost_ticket INTEGER NOT NULL DEFAULT 0,
		exit_time TEXT,
		duration_minutes INTEGER,
		total TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreatePending inserts a new pending ticket, letting SQLite assign the ID.
func (s *Store) CreatePending(ctx context.Context, t ticket.Ticket) (ticket.Ticket, error) {
	validationJSON, err := marshalValidation(t.Validation)
	if err != nil {
		return ticket.Ticket{}, err
	}

	t.Status = ticket.StatusPending
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets (zone, member_tier, entry_time, day_type, validation_json,
			lost_ticket, total, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(t.Zone), string(t.MemberTier), t.EntryTime, string(t.DayType),
		validationJSON, boolToInt(t.LostTicket), t.Total.String(), string(t.Status),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("failed to insert ticket: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("failed to read ticket id: %w", err)
	}
	t.ID = id
	return t, nil
}

// Get returns a ticket by ID regardless of status.
func (s *Store) Get(ctx context.Context, id int64) (ticket.Ticket, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ticket_id, zone, member_tier, entry_time, day_type, validation_json,
			lost_ticket, exit_time, duration_minutes, total, status
		FROM tickets WHERE ticket_id = ?`, id)
	return scanTicket(row)
}

// Update replaces a ticket record, typically to settle it.
func (s *Store) Update(ctx context.Context, t ticket.Ticket) error {
	validationJSON, err := marshalValidation(t.Validation)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tickets
		SET zone = ?, member_tier = ?, entry_time = ?, day_type = ?, validation_json = ?,
			lost_ticket = ?, exit_time = ?, duration_minutes = ?, total = ?, status = ?
		WHERE ticket_id = ?`,
		string(t.Zone), string(t.MemberTier), t.EntryTime, string(t.DayType),
		validationJSON, boolToInt(t.LostTicket), nullString(t.ExitTime),
		nullInt(t.DurationMinutes), t.Total.String(), string(t.Status), t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ticket.ErrTicketNotFound
	}
	return nil
}

// ListPending returns all pending tickets ordered by ID.
func (s *Store) ListPending(ctx context.Context) ([]ticket.Ticket, error) {
	return s.listByStatus(ctx, ticket.StatusPending)
}

// ListCompleted returns all completed tickets ordered by ID.
func (s *Store) ListCompleted(ctx context.Context) ([]ticket.Ticket, error) {
	return s.listByStatus(ctx, ticket.StatusCompleted)
}

func (s *Store) listByStatus(ctx context.Context, status ticket.Status) ([]ticket.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticket_id, zone, member_tier, entry_time, day_type, validation_json,
			lost_ticket, exit_time, duration_minutes, total, status
		FROM tickets WHERE status = ? ORDER BY ticket_id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var out []ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// ROW MAPPING
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanTicket(row scanner) (ticket.Ticket, error) {
	var (
		t              ticket.Ticket
		zone, tier     string
		dayType        string
		validationJSON sql.NullString
		lostTicket     int
		exitTime       sql.NullString
		duration       sql.NullInt64
		total          string
		status         string
	)

	err := row.Scan(&t.ID, &zone, &tier, &t.EntryTime, &dayType, &validationJSON,
		&lostTicket, &exitTime, &duration, &total, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return ticket.Ticket{}, ticket.ErrTicketNotFound
	}
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("failed to scan ticket: %w", err)
	}

	t.Zone = tariff.Zone(zone)
	t.MemberTier = tariff.Tier(tier)
	t.DayType = tariff.DayType(dayType)
	t.LostTicket = lostTicket != 0
	t.Status = ticket.Status(status)
	if exitTime.Valid {
		t.ExitTime = exitTime.String
	}
	if duration.Valid {
		minutes := int(duration.Int64)
		t.DurationMinutes = &minutes
	}

	t.Total, err = decimal.NewFromString(total)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("failed to parse stored total %q: %w", total, err)
	}

	if validationJSON.Valid && validationJSON.String != "" {
		var claim tariff.ValidationClaim
		if err := json.Unmarshal([]byte(validationJSON.String), &claim); err != nil {
			return ticket.Ticket{}, fmt.Errorf("failed to parse stored validation: %w", err)
		}
		t.Validation = &claim
	}

	return t, nil
}

func marshalValidation(claim *tariff.ValidationClaim) (sql.NullString, error) {
	if claim == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(claim)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode validation: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
