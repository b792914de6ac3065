package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	libdb "github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/db"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// isID reports whether id can name a row. Keys are UUID columns, and Postgres rejects
// any other text with a cast error rather than matching nothing.
func isID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// PostgresStore persists tables, sessions and payments.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns repository.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const tableColumns = `
	t.id, t.cafe_id, t.name, t.table_type, t.status,
	s.id, s.table_id, s.cafe_id, s.started_by, s.acting_owner, s.status, s.players,
	s.start_time, s.end_time, s.bill, s.created_at, s.updated_at
`

const sessionColumns = `
	id, table_id, cafe_id, started_by, acting_owner, status, players,
	start_time, end_time, bill, created_at, updated_at
`

// GetTable returns table with its current occupancy.
func (r *PostgresStore) GetTable(ctx context.Context, id string) (*models.Table, error) {
	return getTable(ctx, r.db, id, false)
}

// GetSession returns session by id.
func (r *PostgresStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return getSession(ctx, r.db, id, false)
}

// ListTables returns the cafe's tables ordered by name.
func (r *PostgresStore) ListTables(ctx context.Context, cafeID string) ([]models.Table, error) {
	if !isID(cafeID) {
		return nil, nil
	}
	query := `SELECT ` + tableColumns + `
		FROM billiard_tables t
		LEFT JOIN game_sessions s ON s.id = t.active_session_id
		WHERE t.cafe_id = $1
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, query, cafeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

// PlayerChanges returns the player count history of a session, oldest first.
func (r *PostgresStore) PlayerChanges(ctx context.Context, sessionID string) ([]models.PlayerChange, error) {
	if !isID(sessionID) {
		return nil, nil
	}
	const query = `
		SELECT id, session_id, players, changed_at
		FROM player_changes
		WHERE session_id = $1
		ORDER BY changed_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []models.PlayerChange
	for rows.Next() {
		var c models.PlayerChange
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Players, &c.ChangedAt); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

// WithinTx runs fn in a database transaction.
func (r *PostgresStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return libdb.WithTx(ctx, r.db, func(sqlTx *sql.Tx) error {
		return fn(&pgTx{tx: sqlTx})
	})
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) LockTable(ctx context.Context, id string) (*models.Table, error) {
	return getTable(ctx, t.tx, id, true)
}

func (t *pgTx) LockSession(ctx context.Context, id string) (*models.Session, error) {
	return getSession(ctx, t.tx, id, true)
}

func (t *pgTx) SaveTable(ctx context.Context, table *models.Table, expect models.TableStatus) error {
	const query = `
		UPDATE billiard_tables
		SET status = $2,
		    active_session_id = $3,
		    updated_at = NOW()
		WHERE id = $1 AND status = $4
	`
	var activeSession sql.NullString
	if s, ok := table.Session(); ok {
		activeSession = sql.NullString{String: s.ID, Valid: true}
	}
	result, err := t.tx.ExecContext(ctx, query, table.ID, table.Status(), activeSession, expect)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.E(errs.KindConflict, "store.save_table", fmt.Sprintf("table %s is no longer %s", table.ID, expect))
	}
	return nil
}

func (t *pgTx) SaveSession(ctx context.Context, session *models.Session) error {
	const query = `
		INSERT INTO game_sessions (id, table_id, cafe_id, started_by, acting_owner, status, players, start_time, end_time, bill, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			players = EXCLUDED.players,
			end_time = EXCLUDED.end_time,
			bill = EXCLUDED.bill,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	var bill []byte
	if session.Bill != nil {
		var err error
		if bill, err = json.Marshal(session.Bill); err != nil {
			return err
		}
	}
	return t.tx.QueryRowContext(ctx, query,
		session.ID,
		session.TableID,
		session.CafeID,
		session.StartedBy,
		session.ActingOwner,
		session.Status,
		session.Players,
		session.StartTime,
		session.EndTime,
		bill,
	).Scan(&session.CreatedAt, &session.UpdatedAt)
}

func (t *pgTx) AddPlayerChange(ctx context.Context, change models.PlayerChange) error {
	const query = `
		INSERT INTO player_changes (id, session_id, players, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := t.tx.ExecContext(ctx, query, change.ID, change.SessionID, change.Players, change.ChangedAt)
	return err
}

func getTable(ctx context.Context, q querier, id string, forUpdate bool) (*models.Table, error) {
	if !isID(id) {
		return nil, errs.E(errs.KindNotFound, "store.get_table", "table not found")
	}
	query := `SELECT ` + tableColumns + `
		FROM billiard_tables t
		LEFT JOIN game_sessions s ON s.id = t.active_session_id
		WHERE t.id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE OF t`
	}
	t, err := scanTable(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.E(errs.KindNotFound, "store.get_table", "table not found")
	}
	return t, err
}

func getSession(ctx context.Context, q querier, id string, forUpdate bool) (*models.Session, error) {
	if !isID(id) {
		return nil, errs.E(errs.KindNotFound, "store.get_session", "session not found")
	}
	query := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	s, err := scanSession(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.E(errs.KindNotFound, "store.get_session", "session not found")
	}
	return s, err
}

func scanTable(row rowScanner) (*models.Table, error) {
	var (
		t      models.Table
		status models.TableStatus
		s      nullableSession
	)
	if err := row.Scan(
		&t.ID,
		&t.CafeID,
		&t.Name,
		&t.Type,
		&status,
		&s.ID,
		&s.TableID,
		&s.CafeID,
		&s.StartedBy,
		&s.ActingOwner,
		&s.Status,
		&s.Players,
		&s.StartTime,
		&s.EndTime,
		&s.Bill,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	session, err := s.session()
	if err != nil {
		return nil, err
	}
	if status == models.TableInUse && session == nil {
		return nil, fmt.Errorf("%w: table %s is in use without a session", models.ErrIntegrity, t.ID)
	}
	if status == models.TableAvailable && session != nil {
		return nil, fmt.Errorf("%w: available table %s references session %s", models.ErrIntegrity, t.ID, session.ID)
	}
	occ, err := models.OccupancyOf(session)
	if err != nil {
		return nil, err
	}
	t.Occupancy = occ
	return &t, nil
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		s    models.Session
		bill []byte
	)
	if err := row.Scan(
		&s.ID,
		&s.TableID,
		&s.CafeID,
		&s.StartedBy,
		&s.ActingOwner,
		&s.Status,
		&s.Players,
		&s.StartTime,
		&s.EndTime,
		&bill,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(bill) > 0 {
		s.Bill = &models.Bill{}
		if err := json.Unmarshal(bill, s.Bill); err != nil {
			return nil, fmt.Errorf("decode bill of session %s: %w", s.ID, err)
		}
	}
	return &s, nil
}

// nullableSession receives the LEFT JOINed session columns.
type nullableSession struct {
	ID          sql.NullString
	TableID     sql.NullString
	CafeID      sql.NullString
	StartedBy   sql.NullString
	ActingOwner sql.NullBool
	Status      sql.NullString
	Players     sql.NullInt64
	StartTime   sql.NullTime
	EndTime     sql.NullTime
	Bill        []byte
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

func (n nullableSession) session() (*models.Session, error) {
	if !n.ID.Valid {
		return nil, nil
	}
	s := &models.Session{
		ID:          n.ID.String,
		TableID:     n.TableID.String,
		CafeID:      n.CafeID.String,
		StartedBy:   n.StartedBy.String,
		ActingOwner: n.ActingOwner.Bool,
		Status:      models.SessionStatus(n.Status.String),
		Players:     int(n.Players.Int64),
		StartTime:   n.StartTime.Time,
		CreatedAt:   n.CreatedAt.Time,
		UpdatedAt:   n.UpdatedAt.Time,
	}
	if n.EndTime.Valid {
		end := n.EndTime.Time
		s.EndTime = &end
	}
	if len(n.Bill) > 0 {
		s.Bill = &models.Bill{}
		if err := json.Unmarshal(n.Bill, s.Bill); err != nil {
			return nil, fmt.Errorf("decode bill of session %s: %w", s.ID, err)
		}
	}
	return s, nil
}
