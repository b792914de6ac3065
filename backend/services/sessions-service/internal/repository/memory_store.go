package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

type tableRow struct {
	table           models.Table
	status          models.TableStatus
	activeSessionID string
}

// MemoryStore keeps all state in process. It serves local runs and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	tables     map[string]tableRow
	sessions   map[string]models.Session
	changes    map[string][]models.PlayerChange
	payments   map[string]models.Payment
	strategies map[string]models.Strategy
	rules      map[string]map[models.TableType]models.PricingRule
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:     make(map[string]tableRow),
		sessions:   make(map[string]models.Session),
		changes:    make(map[string][]models.PlayerChange),
		payments:   make(map[string]models.Payment),
		strategies: make(map[string]models.Strategy),
		rules:      make(map[string]map[models.TableType]models.PricingRule),
	}
}

// PutCafe registers a cafe and its billing strategy.
func (s *MemoryStore) PutCafe(cafeID string, strategy models.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies[cafeID] = strategy
}

// PutTable adds a vacant table.
func (s *MemoryStore) PutTable(table models.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table.Occupancy = nil
	s.tables[table.ID] = tableRow{table: table, status: models.TableAvailable}
}

// PutRule stores a pricing rule, replacing any rule for the same key.
func (s *MemoryStore) PutRule(rule models.PricingRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byType, ok := s.rules[rule.CafeID]
	if !ok {
		byType = make(map[models.TableType]models.PricingRule)
		s.rules[rule.CafeID] = byType
	}
	rule.Strategy = ""
	byType[rule.TableType] = rule
}

// GetTable returns table with its current occupancy.
func (s *MemoryStore) GetTable(_ context.Context, id string) (*models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveTable(id, nil)
}

// GetSession returns session by id.
func (s *MemoryStore) GetSession(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "store.get_session", "session not found")
	}
	return cloneSession(session), nil
}

// ListTables returns the cafe's tables ordered by name.
func (s *MemoryStore) ListTables(_ context.Context, cafeID string) ([]models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tables []models.Table
	for id, row := range s.tables {
		if row.table.CafeID != cafeID {
			continue
		}
		t, err := s.resolveTable(id, nil)
		if err != nil {
			return nil, err
		}
		tables = append(tables, *t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables, nil
}

// PlayerChanges returns the player count history of a session, oldest first.
func (s *MemoryStore) PlayerChanges(_ context.Context, sessionID string) ([]models.PlayerChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PlayerChange(nil), s.changes[sessionID]...), nil
}

// PaymentsSince returns payments for sessions started by startedBy, newest first.
func (s *MemoryStore) PaymentsSince(_ context.Context, startedBy string, since time.Time) ([]models.PaymentEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []models.PaymentEntry
	for sessionID, p := range s.payments {
		session := s.sessions[sessionID]
		if session.StartedBy != startedBy || p.PaidAt.Before(since) {
			continue
		}
		row := s.tables[session.TableID]
		entries = append(entries, models.PaymentEntry{Payment: p, TableID: row.table.ID, TableName: row.table.Name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].PaidAt.After(entries[j].PaidAt) })
	return entries, nil
}

// GetRule returns the rule for one table type of a cafe.
func (s *MemoryStore) GetRule(_ context.Context, cafeID string, tableType models.TableType) (*models.PricingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[cafeID][tableType]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "pricing.get_rule", "pricing rule not found")
	}
	rule.Strategy = s.strategy(cafeID)
	return &rule, nil
}

// ListRules returns every rule configured for a cafe.
func (s *MemoryStore) ListRules(_ context.Context, cafeID string) ([]models.PricingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rules []models.PricingRule
	for _, rule := range s.rules[cafeID] {
		rule.Strategy = s.strategy(cafeID)
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].TableType < rules[j].TableType })
	return rules, nil
}

func (s *MemoryStore) strategy(cafeID string) models.Strategy {
	if st, ok := s.strategies[cafeID]; ok && st != "" {
		return st
	}
	return models.StrategyProRata
}

// WithinTx stages fn's writes and applies them together. Stored table statuses are
// re-checked at commit, and a done ctx discards the writes.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx := &memTx{
		store:    s,
		tables:   make(map[string]pendingTable),
		sessions: make(map[string]models.Session),
	}
	if err := fn(tx); err != nil {
		return err
	}
	return s.commit(ctx, tx)
}

func (s *MemoryStore) commit(ctx context.Context, tx *memTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	for id, pending := range tx.tables {
		row, ok := s.tables[id]
		if !ok {
			return errs.E(errs.KindNotFound, "store.save_table", "table not found")
		}
		if row.status != pending.expect {
			return errs.E(errs.KindConflict, "store.save_table", fmt.Sprintf("table %s is no longer %s", id, pending.expect))
		}
	}
	for _, p := range tx.payments {
		if _, paid := s.payments[p.SessionID]; paid {
			return errs.E(errs.KindInvalidState, "store.save_payment", "session has already been paid")
		}
	}

	now := time.Now().UTC()
	for id, session := range tx.sessions {
		if existing, ok := s.sessions[id]; ok {
			session.CreatedAt = existing.CreatedAt
		} else {
			session.CreatedAt = now
		}
		session.UpdatedAt = now
		s.sessions[id] = session
	}
	for id, pending := range tx.tables {
		row := s.tables[id]
		row.status = pending.status
		row.activeSessionID = pending.activeSessionID
		s.tables[id] = row
	}
	for _, c := range tx.changes {
		s.changes[c.SessionID] = append(s.changes[c.SessionID], c)
	}
	for _, p := range tx.payments {
		s.payments[p.SessionID] = p
	}
	return nil
}

// resolveTable builds a table with occupancy from committed rows overlaid by tx.
// Callers hold s.mu.
func (s *MemoryStore) resolveTable(id string, tx *memTx) (*models.Table, error) {
	row, ok := s.tables[id]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "store.get_table", "table not found")
	}
	status, activeID := row.status, row.activeSessionID
	if tx != nil {
		if pending, ok := tx.tables[id]; ok {
			status, activeID = pending.status, pending.activeSessionID
		}
	}

	var session *models.Session
	if activeID != "" {
		var found bool
		if tx != nil {
			if staged, ok := tx.sessions[activeID]; ok {
				session, found = cloneSession(staged), true
			}
		}
		if !found {
			committed, ok := s.sessions[activeID]
			if !ok {
				return nil, fmt.Errorf("%w: table %s references missing session %s", models.ErrIntegrity, id, activeID)
			}
			session = cloneSession(committed)
		}
	}
	if status == models.TableInUse && session == nil {
		return nil, fmt.Errorf("%w: table %s is in use without a session", models.ErrIntegrity, id)
	}

	occ, err := models.OccupancyOf(session)
	if err != nil {
		return nil, err
	}
	table := row.table
	table.Occupancy = occ
	return &table, nil
}

type pendingTable struct {
	status          models.TableStatus
	activeSessionID string
	expect          models.TableStatus
}

type memTx struct {
	store    *MemoryStore
	tables   map[string]pendingTable
	sessions map[string]models.Session
	changes  []models.PlayerChange
	payments []models.Payment
}

func (t *memTx) LockTable(_ context.Context, id string) (*models.Table, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.store.resolveTable(id, t)
}

func (t *memTx) LockSession(_ context.Context, id string) (*models.Session, error) {
	if staged, ok := t.sessions[id]; ok {
		return cloneSession(staged), nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	session, ok := t.store.sessions[id]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "store.get_session", "session not found")
	}
	return cloneSession(session), nil
}

func (t *memTx) SaveTable(_ context.Context, table *models.Table, expect models.TableStatus) error {
	pending := pendingTable{status: table.Status(), expect: expect}
	if prior, ok := t.tables[table.ID]; ok {
		pending.expect = prior.expect
	}
	if s, ok := table.Session(); ok {
		pending.activeSessionID = s.ID
	}
	t.tables[table.ID] = pending
	return nil
}

func (t *memTx) SaveSession(_ context.Context, session *models.Session) error {
	t.sessions[session.ID] = *cloneSession(*session)
	return nil
}

func (t *memTx) AddPlayerChange(_ context.Context, change models.PlayerChange) error {
	t.changes = append(t.changes, change)
	return nil
}

func (t *memTx) SavePayment(_ context.Context, payment *models.Payment) error {
	for _, p := range t.payments {
		if p.SessionID == payment.SessionID {
			return errs.E(errs.KindInvalidState, "store.save_payment", "session has already been paid")
		}
	}
	t.payments = append(t.payments, *payment)
	return nil
}

func cloneSession(s models.Session) *models.Session {
	if s.EndTime != nil {
		end := *s.EndTime
		s.EndTime = &end
	}
	if s.Bill != nil {
		bill := *s.Bill
		bill.Warnings = append([]string(nil), s.Bill.Warnings...)
		s.Bill = &bill
	}
	return &s
}
