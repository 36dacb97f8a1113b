/*
Package sqlite provides a SQLite-backed implementation of household.Store.

PURPOSE:
  Persists the household records and the plan so the server and the CLI
  see the same data across restarts.

KEY TABLES:
  earnings, expenses, savings, future_payments: One row per record. The
    autoincrement seq column keeps insertion order; upserts preserve it.
  plan: Single row (id = 1) holding the funding plan. Custom order and
    seed savings ids are stored as JSON arrays.

AMOUNTS:
  Stored as decimal strings plus a currency code, so values read back
  exactly as written.

MIGRATION:
  Versioned SQL files under migrations/ are embedded and applied with
  golang-migrate on New(). The applied version is in schema_migrations.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Multi-statement writes (ReplaceState,
  Reset) run in one SQL transaction.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not block
  the single writer.

USAGE:
  store, err := sqlite.New("./data/household.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - household/store.go: Store interface
  - household/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
)

// Store implements household.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx executes fn within a database transaction. Callers hold s.mu.
func (s *Store) withTx(ctx context.Context, fn func(q querier) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// =============================================================================
// EARNINGS
// =============================================================================

func (s *Store) ListEarnings(ctx context.Context) ([]funding.Earning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listEarnings(ctx, s.db)
}

func listEarnings(ctx context.Context, q querier) ([]funding.Earning, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, source, amount_value, amount_currency FROM earnings ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []funding.Earning{}
	for rows.Next() {
		var e funding.Earning
		if err := rows.Scan(&e.ID, &e.Source, &e.Amount.Value, &e.Amount.Currency); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) SaveEarning(ctx context.Context, e funding.Earning) error {
	if err := household.ValidateEarning(e); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveEarning(ctx, s.db, e)
}

func saveEarning(ctx context.Context, q querier, e funding.Earning) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO earnings (id, source, amount_value, amount_currency)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			amount_value = excluded.amount_value,
			amount_currency = excluded.amount_currency
	`, e.ID, e.Source, e.Amount.Value.String(), string(e.Amount.Currency))
	if err != nil {
		return fmt.Errorf("failed to save earning: %w", err)
	}
	return nil
}

func (s *Store) DeleteEarning(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteByID(ctx, s.db, "earnings", "earning", id)
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) ListExpenses(ctx context.Context) ([]funding.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listExpenses(ctx, s.db)
}

func listExpenses(ctx context.Context, q querier) ([]funding.Expense, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, amount_value, amount_currency FROM expenses ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []funding.Expense{}
	for rows.Next() {
		var x funding.Expense
		if err := rows.Scan(&x.ID, &x.Name, &x.Amount.Value, &x.Amount.Currency); err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, rows.Err()
}

func (s *Store) SaveExpense(ctx context.Context, x funding.Expense) error {
	if err := household.ValidateExpense(x); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveExpense(ctx, s.db, x)
}

func saveExpense(ctx context.Context, q querier, x funding.Expense) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO expenses (id, name, amount_value, amount_currency)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			amount_value = excluded.amount_value,
			amount_currency = excluded.amount_currency
	`, x.ID, x.Name, x.Amount.Value.String(), string(x.Amount.Currency))
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteByID(ctx, s.db, "expenses", "expense", id)
}

// =============================================================================
// SAVINGS
// =============================================================================

func (s *Store) ListSavings(ctx context.Context) ([]funding.Saving, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSavings(ctx, s.db)
}

func listSavings(ctx context.Context, q querier) ([]funding.Saving, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, amount_value, amount_currency FROM savings ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []funding.Saving{}
	for rows.Next() {
		var sv funding.Saving
		if err := rows.Scan(&sv.ID, &sv.Name, &sv.Amount.Value, &sv.Amount.Currency); err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (s *Store) SaveSaving(ctx context.Context, sv funding.Saving) error {
	if err := household.ValidateSaving(sv); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveSaving(ctx, s.db, sv)
}

func saveSaving(ctx context.Context, q querier, sv funding.Saving) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO savings (id, name, amount_value, amount_currency)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			amount_value = excluded.amount_value,
			amount_currency = excluded.amount_currency
	`, sv.ID, sv.Name, sv.Amount.Value.String(), string(sv.Amount.Currency))
	if err != nil {
		return fmt.Errorf("failed to save saving: %w", err)
	}
	return nil
}

func (s *Store) DeleteSaving(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteByID(ctx, s.db, "savings", "saving", id)
}

// =============================================================================
// FUTURE PAYMENTS
// =============================================================================

func (s *Store) ListFuturePayments(ctx context.Context) ([]funding.FuturePayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listFuturePayments(ctx, s.db)
}

func listFuturePayments(ctx context.Context, q querier) ([]funding.FuturePayment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, amount_value, amount_currency, due_date, recurrence
		FROM future_payments ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []funding.FuturePayment{}
	for rows.Next() {
		var p funding.FuturePayment
		var recurrence string
		if err := rows.Scan(&p.ID, &p.Name, &p.Amount.Value, &p.Amount.Currency, &p.DueDate, &recurrence); err != nil {
			return nil, err
		}
		p.Recurrence = funding.ParseRecurrence(recurrence)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) SaveFuturePayment(ctx context.Context, p funding.FuturePayment) error {
	if err := household.ValidateFuturePayment(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveFuturePayment(ctx, s.db, p)
}

func saveFuturePayment(ctx context.Context, q querier, p funding.FuturePayment) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO future_payments (id, name, amount_value, amount_currency, due_date, recurrence)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			amount_value = excluded.amount_value,
			amount_currency = excluded.amount_currency,
			due_date = excluded.due_date,
			recurrence = excluded.recurrence
	`, p.ID, p.Name, p.Amount.Value.String(), string(p.Amount.Currency), p.DueDate,
		string(funding.ParseRecurrence(string(p.Recurrence))))
	if err != nil {
		return fmt.Errorf("failed to save future payment: %w", err)
	}
	return nil
}

func (s *Store) DeleteFuturePayment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteByID(ctx, s.db, "future_payments", "future payment", id)
}

// =============================================================================
// PLAN
// =============================================================================

func (s *Store) GetPlan(ctx context.Context) (funding.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getPlan(ctx, s.db)
}

func getPlan(ctx context.Context, q querier) (funding.Plan, error) {
	var (
		value             decimal.Decimal
		currency          string
		priority          string
		orderJSON, seedJS string
	)
	err := q.QueryRowContext(ctx, `
		SELECT allocation_value, allocation_currency, priority, custom_order_json, seed_savings_json
		FROM plan WHERE id = 1
	`).Scan(&value, &currency, &priority, &orderJSON, &seedJS)
	if err == sql.ErrNoRows {
		return household.DefaultPlan(), nil
	}
	if err != nil {
		return funding.Plan{}, err
	}

	plan := funding.Plan{
		MonthlyAllocation: funding.Money{Value: value, Currency: funding.Currency(currency)},
		Priority:          funding.ParsePriority(priority),
		CustomOrder:       []string{},
		SeedSavingsIDs:    []string{},
	}
	if err := json.Unmarshal([]byte(orderJSON), &plan.CustomOrder); err != nil {
		return funding.Plan{}, fmt.Errorf("failed to decode custom order: %w", err)
	}
	if err := json.Unmarshal([]byte(seedJS), &plan.SeedSavingsIDs); err != nil {
		return funding.Plan{}, fmt.Errorf("failed to decode seed savings: %w", err)
	}
	if plan.CustomOrder == nil {
		plan.CustomOrder = []string{}
	}
	if plan.SeedSavingsIDs == nil {
		plan.SeedSavingsIDs = []string{}
	}
	return plan, nil
}

func (s *Store) SavePlan(ctx context.Context, p funding.Plan) error {
	if err := household.ValidatePlan(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return savePlan(ctx, s.db, p)
}

func savePlan(ctx context.Context, q querier, p funding.Plan) error {
	orderJSON, _ := json.Marshal(nonNil(p.CustomOrder))
	seedJSON, _ := json.Marshal(nonNil(p.SeedSavingsIDs))

	_, err := q.ExecContext(ctx, `
		INSERT INTO plan (id, allocation_value, allocation_currency, priority, custom_order_json, seed_savings_json, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			allocation_value = excluded.allocation_value,
			allocation_currency = excluded.allocation_currency,
			priority = excluded.priority,
			custom_order_json = excluded.custom_order_json,
			seed_savings_json = excluded.seed_savings_json,
			updated_at = excluded.updated_at
	`, p.MonthlyAllocation.Value.String(), string(p.MonthlyAllocation.Currency), string(p.Priority),
		string(orderJSON), string(seedJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// =============================================================================
// WHOLE STATE
// =============================================================================

// LoadState reads every table inside one transaction so the result is a
// consistent snapshot.
func (s *Store) LoadState(ctx context.Context) (*household.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := household.NewState()
	err := s.withTx(ctx, func(q querier) error {
		var err error
		if st.Earnings, err = listEarnings(ctx, q); err != nil {
			return err
		}
		if st.Expenses, err = listExpenses(ctx, q); err != nil {
			return err
		}
		if st.Savings, err = listSavings(ctx, q); err != nil {
			return err
		}
		if st.FuturePayments, err = listFuturePayments(ctx, q); err != nil {
			return err
		}
		st.Plan, err = getPlan(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ReplaceState swaps the whole household in one transaction. Nothing is
// written if any record fails validation.
func (s *Store) ReplaceState(ctx context.Context, st *household.State) error {
	if err := household.ValidateState(st); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(q querier) error {
		if err := clearRecords(ctx, q); err != nil {
			return err
		}
		for _, e := range st.Earnings {
			if err := saveEarning(ctx, q, e); err != nil {
				return err
			}
		}
		for _, x := range st.Expenses {
			if err := saveExpense(ctx, q, x); err != nil {
				return err
			}
		}
		for _, sv := range st.Savings {
			if err := saveSaving(ctx, q, sv); err != nil {
				return err
			}
		}
		for _, p := range st.FuturePayments {
			if err := saveFuturePayment(ctx, q, p); err != nil {
				return err
			}
		}
		return savePlan(ctx, q, st.Plan)
	})
}

// Reset clears all data and restores the default plan.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(q querier) error {
		if err := clearRecords(ctx, q); err != nil {
			return err
		}
		return savePlan(ctx, q, household.DefaultPlan())
	})
}

// =============================================================================
// UTILITIES
// =============================================================================

func clearRecords(ctx context.Context, q querier) error {
	tables := []string{"earnings", "expenses", "savings", "future_payments"}
	for _, table := range tables {
		if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func deleteByID(ctx context.Context, q querier, table, kind, id string) error {
	res, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &household.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ household.Store = (*Store)(nil)
