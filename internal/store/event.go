package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter is the monotonic sequence shared by every event table, so
// an LLM call, the answer it graded and a later purchase can be ordered
// against each other. The mutex serializes within the process; RETURNING
// makes the increment atomic in the database.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// EventRepo appends and queries domain events. Every append takes the
// next global sequence number.
type EventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *EventRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	query, args := sqlite().
		Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, vals...)...).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// AppendLLMRequest records a provider call.
func (r *EventRepo) AppendLLMRequest(ctx context.Context, d LLMRequestEventData) error {
	return r.insert(ctx, llmEventsTable,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"},
		[]any{d.Provider, d.Model, d.Purpose, d.InputTokens, d.OutputTokens, d.LatencyMs, d.Success, d.ErrorMessage, d.RequestBody, d.ResponseBody},
	)
}

// AppendLessonEvent records an answer outcome.
func (r *EventRepo) AppendLessonEvent(ctx context.Context, d LessonEventData) error {
	return r.insert(ctx, lessonTable,
		[]string{"account_id", "track_id", "node", "position", "task_type", "outcome", "graded", "from_fallback", "hearts_after", "energy_after", "level_after", "level_advanced"},
		[]any{d.AccountID, d.TrackID, d.Node, d.Position, d.TaskType, d.Outcome, d.Graded, d.FromFallback, d.HeartsAfter, d.EnergyAfter, d.LevelAfter, d.LevelAdvanced},
	)
}

// AppendPurchaseEvent records a purchase attempt.
func (r *EventRepo) AppendPurchaseEvent(ctx context.Context, d PurchaseEventData) error {
	return r.insert(ctx, purchaseTable,
		[]string{"account_id", "item_id", "amount", "network", "result", "receipt_id"},
		[]any{d.AccountID, d.ItemID, d.Amount, d.Network, d.Result, d.ReceiptID},
	)
}

var metaColumns = []string{"id", "sequence", "timestamp"}

var llmColumns = append(append([]string{}, metaColumns...),
	"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body")

func scanLLMEvent(sc interface{ Scan(...any) error }) (*LLMRequestEvent, error) {
	var e LLMRequestEvent
	err := sc.Scan(&e.ID, &e.Sequence, &e.Timestamp,
		&e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// QueryLLMEvents returns LLM events newest first. purpose filters when
// non-empty.
func (r *EventRepo) QueryLLMEvents(ctx context.Context, purpose string, opts QueryOpts) ([]*LLMRequestEvent, error) {
	sel := sqlite().Select(llmColumns...).From(entsql.Table(llmEventsTable))
	if purpose != "" {
		sel.Where(entsql.EQ("purpose", purpose))
	}
	query, args := opts.apply(sel).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []*LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetLLMEvent returns the event with id, or nil when none exists.
func (r *EventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	query, args := sqlite().
		Select(llmColumns...).
		From(entsql.Table(llmEventsTable)).
		Where(entsql.EQ("id", id)).
		Query()
	e, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return e, nil
}

// LLMUsageByPurpose aggregates calls, failures and tokens per purpose.
func (r *EventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	query, args := sqlite().
		Select(
			"purpose",
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As("SUM(CASE WHEN success THEN 0 ELSE 1 END)", "failures"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
			entsql.As("CAST(AVG(latency_ms) AS INTEGER)", "avg_latency_ms"),
		).
		From(entsql.Table(llmEventsTable)).
		GroupBy("purpose").
		OrderBy("purpose").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var u PurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.Failures, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// LLMUsageByModel aggregates calls and tokens per model for cost estimates.
func (r *EventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	query, args := sqlite().
		Select(
			"model",
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		).
		From(entsql.Table(llmEventsTable)).
		GroupBy("model").
		OrderBy("model").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// QueryLessonEvents returns an account's answer history, newest first.
func (r *EventRepo) QueryLessonEvents(ctx context.Context, accountID string, opts QueryOpts) ([]*LessonEvent, error) {
	cols := append(append([]string{}, metaColumns...),
		"account_id", "track_id", "node", "position", "task_type", "outcome", "graded", "from_fallback", "hearts_after", "energy_after", "level_after", "level_advanced")
	sel := sqlite().Select(cols...).From(entsql.Table(lessonTable)).Where(entsql.EQ("account_id", accountID))
	query, args := opts.apply(sel).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}
	defer rows.Close()

	var out []*LessonEvent
	for rows.Next() {
		var e LessonEvent
		err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.AccountID, &e.TrackID, &e.Node, &e.Position, &e.TaskType, &e.Outcome, &e.Graded, &e.FromFallback, &e.HeartsAfter, &e.EnergyAfter, &e.LevelAfter, &e.LevelAdvanced)
		if err != nil {
			return nil, fmt.Errorf("scan lesson event: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// QueryPurchaseEvents returns an account's purchase attempts, newest first.
func (r *EventRepo) QueryPurchaseEvents(ctx context.Context, accountID string, opts QueryOpts) ([]*PurchaseEvent, error) {
	cols := append(append([]string{}, metaColumns...),
		"account_id", "item_id", "amount", "network", "result", "receipt_id")
	sel := sqlite().Select(cols...).From(entsql.Table(purchaseTable)).Where(entsql.EQ("account_id", accountID))
	query, args := opts.apply(sel).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query purchase events: %w", err)
	}
	defer rows.Close()

	var out []*PurchaseEvent
	for rows.Next() {
		var e PurchaseEvent
		err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.AccountID, &e.ItemID, &e.Amount, &e.Network, &e.Result, &e.ReceiptID)
		if err != nil {
			return nil, fmt.Errorf("scan purchase event: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// DeleteAccountEvents removes the lesson and purchase history of an account.
// LLM events are not account-scoped and are kept.
func (r *EventRepo) DeleteAccountEvents(ctx context.Context, accountID string) error {
	for _, table := range []string{lessonTable, purchaseTable} {
		query, args := sqlite().Delete(table).Where(entsql.EQ("account_id", accountID)).Query()
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}
