package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/ledger"
	"github.com/abhisek/lingua/internal/profile"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lingua.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range Tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table.Name, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lingua.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	a, _ := account.New("device-1", "neo", "English", "Spanish", profile.TierBeginner)
	if err := s.AccountRepo().Save(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.AccountRepo().Load(ctx, "device-1"); err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
}

func TestAccountRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.AccountRepo()
	ctx := context.Background()

	if _, err := repo.Load(ctx, "device-1"); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("load missing: err = %v, want ErrNotFound", err)
	}

	a, err := account.New("device-1", "neo", "English", "Spanish", profile.TierAdvanced)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx, "device-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Nickname != "neo" || got.Resources != ledger.Starting() {
		t.Errorf("loaded = %+v", got)
	}
	track, ok := got.ActiveTrack()
	if !ok || track.Target != "Spanish" || track.CurrentLevel != 1 || track.Tier != profile.TierAdvanced {
		t.Errorf("track = %+v", track)
	}
	if got.Label("roadmap") != a.Label("roadmap") {
		t.Errorf("ui strings not persisted")
	}

	// Save again replaces the document.
	next := got.WithResources(ledger.ResourceState{Hearts: 3, Energy: 80, Premium: true})
	if err := repo.Save(ctx, next); err != nil {
		t.Fatalf("save update: %v", err)
	}
	got, err = repo.Load(ctx, "device-1")
	if err != nil {
		t.Fatalf("load update: %v", err)
	}
	if got.Resources.Hearts != 3 || !got.Resources.Premium {
		t.Errorf("resources = %+v", got.Resources)
	}
}

func TestAccountListAndDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.AccountRepo()
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		acct, _ := account.New(id, "nick-"+id, "English", "French", profile.TierBeginner)
		if err := repo.Save(ctx, acct); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("list = %d accounts, want 2", len(all))
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, err := repo.Load(ctx, "a"); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("load deleted: err = %v", err)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "task-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "task-gen", InputTokens: 300, OutputTokens: 70, LatencyMs: 400, Success: false, ErrorMessage: "boom"},
		{Provider: "gemini", Model: "gemini-2.5-pro", Purpose: "grade-writing", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, "", QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("events = %d, want 3", len(all))
	}
	if all[0].Purpose != "grade-writing" || all[0].Sequence <= all[1].Sequence {
		t.Errorf("expected newest first, got %+v", all[0])
	}

	limited, err := repo.QueryLLMEvents(ctx, "task-gen", QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query filtered: %v", err)
	}
	if len(limited) != 1 || limited[0].ErrorMessage != "boom" {
		t.Errorf("filtered = %+v", limited)
	}

	first, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first.RequestBody != "req" || first.ResponseBody != "resp" || !first.Success {
		t.Errorf("get = %+v", first)
	}
	if time.Since(first.Timestamp) > time.Minute {
		t.Errorf("timestamp = %v", first.Timestamp)
	}

	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil || missing != nil {
		t.Errorf("get missing = %v, %v", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	tg := byPurpose[1]
	if tg.Purpose != "task-gen" || tg.Calls != 2 || tg.Failures != 1 || tg.InputTokens != 400 || tg.AvgLatencyMs != 300 {
		t.Errorf("task-gen usage = %+v", tg)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gemini-2.5-flash" || byModel[0].OutputTokens != 120 {
		t.Errorf("model usage = %+v", byModel)
	}
}

func TestLessonAndPurchaseEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for pos := 0; pos < 3; pos++ {
		err := repo.AppendLessonEvent(ctx, LessonEventData{
			AccountID: "a", TrackID: "t", Node: 2, Position: pos,
			TaskType: "grammar", Outcome: "correct", Graded: "local",
			HeartsAfter: 10, EnergyAfter: 50, LevelAfter: 2,
		})
		if err != nil {
			t.Fatalf("append lesson: %v", err)
		}
	}
	if err := repo.AppendLessonEvent(ctx, LessonEventData{AccountID: "b", Outcome: "incorrect"}); err != nil {
		t.Fatalf("append lesson: %v", err)
	}
	if err := repo.AppendPurchaseEvent(ctx, PurchaseEventData{AccountID: "a", ItemID: "h10", Amount: 1.99, Network: "visa", Result: "success", ReceiptID: "r1"}); err != nil {
		t.Fatalf("append purchase: %v", err)
	}

	lessons, err := repo.QueryLessonEvents(ctx, "a", QueryOpts{})
	if err != nil {
		t.Fatalf("query lessons: %v", err)
	}
	if len(lessons) != 3 || lessons[0].Position != 2 {
		t.Fatalf("lessons = %+v", lessons)
	}

	after, err := repo.QueryLessonEvents(ctx, "a", QueryOpts{After: lessons[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 {
		t.Errorf("after = %d events, want 1", len(after))
	}

	purchases, err := repo.QueryPurchaseEvents(ctx, "a", QueryOpts{})
	if err != nil {
		t.Fatalf("query purchases: %v", err)
	}
	if len(purchases) != 1 || purchases[0].Amount != 1.99 || purchases[0].Sequence <= lessons[0].Sequence {
		t.Fatalf("purchases = %+v", purchases)
	}

	if err := repo.DeleteAccountEvents(ctx, "a"); err != nil {
		t.Fatalf("delete events: %v", err)
	}
	lessons, _ = repo.QueryLessonEvents(ctx, "a", QueryOpts{})
	others, _ := repo.QueryLessonEvents(ctx, "b", QueryOpts{})
	if len(lessons) != 0 || len(others) != 1 {
		t.Errorf("after delete: a=%d b=%d", len(lessons), len(others))
	}
}
