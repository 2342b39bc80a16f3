package store

import (
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// apply adds the filters to a selector over an event table. Results are
// newest first.
func (o QueryOpts) apply(s *entsql.Selector) *entsql.Selector {
	if o.After > 0 {
		s.Where(entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		s.Where(entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		s.Where(entsql.GTE("timestamp", o.From))
	}
	if !o.To.IsZero() {
		s.Where(entsql.LTE("timestamp", o.To))
	}
	s.OrderBy(entsql.Desc("sequence"))
	if o.Limit > 0 {
		s.Limit(o.Limit)
	}
	return s
}

// EventMeta is the envelope shared by all stored events.
type EventMeta struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// LLMRequestEventData captures a single provider call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	EventMeta
	LLMRequestEventData
}

// LessonEventData captures one evaluated answer and the account state
// after its outcome was applied.
type LessonEventData struct {
	AccountID     string
	TrackID       string
	Node          int
	Position      int
	TaskType      string
	Outcome       string
	Graded        string
	FromFallback  bool
	HeartsAfter   int
	EnergyAfter   int
	LevelAfter    int
	LevelAdvanced bool
}

// LessonEvent is a stored LessonEventData.
type LessonEvent struct {
	EventMeta
	LessonEventData
}

// PurchaseEventData captures one purchase attempt. Result is "success",
// "cancelled" or the rejection reason.
type PurchaseEventData struct {
	AccountID string
	ItemID    string
	Amount    float64
	Network   string
	Result    string
	ReceiptID string
}

// PurchaseEvent is a stored PurchaseEventData.
type PurchaseEvent struct {
	EventMeta
	PurchaseEventData
}

// PurposeUsage aggregates LLM calls for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}
