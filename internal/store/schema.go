package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names.
const (
	accountsTable  = "accounts"
	llmEventsTable = "llm_request_events"
	lessonTable    = "lesson_events"
	purchaseTable  = "purchase_events"
)

// eventColumns are shared by every event table: an autoincrement id, the
// global sequence and the wall-clock timestamp.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(cols, extra...)
}

func eventTable(name string, extra ...*schema.Column) *schema.Table {
	cols := eventColumns(extra...)
	return &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_timestamp", Columns: []*schema.Column{cols[2]}},
		},
	}
}

var (
	accountColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "nickname", Type: field.TypeString},
		{Name: "data", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}

	// AccountsTable holds one JSON account document per identity.
	AccountsTable = &schema.Table{
		Name:       accountsTable,
		Columns:    accountColumns,
		PrimaryKey: []*schema.Column{accountColumns[0]},
	}

	// LLMRequestEventsTable records every provider call.
	LLMRequestEventsTable = eventTable(llmEventsTable,
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)

	// LessonEventsTable records every evaluated answer.
	LessonEventsTable = eventTable(lessonTable,
		&schema.Column{Name: "account_id", Type: field.TypeString},
		&schema.Column{Name: "track_id", Type: field.TypeString},
		&schema.Column{Name: "node", Type: field.TypeInt},
		&schema.Column{Name: "position", Type: field.TypeInt},
		&schema.Column{Name: "task_type", Type: field.TypeString},
		&schema.Column{Name: "outcome", Type: field.TypeString},
		&schema.Column{Name: "graded", Type: field.TypeString},
		&schema.Column{Name: "from_fallback", Type: field.TypeBool},
		&schema.Column{Name: "hearts_after", Type: field.TypeInt},
		&schema.Column{Name: "energy_after", Type: field.TypeInt},
		&schema.Column{Name: "level_after", Type: field.TypeInt},
		&schema.Column{Name: "level_advanced", Type: field.TypeBool},
	)

	// PurchaseEventsTable records every purchase attempt.
	PurchaseEventsTable = eventTable(purchaseTable,
		&schema.Column{Name: "account_id", Type: field.TypeString},
		&schema.Column{Name: "item_id", Type: field.TypeString},
		&schema.Column{Name: "amount", Type: field.TypeFloat64},
		&schema.Column{Name: "network", Type: field.TypeString},
		&schema.Column{Name: "result", Type: field.TypeString},
		&schema.Column{Name: "receipt_id", Type: field.TypeString, Default: ""},
	)

	// Tables is the full schema in creation order.
	Tables = []*schema.Table{
		AccountsTable,
		LLMRequestEventsTable,
		LessonEventsTable,
		PurchaseEventsTable,
	}
)
