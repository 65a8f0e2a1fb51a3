package models

import "time"

// Transaction types as stored in the ledger.
const (
	TypeIncome  = "ingreso"
	TypeExpense = "gasto"
)

// EntityType distinguishes company ledgers from personal ones.
type EntityType string

const (
	EntityCompany  EntityType = "company"
	EntityPersonal EntityType = "personal"
)

// Scope identifies whose ledger an operation reads. An empty ID means
// the whole table for that entity type.
type Scope struct {
	Type EntityType `json:"entity_type"`
	ID   string     `json:"entity_id,omitempty"`
}

// Transaction is a single ledger row. The engine only ever reads copies;
// rows are owned by the ledger.
type Transaction struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	EntityID    string    `json:"entity_id,omitempty"`
}

// TransactionFilter narrows a paginated transaction listing.
type TransactionFilter struct {
	Start     time.Time
	End       time.Time
	Category  string
	MinAmount *float64
	MaxAmount *float64
	Type      string
	Limit     int
	Offset    int
}

// TransactionPage is one page of filtered ledger rows.
type TransactionPage struct {
	Items  []Transaction `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}
