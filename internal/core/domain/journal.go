package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineType indicates whether a journal line is a Debit or a Credit.
// The two are mutually exclusive; amounts are always positive.
type LineType string

const (
	Debit  LineType = "DEBIT"
	Credit LineType = "CREDIT"
)

// Reference types linking a journal entry back to the operational record
// that produced it.
const (
	RefFeedingLog    = "feeding_log"
	RefMortalityLog  = "mortality_log"
	RefHarvest       = "harvest"
	RefInvoice       = "invoice"
	RefBatch         = "batch"
	RefRevaluation   = "biological_revaluation"
	RefManual        = "manual"
	RefReversal      = "reversal"
)

// JournalEntry represents a single, balanced financial event composed of
// at least two lines. Once posted it is never edited; corrections require
// a new offsetting entry.
type JournalEntry struct {
	EntryID       string    `json:"entryID"`     // Primary Key (UUID)
	EntryNumber   string    `json:"entryNumber"` // Caller-assigned, unique, e.g. "FEED-<id>-<yyyymmdd>"
	EntryDate     time.Time `json:"entryDate"`
	Description   string    `json:"description"`
	ReferenceType string    `json:"referenceType"` // Loose FK to the originating record
	ReferenceID   string    `json:"referenceID"`
	IsPosted      bool      `json:"isPosted"`
	ReversedBy    *string   `json:"reversedBy,omitempty"` // EntryID of the offsetting entry, if any
	Reverses      *string   `json:"reverses,omitempty"`   // EntryID this entry offsets, if any
	AuditFields

	// Lines are loaded on demand; nil when only the header was fetched.
	Lines []EntryLine `json:"lines,omitempty"`
}

// EntryLine is a single debit or credit against one account within an entry.
// Lines are immutable once their parent entry is posted.
type EntryLine struct {
	LineID      string          `json:"lineID"`  // Primary Key (UUID)
	EntryID     string          `json:"entryID"` // FK -> JournalEntry (Not Null)
	AccountID   string          `json:"accountID"`
	LineType    LineType        `json:"lineType"`
	Amount      decimal.Decimal `json:"amount"` // Positive, 2 decimal places
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}
