package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset           AccountType = "ASSET"
	Liability       AccountType = "LIABILITY"
	Equity          AccountType = "EQUITY"
	Revenue         AccountType = "REVENUE"
	Expense         AccountType = "EXPENSE"
	BiologicalAsset AccountType = "BIOLOGICAL_ASSET"
)

// IsDebitNormal reports whether debits increase the balance of this account type.
func (t AccountType) IsDebitNormal() bool {
	switch t {
	case Asset, Expense, BiologicalAsset:
		return true
	}
	return false
}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense, BiologicalAsset:
		return true
	}
	return false
}

// Account represents one node of the chart of accounts.
// Balance is never stored on the account; it is always derived from the
// journal line history by the reporting layer.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	Code            string      `json:"code"`            // Globally unique chart code, e.g. "1140"
	Name            string      `json:"name"`            // Canonical name
	DisplayName     string      `json:"displayName"`     // Localized display name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, ...
	ParentAccountID string      `json:"parentAccountID"` // Nullable self-reference, forms a tree
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"` // Accounts are deactivated, never deleted
	AuditFields
}
