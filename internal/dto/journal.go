package dto

import (
	"time"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one debit or credit line of an entry being created.
// The line type is explicit, never a signed amount.
type EntryLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	LineType    domain.LineType `json:"lineType" binding:"required,oneof=DEBIT CREDIT"`
	Amount      decimal.Decimal `json:"amount" binding:"required,dpositive,d2dp"`
	Description string          `json:"description"`
}

// CreateManualEntryRequest is the operator-facing journal entry form.
type CreateManualEntryRequest struct {
	EntryDate     time.Time          `json:"entryDate" binding:"required" time_format:"2006-01-02"`
	Description   string             `json:"description" binding:"required"`
	ReferenceType string             `json:"referenceType"`
	ReferenceID   string             `json:"referenceID"`
	Lines         []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// EntryLineResponse defines the data returned for a journal entry line.
type EntryLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	LineType    domain.LineType `json:"lineType"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID       string              `json:"entryID"`
	EntryNumber   string              `json:"entryNumber"`
	EntryDate     time.Time           `json:"entryDate"`
	Description   string              `json:"description"`
	ReferenceType string              `json:"referenceType,omitempty"`
	ReferenceID   string              `json:"referenceID,omitempty"`
	IsPosted      bool                `json:"isPosted"`
	TotalDebit    decimal.Decimal     `json:"totalDebit"`
	TotalCredit   decimal.Decimal     `json:"totalCredit"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	Lines         []EntryLineResponse `json:"lines,omitempty"`
}

// ToEntryResponse converts a domain.JournalEntry (with any loaded lines) to
// an EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:       e.EntryID,
		EntryNumber:   e.EntryNumber,
		EntryDate:     e.EntryDate,
		Description:   e.Description,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		IsPosted:      e.IsPosted,
		TotalDebit:    decimal.Zero,
		TotalCredit:   decimal.Zero,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
	for _, line := range e.Lines {
		if line.LineType == domain.Debit {
			resp.TotalDebit = resp.TotalDebit.Add(line.Amount)
		} else {
			resp.TotalCredit = resp.TotalCredit.Add(line.Amount)
		}
		resp.Lines = append(resp.Lines, EntryLineResponse{
			LineID:      line.LineID,
			AccountID:   line.AccountID,
			LineType:    line.LineType,
			Amount:      line.Amount,
			Description: line.Description,
		})
	}
	return resp
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	ReferenceType *string `form:"referenceType"`
	ReferenceID   *string `form:"referenceID"`
	Limit         int     `form:"limit,default=20"`
	NextToken     *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries and the token for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}
