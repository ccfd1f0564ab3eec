package accounting

import (
	"fmt"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the correct sign to a line amount based on account
// type and line type. Shared between services and repositories so the sign
// convention lives in exactly one place.
//
// DEBIT to ASSET/EXPENSE/BIOLOGICAL_ASSET -> Positive (+)
// CREDIT to ASSET/EXPENSE/BIOLOGICAL_ASSET -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(line domain.EntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.Valid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	signedAmount := line.Amount
	isDebit := line.LineType == domain.Debit
	if accountType.IsDebitNormal() {
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	} else {
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	}
	return signedAmount, nil
}

// SumByType returns the debit and credit totals of a set of lines.
func SumByType(lines []domain.EntryLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, line := range lines {
		if line.LineType == domain.Debit {
			debits = debits.Add(line.Amount)
		} else {
			credits = credits.Add(line.Amount)
		}
	}
	return debits, credits
}

// Balance derives an account balance from raw debit/credit totals using the
// account type's sign convention. Absence of lines yields exactly zero.
func Balance(accountType domain.AccountType, totalDebit, totalCredit decimal.Decimal) decimal.Decimal {
	if accountType.IsDebitNormal() {
		return totalDebit.Sub(totalCredit)
	}
	return totalCredit.Sub(totalDebit)
}
