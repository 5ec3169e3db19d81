// Package i18n holds the user-facing strings of the payments viewer and the
// mapping from fetch failures to them.
package i18n

import (
	"github.com/Sternrassler/payments-view/pkg/client"
)

const (
	PageTitle = "Payments"

	SearchLabel       = "Search"
	SearchPlaceholder = "Search payments"
	CurrencyLabel     = "Currency"
	AllCurrencies     = "All currencies"
	SearchButton      = "Search"
	ClearFilters      = "Clear filters"

	ColumnPaymentID = "Payment ID"
	ColumnDate      = "Date"
	ColumnAmount    = "Amount"
	ColumnCustomer  = "Customer"
	ColumnCurrency  = "Currency"
	ColumnStatus    = "Status"

	Loading         = "Loading payments..."
	NoPaymentsFound = "No payments found"

	PreviousButton = "Previous"
	NextButton     = "Next"
	PageFormat     = "Page %d"

	PaymentNotFound     = "Payment not found"
	InternalServerError = "Internal server error"
	SomethingWentWrong  = "Something went wrong"

	EmptyCustomer = "Unknown customer"
	EmptyCurrency = "N/A"
)

// Columns is the table header, in display order.
var Columns = []string{
	ColumnPaymentID,
	ColumnDate,
	ColumnAmount,
	ColumnCustomer,
	ColumnCurrency,
	ColumnStatus,
}

// ErrorMessage maps a failed search to one of the three user-facing error
// messages. It returns "" only for a nil error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	switch client.Classify(err) {
	case client.ErrorClassNotFound:
		return PaymentNotFound
	case client.ErrorClassServer:
		return InternalServerError
	default:
		return SomethingWentWrong
	}
}
