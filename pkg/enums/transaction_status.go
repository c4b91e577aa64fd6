package enums

import "fmt"

// TransactionStatus tracks the lifecycle of an order.
//
// pending orders await a cashier decision; completed is reached directly at
// creation for in-person cashier sales and never transitions from pending.
// approved, rejected, and completed are terminal.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusApproved  TransactionStatus = "approved"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRejected  TransactionStatus = "rejected"
)

var validTransactionStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusApproved,
	TransactionStatusCompleted,
	TransactionStatusRejected,
}

// String implements fmt.Stringer.
func (t TransactionStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionStatus.
func (t TransactionStatus) IsValid() bool {
	for _, candidate := range validTransactionStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (t TransactionStatus) IsTerminal() bool {
	return t == TransactionStatusApproved || t == TransactionStatusCompleted || t == TransactionStatusRejected
}

// ParseTransactionStatus converts raw input into a TransactionStatus.
func ParseTransactionStatus(value string) (TransactionStatus, error) {
	for _, candidate := range validTransactionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction status %q", value)
}
