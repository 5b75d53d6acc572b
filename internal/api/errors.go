package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the backend. Detail carries the backend's
// "detail" field when the body was parseable JSON, otherwise the raw body.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}

// IsStatus reports whether err is a backend error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Backend reasons for a rejected payment confirmation.
const (
	reasonRequestNotFound  = "Request not found"
	reasonNotProcessed     = "Request not yet processed"
	reasonAlreadyPaid      = "Payment already completed"
	reasonTransactionReuse = "Transaction ID already used"
)

// paymentFailureMessages maps known confirmation-failure reasons to the
// messages shown to the user.
var paymentFailureMessages = map[string]string{
	reasonRequestNotFound:  "Request not found. Please try again.",
	reasonNotProcessed:     "This request has not been approved yet. Please wait for admin approval.",
	reasonAlreadyPaid:      "Payment has already been completed for this request.",
	reasonTransactionReuse: "This transaction ID has already been used. Please use a different transaction ID.",
}

const genericPaymentFailure = "Payment confirmation failed. Please try again."

// PaymentFailureMessage translates a confirm-payment error into a user-facing
// message. Known backend reasons get tailored messages, unknown reasons are
// shown verbatim, and anything without a reason falls back to a generic line.
func PaymentFailureMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		if msg, ok := paymentFailureMessages[apiErr.Detail]; ok {
			return msg
		}
		return apiErr.Detail
	}
	return genericPaymentFailure
}

// DownloadFailureMessage translates a PDF-fetch error into a user-facing
// message, distinguished only by HTTP status.
func DownloadFailureMessage(err error) string {
	switch {
	case IsStatus(err, http.StatusForbidden):
		return "Please complete payment to access the document."
	case IsStatus(err, http.StatusNotFound):
		return "PDF not available yet."
	default:
		return "Failed to download PDF."
	}
}

// MinTransactionIDLen is the minimum accepted transaction id length after
// trimming surrounding whitespace.
const MinTransactionIDLen = 6

// ValidateTransactionID trims and validates a UPI transaction id. The
// returned string is what should be sent to the backend.
func ValidateTransactionID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", errors.New("please enter a valid transaction ID")
	}
	if len(id) < MinTransactionIDLen {
		return "", fmt.Errorf("transaction ID must be at least %d characters long", MinTransactionIDLen)
	}
	return id, nil
}
