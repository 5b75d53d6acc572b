package api

// Request is a Pahani document request as returned by the backend.
// PaymentStatus is not part of the wire record: it is attached client-side
// during reconciliation and only meaningful while Processed && !IsPaid.
type Request struct {
	ID           int64  `json:"id"`
	District     string `json:"district"`
	Mandal       string `json:"mandal"`
	Village      string `json:"village"`
	SurveyNumber string `json:"survey_number"`
	FromYear     int    `json:"from_year"`
	ToYear       int    `json:"to_year"`
	Processed    bool   `json:"processed"`
	IsPaid       bool   `json:"is_paid"`
	PDFS3URL     string `json:"pdf_s3_url,omitempty"`

	PaymentStatus string `json:"payment_status,omitempty"`
}

// PaymentStatusUnknown marks a record whose payment-status lookup failed.
// The backend itself reports "pending" while a transaction awaits verification.
const (
	PaymentStatusPending = "pending"
	PaymentStatusUnknown = "unknown"
)

// SubmitRequest is the body for POST /pahani-request.
type SubmitRequest struct {
	District     string `json:"district"`
	Mandal       string `json:"mandal"`
	Village      string `json:"village"`
	SurveyNumber string `json:"survey_number"`
	FromYear     int    `json:"from_year"`
	ToYear       int    `json:"to_year"`
}

// PaymentStatusInfo is the response of GET /user/payment-status/{id}.
type PaymentStatusInfo struct {
	Status string `json:"status"`
}

// RequestStatus is the response of GET /user/pahani-request-status/{id}.
type RequestStatus struct {
	Message string `json:"message"`
}

// ConfirmPayment is the body for POST /user/confirm-payment.
type ConfirmPayment struct {
	RequestID     int64  `json:"request_id"`
	TransactionID string `json:"transaction_id"`
}

// PaymentReceipt is the backend's confirmation response. Amount is the
// authoritative charged amount; any client-side figure is an estimate only.
type PaymentReceipt struct {
	Amount int `json:"amount"`
}

// Year domain offered by the request form.
const (
	MinYear = 1990
	MaxYear = 2018
)

// YearOptions returns the selectable years, oldest first. When from is
// non-zero the list is restricted to years >= from (the to-year rule).
func YearOptions(from int) []int {
	years := make([]int, 0, MaxYear-MinYear+1)
	for y := MinYear; y <= MaxYear; y++ {
		if from != 0 && y < from {
			continue
		}
		years = append(years, y)
	}
	return years
}
