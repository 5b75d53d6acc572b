package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// MyRequests lists the caller's submitted Pahani requests.
func (c *Client) MyRequests(ctx context.Context) ([]Request, error) {
	var requests []Request
	if err := c.do(ctx, http.MethodGet, "/user/my-pahani-requests", nil, &requests, true); err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}
	return requests, nil
}

// Submit files a new Pahani document request.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) error {
	if err := c.do(ctx, http.MethodPost, "/pahani-request", req, nil, true); err != nil {
		return fmt.Errorf("failed to submit request: %w", err)
	}
	return nil
}

// PaymentStatus returns the payment verification state of a request.
func (c *Client) PaymentStatus(ctx context.Context, id int64) (PaymentStatusInfo, error) {
	var info PaymentStatusInfo
	path := "/user/payment-status/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &info, true); err != nil {
		return PaymentStatusInfo{}, fmt.Errorf("failed to fetch payment status for request %d: %w", id, err)
	}
	return info, nil
}

// RequestStatus returns the backend's live status message for a request.
func (c *Client) RequestStatus(ctx context.Context, id int64) (RequestStatus, error) {
	var status RequestStatus
	path := "/user/pahani-request-status/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &status, true); err != nil {
		return RequestStatus{}, fmt.Errorf("failed to fetch status for request %d: %w", id, err)
	}
	return status, nil
}

// ConfirmPayment submits a transaction id as proof of payment. The returned
// receipt carries the authoritative charged amount.
func (c *Client) ConfirmPayment(ctx context.Context, requestID int64, transactionID string) (PaymentReceipt, error) {
	body := ConfirmPayment{RequestID: requestID, TransactionID: transactionID}
	var receipt PaymentReceipt
	if err := c.do(ctx, http.MethodPost, "/user/confirm-payment", body, &receipt, true); err != nil {
		return PaymentReceipt{}, err
	}
	return receipt, nil
}
