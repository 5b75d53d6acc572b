// Package reconcile merges the caller's request list with per-request
// payment statuses and derives the statuses shown in the UI.
package reconcile

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pahani/internal/api"
)

// Display statuses, in derivation precedence order.
const (
	StatusPendingApproval   = "Pending Approval"
	StatusCompleted         = "Completed"
	StatusUnderVerification = "Payment Under Verification"
	StatusReadyForPayment   = "Ready for Payment"
)

// RatePerYear is the fee charged per requested record year. Display estimate
// only; the backend reports the authoritative amount on confirmation.
const RatePerYear = 10

// maxConcurrentLookups bounds the payment-status fan-out.
const maxConcurrentLookups = 8

// PaymentStatusFetcher is the slice of the API client needed here.
type PaymentStatusFetcher interface {
	PaymentStatus(ctx context.Context, id int64) (api.PaymentStatusInfo, error)
}

// AttachPaymentStatuses returns a copy of reqs where every record with
// processed && !is_paid carries its polled payment status. Lookups run
// concurrently and the merged slice is returned only after all of them have
// settled. A failed lookup degrades that one record to "unknown" instead of
// failing the batch.
func AttachPaymentStatuses(ctx context.Context, fetcher PaymentStatusFetcher, reqs []api.Request) []api.Request {
	merged := make([]api.Request, len(reqs))
	copy(merged, reqs)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i := range merged {
		if !merged[i].Processed || merged[i].IsPaid {
			continue
		}
		i := i
		g.Go(func() error {
			info, err := fetcher.PaymentStatus(ctx, merged[i].ID)
			if err != nil {
				merged[i].PaymentStatus = api.PaymentStatusUnknown
				return nil
			}
			merged[i].PaymentStatus = info.Status
			return nil
		})
	}
	// Lookups never return errors; Wait is purely the join barrier.
	_ = g.Wait()
	return merged
}

// DisplayStatus derives the status line for a request. Precedence is strict:
// unprocessed beats everything, completed beats payment state.
func DisplayStatus(r api.Request) string {
	switch {
	case !r.Processed:
		return StatusPendingApproval
	case r.IsPaid:
		return StatusCompleted
	case r.PaymentStatus == api.PaymentStatusPending:
		return StatusUnderVerification
	default:
		return StatusReadyForPayment
	}
}

// PaymentEligible reports whether the payment flow may be opened for a
// request.
func PaymentEligible(r api.Request) bool {
	return r.Processed && !r.IsPaid && r.PaymentStatus != api.PaymentStatusPending
}

// PaymentAmount estimates the fee for a year range, inclusive on both ends.
func PaymentAmount(fromYear, toYear int) int {
	return (toYear - fromYear + 1) * RatePerYear
}
