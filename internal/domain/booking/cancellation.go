package booking

import "math"

// DefaultCancellationFeePercent is the fee retained on voluntary cancellation
// before check-in.
const DefaultCancellationFeePercent = 15.0

// CancellationPolicy computes the refund/fee split for a voluntary
// cancellation. The fee percentage is a configuration point rather than a
// hard-coded business rule.
type CancellationPolicy struct {
	FeePercent float64
}

// NewCancellationPolicy builds a policy with the given fee percentage.
// Non-positive values fall back to the default.
func NewCancellationPolicy(feePercent float64) CancellationPolicy {
	if feePercent <= 0 {
		feePercent = DefaultCancellationFeePercent
	}
	return CancellationPolicy{FeePercent: feePercent}
}

// ComputeRefund splits the paid amount into refund and cancellation fee.
// refund + fee always equals the paid amount.
func (p CancellationPolicy) ComputeRefund(paidCents int64) (refundCents, feeCents int64) {
	feeCents = int64(math.Round(float64(paidCents) * p.FeePercent / 100))
	refundCents = paidCents - feeCents
	return refundCents, feeCents
}
