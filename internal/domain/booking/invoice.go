package booking

import "time"

// Invoice is the computed bill for a booking. Exactly one of RefundCents and
// CollectCents is non-zero at a time; both may be zero.
type Invoice struct {
	Nights        int   `json:"nights"`
	SubtotalCents int64 `json:"subtotal_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TotalCents    int64 `json:"total_cents"`
	PaidCents     int64 `json:"paid_cents"`
	RefundCents   int64 `json:"refund_cents"`
	CollectCents  int64 `json:"collect_cents"`
}

// InvoiceCalculator computes bills from a booking's price snapshot. It never
// consults current room rates or current promotion state: the guest is never
// charged a price that drifted from what they agreed to at creation time.
type InvoiceCalculator struct{}

// Preview computes the invoice assuming the stay runs as booked.
func (InvoiceCalculator) Preview(b *Booking) Invoice {
	return invoiceFor(b, b.BookedNights())
}

// Finalize computes the invoice for an actual checkout time. Fewer nights
// than booked yield a refund, more nights yield an amount to collect; the
// same unit price snapshot is used either way. Preview and Finalize agree for
// the same inputs, so the number confirmed with the guest before the
// transition commits is the number persisted after it.
func (InvoiceCalculator) Finalize(b *Booking, actualCheckOut time.Time) Invoice {
	return invoiceFor(b, Nights(b.checkIn, actualCheckOut))
}

func invoiceFor(b *Booking, nights int) Invoice {
	subtotal := int64(nights) * b.unitPriceCents
	discount := prorateDiscount(b, nights)
	total := subtotal - discount
	if total < 0 {
		total = 0
	}

	inv := Invoice{
		Nights:        nights,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    total,
		PaidCents:     b.paidCents,
	}
	if b.paidCents > total {
		inv.RefundCents = b.paidCents - total
	} else if total > b.paidCents {
		inv.CollectCents = total - b.paidCents
	}
	return inv
}

// prorateDiscount re-applies the discount captured at booking time, scaled by
// actually-stayed nights. A shortened stay keeps its proportional share of
// the discount; a lengthened stay never grows it.
func prorateDiscount(b *Booking, nights int) int64 {
	if b.discountCents == 0 {
		return 0
	}
	booked := b.BookedNights()
	if nights >= booked {
		return b.discountCents
	}
	return b.discountCents * int64(nights) / int64(booked)
}
