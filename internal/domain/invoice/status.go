package invoice

type Status string

const (
	StatusDraft Status = "draft"
	StatusSent  Status = "sent"
	StatusPaid  Status = "paid"
	StatusVoid  Status = "void"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusVoid:
		return true
	}
	return false
}

// AfterPayment is the status once the payments on an invoice sum to paid.
func AfterPayment(current Status, paidCents, totalCents int64) Status {
	if paidCents >= totalCents && current != StatusPaid {
		return StatusPaid
	}
	return current
}

// AfterPaymentRemoval reopens a paid invoice that is no longer covered.
func AfterPaymentRemoval(current Status, remainingCents, totalCents int64) Status {
	if remainingCents < totalCents && current == StatusPaid {
		return StatusSent
	}
	return current
}
