package mailer

import (
	"context"

	"github.com/shopspring/decimal"
)

// Mailer is the port to the transactional email collaborator. Every
// send is non-fatal to the transaction that triggered it; callers log
// and continue on error.
type Mailer interface {
	// SendRenewalReminder emails a member a renewal link.
	SendRenewalReminder(ctx context.Context, to, name, renewalLink string) error

	// SendDonationReceipt emails a donor a receipt for a completed
	// donation.
	SendDonationReceipt(ctx context.Context, to, name string, amount decimal.Decimal) error
}
