package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/mailer"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
)

// FulfillmentService applies the domain consequences of a completed
// payment. The reconciler invokes it exactly once per record via the
// fulfillment claim; nothing here re-checks the record status.
type FulfillmentService struct {
	products productSaleRecorder
	members  memberPaymentRecorder
	mail     mailer.Mailer
	logger   *zap.Logger
}

// The fulfillment step only needs the mutating half of the
// repositories.
type productSaleRecorder interface {
	RecordSale(ctx context.Context, productID int64, quantity int) error
}

type memberPaymentRecorder interface {
	GetByID(ctx context.Context, id int64) (*model.Member, error)
	RecordInitialPayment(ctx context.Context, memberID int64, entry model.PaymentHistoryEntry, joinedAt, renewalDate time.Time) error
	RecordRenewalPayment(ctx context.Context, memberID int64, entry model.PaymentHistoryEntry, renewalDate time.Time) error
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(products productSaleRecorder, members memberPaymentRecorder, mail mailer.Mailer, logger *zap.Logger) *FulfillmentService {
	return &FulfillmentService{
		products: products,
		members:  members,
		mail:     mail,
		logger:   logger,
	}
}

// Apply runs the side effects for one completed record.
func (s *FulfillmentService) Apply(ctx context.Context, record *model.PaymentRecord) error {
	switch record.Kind {
	case model.KindOrder:
		return s.applyOrder(ctx, record)
	case model.KindMembership:
		return s.applyMembership(ctx, record)
	case model.KindDonation:
		s.sendReceipt(ctx, record)
		return nil
	default:
		return fmt.Errorf("unknown payment kind: %s", record.Kind)
	}
}

func (s *FulfillmentService) applyOrder(ctx context.Context, record *model.PaymentRecord) error {
	if record.ProductID == nil {
		return fmt.Errorf("order record %s has no product reference", record.PublicID)
	}

	if err := s.products.RecordSale(ctx, *record.ProductID, record.Quantity); err != nil {
		return err
	}

	s.logger.Info("Order fulfilled",
		zap.String("record_id", record.PublicID.String()),
		zap.Int64("product_id", *record.ProductID),
		zap.Int("quantity", record.Quantity))
	return nil
}

func (s *FulfillmentService) applyMembership(ctx context.Context, record *model.PaymentRecord) error {
	if record.MemberID == nil {
		return fmt.Errorf("membership record %s has no member reference", record.PublicID)
	}

	member, err := s.members.GetByID(ctx, *record.MemberID)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("member not found: %d", *record.MemberID)
	}

	now := time.Now()
	sessionID := ""
	if record.ProviderSessionID != nil {
		sessionID = *record.ProviderSessionID
	}

	entry := model.PaymentHistoryEntry{
		Amount:    record.Amount,
		Date:      now,
		SessionID: sessionID,
		Type:      model.PaymentTypeInitial,
	}

	if record.IsRenewal {
		entry.Type = model.PaymentTypeRenewal

		// The new renewal date anchors on the current one, not on the
		// payment time, so the yearly cadence survives late or early
		// payments.
		anchor := now
		if member.MembershipRenewalDate != nil {
			anchor = *member.MembershipRenewalDate
		}
		renewalDate := anchor.AddDate(1, 0, 0)

		if err := s.members.RecordRenewalPayment(ctx, member.ID, entry, renewalDate); err != nil {
			return err
		}

		s.logger.Info("Membership renewed",
			zap.Int64("member_id", member.ID),
			zap.Time("renewal_date", renewalDate))
		return nil
	}

	renewalDate := now.AddDate(1, 0, 0)
	if err := s.members.RecordInitialPayment(ctx, member.ID, entry, now, renewalDate); err != nil {
		return err
	}

	s.logger.Info("Membership activated",
		zap.Int64("member_id", member.ID),
		zap.Time("renewal_date", renewalDate))
	return nil
}

// sendReceipt is fire-and-forget; email failures never fail the
// payment.
func (s *FulfillmentService) sendReceipt(ctx context.Context, record *model.PaymentRecord) {
	if s.mail == nil {
		return
	}
	if err := s.mail.SendDonationReceipt(ctx, record.Email, record.Name, record.Amount); err != nil {
		s.logger.Warn("Failed to send donation receipt",
			zap.String("record_id", record.PublicID.String()),
			zap.String("email", record.Email),
			zap.Error(err))
	}
}
