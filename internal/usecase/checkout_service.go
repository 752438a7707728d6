package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/config"
	domainErrors "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/errors"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/provider"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
)

// CheckoutService validates purchase intents, creates pending payment
// records, and opens hosted checkout sessions for them.
type CheckoutService struct {
	records  repository.PaymentRecordRepository
	products repository.ProductRepository
	members  repository.MemberRepository
	checkout provider.CheckoutProvider
	validate *validator.Validate

	clientURL       string
	minimumDonation decimal.Decimal
	membershipDues  decimal.Decimal

	logger *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	records repository.PaymentRecordRepository,
	products repository.ProductRepository,
	members repository.MemberRepository,
	checkout provider.CheckoutProvider,
	clientURL string,
	payments config.PaymentsConfig,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		records:         records,
		products:        products,
		members:         members,
		checkout:        checkout,
		validate:        validator.New(),
		clientURL:       clientURL,
		minimumDonation: decimal.NewFromFloat(payments.MinimumDonation),
		membershipDues:  decimal.NewFromFloat(payments.MembershipDues),
		logger:          logger,
	}
}

// DonationRequest is the public donation checkout input.
type DonationRequest struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Phone  string  `json:"phone"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// OrderRequest is the public shop order checkout input.
type OrderRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// MembershipRequest is the membership payment checkout input.
type MembershipRequest struct {
	MemberID  int64 `json:"member_id" validate:"required,gt=0"`
	IsRenewal bool  `json:"is_renewal"`
}

// CheckoutResult is returned to the caller for the external redirect.
type CheckoutResult struct {
	RecordID    uuid.UUID `json:"record_id"`
	SessionID   string    `json:"session_id"`
	CheckoutURL string    `json:"checkout_url"`
}

// StartDonation runs the donation checkout flow.
func (s *CheckoutService) StartDonation(ctx context.Context, req *DonationRequest) (*CheckoutResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domainErrors.NewValidationError("", err.Error())
	}

	amount := decimal.NewFromFloat(req.Amount)
	if amount.LessThan(s.minimumDonation) {
		return nil, domainErrors.NewMinimumAmountError(amount, s.minimumDonation)
	}

	record := &model.PaymentRecord{
		PublicID: uuid.New(),
		Kind:     model.KindDonation,
		Status:   model.StatusPending,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    optionalString(req.Phone),
		Amount:   amount,
	}

	return s.openSession(ctx, record, &provider.CheckoutSessionParams{
		Description:   "Donation",
		AmountCents:   toCents(amount),
		Currency:      "usd",
		Quantity:      1,
		CustomerEmail: req.Email,
	})
}

// StartOrder runs the shop order checkout flow with a price snapshot.
func (s *CheckoutService) StartOrder(ctx context.Context, req *OrderRequest) (*CheckoutResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domainErrors.NewValidationError("", err.Error())
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domainErrors.NewNotFoundError("product", fmt.Sprintf("%d", req.ProductID))
	}
	if product.Status != model.ProductStatusActive {
		return nil, domainErrors.NewValidationError("product_id", "product is not available for purchase")
	}
	if !product.Purchasable(req.Quantity) {
		return nil, domainErrors.NewInsufficientInventoryError(product.ID, req.Quantity, product.Inventory)
	}

	unitPrice := product.Price
	total := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

	record := &model.PaymentRecord{
		PublicID:    uuid.New(),
		Kind:        model.KindOrder,
		Status:      model.StatusPending,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       optionalString(req.Phone),
		Amount:      total,
		ProductID:   &product.ID,
		ProductName: &product.Name,
		UnitPrice:   &unitPrice,
		Quantity:    req.Quantity,
	}

	return s.openSession(ctx, record, &provider.CheckoutSessionParams{
		Description:   product.Name,
		AmountCents:   toCents(unitPrice),
		Currency:      "usd",
		Quantity:      int64(req.Quantity),
		CustomerEmail: req.Email,
	})
}

// StartMembership runs the membership dues checkout flow.
func (s *CheckoutService) StartMembership(ctx context.Context, req *MembershipRequest) (*CheckoutResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domainErrors.NewValidationError("", err.Error())
	}

	member, err := s.members.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domainErrors.NewNotFoundError("member", fmt.Sprintf("%d", req.MemberID))
	}

	description := "Membership dues"
	if req.IsRenewal {
		description = "Membership renewal"
	}

	record := &model.PaymentRecord{
		PublicID:  uuid.New(),
		Kind:      model.KindMembership,
		Status:    model.StatusPending,
		Name:      member.Name,
		Email:     member.Email,
		Amount:    s.membershipDues,
		MemberID:  &member.ID,
		IsRenewal: req.IsRenewal,
	}

	return s.openSession(ctx, record, &provider.CheckoutSessionParams{
		Description:   description,
		AmountCents:   toCents(s.membershipDues),
		Currency:      "usd",
		Quantity:      1,
		CustomerEmail: member.Email,
	})
}

// openSession persists the pending record, then requests the hosted
// session and attaches its id. The record deliberately exists before
// the provider call; if the call fails the orphaned pending record is
// left for the expiry sweep.
func (s *CheckoutService) openSession(ctx context.Context, record *model.PaymentRecord, params *provider.CheckoutSessionParams) (*CheckoutResult, error) {
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	params.SuccessURL = s.clientURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"
	params.CancelURL = s.clientURL + "/payment/cancel?record_id=" + record.PublicID.String()
	params.Metadata = provider.CheckoutMetadata{
		RecordID:  record.PublicID,
		Kind:      record.Kind,
		IsRenewal: record.IsRenewal,
	}.ToMap()

	session, err := s.checkout.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.logger.Error("Failed to create checkout session; pending record left for expiry sweep",
			zap.String("record_id", record.PublicID.String()),
			zap.String("kind", string(record.Kind)),
			zap.Error(err))
		return nil, domainErrors.NewProviderError("create checkout session", err)
	}

	if err := s.records.AttachProviderSession(ctx, record.ID, session.ID); err != nil {
		// The reconciler can still recover the record through the
		// session metadata, but surface the failure to the caller.
		s.logger.Error("Failed to attach provider session to record",
			zap.String("record_id", record.PublicID.String()),
			zap.String("session_id", session.ID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Checkout session created",
		zap.String("record_id", record.PublicID.String()),
		zap.String("kind", string(record.Kind)),
		zap.String("session_id", session.ID),
		zap.String("amount", record.Amount.String()))

	return &CheckoutResult{
		RecordID:    record.PublicID,
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

// SessionStatus reads through to the provider for the session state of
// a local record.
type SessionStatus struct {
	Record                *model.PaymentRecord `json:"record"`
	ProviderStatus        string               `json:"provider_status"`
	ProviderPaymentStatus string               `json:"provider_payment_status"`
}

// GetSessionStatus returns the local record plus the provider session
// status for a session id.
func (s *CheckoutService) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	record, err := s.records.GetByProviderSessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domainErrors.NewNotFoundError("checkout session", sessionID)
	}

	session, err := s.checkout.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, domainErrors.NewProviderError("get checkout session", err)
	}

	return &SessionStatus{
		Record:                record,
		ProviderStatus:        session.Status,
		ProviderPaymentStatus: session.PaymentStatus,
	}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
