package usecase_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/provider"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
)

// MockPaymentRecordRepository is a mock implementation of PaymentRecordRepository
type MockPaymentRecordRepository struct {
	mock.Mock
}

func (m *MockPaymentRecordRepository) Create(ctx context.Context, record *model.PaymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPaymentRecordRepository) AttachProviderSession(ctx context.Context, id int64, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}

func (m *MockPaymentRecordRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*model.PaymentRecord, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRecordRepository) GetByProviderSessionID(ctx context.Context, sessionID string) (*model.PaymentRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRecordRepository) GetByProviderPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.PaymentRecord, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRecordRepository) MarkCompleted(ctx context.Context, id int64, paymentIntentID, customerID string, completedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, paymentIntentID, customerID, completedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRecordRepository) MarkFailed(ctx context.Context, id int64, reason string) (bool, error) {
	args := m.Called(ctx, id, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRecordRepository) ClaimFulfillment(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRecordRepository) ReleaseFulfillment(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentRecordRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRecordRepository) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRecordRepository) List(ctx context.Context, filter repository.RecordListFilter) ([]*model.PaymentRecord, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.PaymentRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRecordRepository) Stats(ctx context.Context) (*repository.RecordStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RecordStats), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) RecordSale(ctx context.Context, productID int64, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberRepository) RecordInitialPayment(ctx context.Context, memberID int64, entry model.PaymentHistoryEntry, joinedAt, renewalDate time.Time) error {
	args := m.Called(ctx, memberID, entry, joinedAt, renewalDate)
	return args.Error(0)
}

func (m *MockMemberRepository) RecordRenewalPayment(ctx context.Context, memberID int64, entry model.PaymentHistoryEntry, renewalDate time.Time) error {
	args := m.Called(ctx, memberID, entry, renewalDate)
	return args.Error(0)
}

func (m *MockMemberRepository) DueForRenewalReminder(ctx context.Context, cutoff time.Time) ([]*model.Member, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Member), args.Error(1)
}

func (m *MockMemberRepository) SetRenewalReminderSent(ctx context.Context, memberID int64, sent bool) error {
	args := m.Called(ctx, memberID, sent)
	return args.Error(0)
}

// MockWebhookEventRepository is a mock implementation of WebhookEventRepository
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) SaveEvent(ctx context.Context, eventID, eventType string, data json.RawMessage, providerCreatedAt time.Time) (bool, error) {
	args := m.Called(ctx, eventID, eventType, data, providerCreatedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebhookEventRepository) GetEvent(ctx context.Context, eventID string) (*model.ProviderWebhookEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProviderWebhookEvent), args.Error(1)
}

func (m *MockWebhookEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) MarkFailed(ctx context.Context, eventID string, err error) error {
	args := m.Called(ctx, eventID, err)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) GetRetryableEvents(ctx context.Context, limit int) ([]*model.ProviderWebhookEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ProviderWebhookEvent), args.Error(1)
}

// MockCheckoutProvider is a mock implementation of CheckoutProvider
type MockCheckoutProvider struct {
	mock.Mock
}

func (m *MockCheckoutProvider) CreateCheckoutSession(ctx context.Context, params *provider.CheckoutSessionParams) (*provider.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*provider.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutProvider) ParseWebhook(payload []byte, signature string) (*provider.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.WebhookEvent), args.Error(1)
}

// MockMailer is a mock implementation of Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendRenewalReminder(ctx context.Context, to, name, renewalLink string) error {
	args := m.Called(ctx, to, name, renewalLink)
	return args.Error(0)
}

func (m *MockMailer) SendDonationReceipt(ctx context.Context, to, name string, amount decimal.Decimal) error {
	args := m.Called(ctx, to, name, amount)
	return args.Error(0)
}

// MockFulfiller stands in for the side-effect applier.
type MockFulfiller struct {
	mock.Mock
}

func (m *MockFulfiller) Apply(ctx context.Context, record *model.PaymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
