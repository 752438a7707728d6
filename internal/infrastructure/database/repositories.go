package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/adapter/repository"
	domainRepo "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Records       domainRepo.PaymentRecordRepository
	Products      domainRepo.ProductRepository
	Members       domainRepo.MemberRepository
	WebhookEvents repository.WebhookEventRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Records:       repository.NewPaymentRecordRepository(db, logger),
		Products:      repository.NewProductRepository(db, logger),
		Members:       repository.NewMemberRepository(db, logger),
		WebhookEvents: repository.NewWebhookEventRepository(db, logger),
	}
}
