package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
)

// ReportService serves the admin read surface over payment records.
type ReportService struct {
	records repository.PaymentRecordRepository
	logger  *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(records repository.PaymentRecordRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		records: records,
		logger:  logger,
	}
}

// RecordPage is one page of an admin listing.
type RecordPage struct {
	Records []*model.PaymentRecord `json:"records"`
	Total   int64                  `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// List returns a filtered page of payment records.
func (s *ReportService) List(ctx context.Context, filter repository.RecordListFilter) (*RecordPage, error) {
	if filter.Limit < 1 {
		filter.Limit = 20
	} else if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	records, total, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &RecordPage{
		Records: records,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

// Stats returns aggregate payment statistics.
func (s *ReportService) Stats(ctx context.Context) (*repository.RecordStats, error) {
	return s.records.Stats(ctx)
}

// ExportCSV streams all records matching the filter as CSV.
func (s *ReportService) ExportCSV(ctx context.Context, filter repository.RecordListFilter, w io.Writer) error {
	filter.Limit = 1000
	filter.Offset = 0

	cw := csv.NewWriter(w)
	header := []string{"public_id", "kind", "status", "name", "email", "amount", "product", "quantity", "session_id", "created_at", "completed_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for {
		records, _, err := s.records.List(ctx, filter)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			break
		}

		for _, r := range records {
			row := []string{
				r.PublicID.String(),
				string(r.Kind),
				string(r.Status),
				r.Name,
				r.Email,
				r.Amount.StringFixed(2),
				stringOrEmpty(r.ProductName),
				fmt.Sprintf("%d", r.Quantity),
				stringOrEmpty(r.ProviderSessionID),
				r.CreatedAt.Format(time.RFC3339),
				timeOrEmpty(r.CompletedAt),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}

		if len(records) < filter.Limit {
			break
		}
		filter.Offset += filter.Limit
	}

	cw.Flush()
	return cw.Error()
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
