package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/config"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/mailer"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
)

// ReminderService sends renewal reminders to active members whose
// renewal date falls inside the lookahead window.
type ReminderService struct {
	members   repository.MemberRepository
	mail      mailer.Mailer
	clientURL string
	lookahead time.Duration
	logger    *zap.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(members repository.MemberRepository, mail mailer.Mailer, clientURL string, payments config.PaymentsConfig, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		members:   members,
		mail:      mail,
		clientURL: clientURL,
		lookahead: payments.RenewalLookahead,
		logger:    logger,
	}
}

// ReminderFailure records one member whose reminder could not be sent.
type ReminderFailure struct {
	MemberID int64  `json:"member_id"`
	Email    string `json:"email"`
	Error    string `json:"error"`
}

// ReminderRunResult aggregates one sweep.
type ReminderRunResult struct {
	Due      int               `json:"due"`
	Sent     int               `json:"sent"`
	Failures []ReminderFailure `json:"failures,omitempty"`
}

// Run executes one reminder sweep. A failure for one member never
// blocks the rest; failures are collected into the result.
func (s *ReminderService) Run(ctx context.Context) (*ReminderRunResult, error) {
	cutoff := time.Now().Add(s.lookahead)

	due, err := s.members.DueForRenewalReminder(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	result := &ReminderRunResult{Due: len(due)}

	for _, member := range due {
		link := fmt.Sprintf("%s/membership/renew?member_id=%d", s.clientURL, member.ID)

		if err := s.mail.SendRenewalReminder(ctx, member.Email, member.Name, link); err != nil {
			s.logger.Warn("Failed to send renewal reminder",
				zap.Int64("member_id", member.ID),
				zap.String("email", member.Email),
				zap.Error(err))
			result.Failures = append(result.Failures, ReminderFailure{
				MemberID: member.ID,
				Email:    member.Email,
				Error:    err.Error(),
			})
			continue
		}

		if err := s.members.SetRenewalReminderSent(ctx, member.ID, true); err != nil {
			// The member may get a second reminder next run; prefer
			// that over silently never reminding them.
			s.logger.Error("Failed to mark renewal reminder sent",
				zap.Int64("member_id", member.ID),
				zap.Error(err))
			result.Failures = append(result.Failures, ReminderFailure{
				MemberID: member.ID,
				Email:    member.Email,
				Error:    err.Error(),
			})
			continue
		}

		result.Sent++
	}

	s.logger.Info("Renewal reminder sweep finished",
		zap.Int("due", result.Due),
		zap.Int("sent", result.Sent),
		zap.Int("failed", len(result.Failures)))

	return result, nil
}
