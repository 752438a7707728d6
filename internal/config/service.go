package config

import "time"

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	ClientURL   string `yaml:"client_url"`
}

// PaymentsConfig holds the payment provider credentials and the
// business-configured windows for the reconciliation flows.
type PaymentsConfig struct {
	StripeSecretKey     string `yaml:"stripe_secret_key"`
	StripeWebhookSecret string `yaml:"stripe_webhook_secret"`

	MinimumDonation float64 `yaml:"minimum_donation"` // USD
	MembershipDues  float64 `yaml:"membership_dues"`  // USD

	// PendingExpiry is how long a record may stay pending before the
	// sweep marks it failed. Retention is how long pending/failed
	// records are kept before deletion. RenewalLookahead is how far
	// ahead of the renewal date reminders go out.
	PendingExpiry    time.Duration `yaml:"pending_expiry"`
	Retention        time.Duration `yaml:"retention"`
	RenewalLookahead time.Duration `yaml:"renewal_lookahead"`

	// Cron expressions for the background jobs. The expiry schedule
	// drives one combined sweep that also purges past retention.
	ExpirySchedule   string `yaml:"expiry_schedule"`
	ReminderSchedule string `yaml:"reminder_schedule"`
	RetrySchedule    string `yaml:"retry_schedule"`
}

func (c *PaymentsConfig) ApplyDefaults() {
	if c.MinimumDonation <= 0 {
		c.MinimumDonation = 1.0
	}
	if c.PendingExpiry <= 0 {
		c.PendingExpiry = 24 * time.Hour
	}
	if c.Retention <= 0 {
		c.Retention = 7 * 24 * time.Hour
	}
	if c.RenewalLookahead <= 0 {
		c.RenewalLookahead = 30 * 24 * time.Hour
	}
	if c.ExpirySchedule == "" {
		c.ExpirySchedule = "@hourly"
	}
if c.ReminderSchedule == "" {
		c.ReminderSchedule = "@daily"
	}
	if c.RetrySchedule == "" {
		c.RetrySchedule = "@every 5m"
	}
}
