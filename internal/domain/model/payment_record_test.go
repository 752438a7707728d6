package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
)

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    model.PaymentStatus
		to      model.PaymentStatus
		allowed bool
	}{
		{"pending to completed", model.StatusPending, model.StatusCompleted, true},
		{"pending to failed", model.StatusPending, model.StatusFailed, true},
		{"pending to refunded", model.StatusPending, model.StatusRefunded, false},
		{"completed to refunded", model.StatusCompleted, model.StatusRefunded, true},
		{"completed to failed", model.StatusCompleted, model.StatusFailed, false},
		{"failed to completed", model.StatusFailed, model.StatusCompleted, false},
		{"failed to failed", model.StatusFailed, model.StatusFailed, false},
		{"refunded to completed", model.StatusRefunded, model.StatusCompleted, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestPaymentStatus_Terminal(t *testing.T) {
	assert.False(t, model.StatusPending.Terminal())
	assert.True(t, model.StatusCompleted.Terminal())
	assert.True(t, model.StatusFailed.Terminal())
	assert.True(t, model.StatusRefunded.Terminal())
}

func TestPaymentKind_Valid(t *testing.T) {
	assert.True(t, model.KindDonation.Valid())
	assert.True(t, model.KindOrder.Valid())
	assert.True(t, model.KindMembership.Valid())
	assert.False(t, model.PaymentKind("subscription").Valid())
	assert.False(t, model.PaymentKind("").Valid())
}

func TestProduct_Purchasable(t *testing.T) {
	t.Run("tracked inventory binds", func(t *testing.T) {
		p := &model.Product{Status: model.ProductStatusActive, TrackInventory: true, Inventory: 3}
		assert.True(t, p.Purchasable(3))
		assert.False(t, p.Purchasable(4))
	})

	t.Run("backorder lifts the inventory cap", func(t *testing.T) {
		p := &model.Product{Status: model.ProductStatusActive, TrackInventory: true, AllowBackorder: true, Inventory: 0}
		assert.True(t, p.Purchasable(10))
	})

	t.Run("untracked inventory never binds", func(t *testing.T) {
		p := &model.Product{Status: model.ProductStatusActive, TrackInventory: false, Inventory: 0}
		assert.True(t, p.Purchasable(5))
	})

	t.Run("inactive product is never purchasable", func(t *testing.T) {
		p := &model.Product{Status: model.ProductStatusInactive, Inventory: 100}
		assert.False(t, p.Purchasable(1))
	})
}
