package provider_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/provider"
)

func TestCheckoutMetadata_RoundTrip(t *testing.T) {
	meta := provider.CheckoutMetadata{
		RecordID:  uuid.New(),
		Kind:      model.KindMembership,
		IsRenewal: true,
	}

	parsed, err := provider.MetadataFromMap(meta.ToMap())

	assert.NoError(t, err)
	assert.Equal(t, meta.RecordID, parsed.RecordID)
	assert.Equal(t, model.KindMembership, parsed.Kind)
	assert.True(t, parsed.IsRenewal)
}

func TestMetadataFromMap_Strictness(t *testing.T) {
	valid := provider.CheckoutMetadata{
		RecordID: uuid.New(),
		Kind:     model.KindDonation,
	}.ToMap()

	t.Run("nil bag", func(t *testing.T) {
		_, err := provider.MetadataFromMap(nil)
		assert.Error(t, err)
	})

	t.Run("missing record id", func(t *testing.T) {
		bag := map[string]string{"kind": "donation"}
		_, err := provider.MetadataFromMap(bag)
		assert.Error(t, err)
	})

	t.Run("malformed record id", func(t *testing.T) {
		bag := map[string]string{"record_id": "not-a-uuid", "kind": "donation"}
		_, err := provider.MetadataFromMap(bag)
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		bag := map[string]string{"record_id": valid["record_id"], "kind": "subscription"}
		_, err := provider.MetadataFromMap(bag)
		assert.Error(t, err)
	})

	t.Run("malformed renewal flag", func(t *testing.T) {
		bag := map[string]string{"record_id": valid["record_id"], "kind": "membership", "is_renewal": "maybe"}
		_, err := provider.MetadataFromMap(bag)
		assert.Error(t, err)
	})

	t.Run("absent renewal flag defaults to false", func(t *testing.T) {
		parsed, err := provider.MetadataFromMap(valid)
		assert.NoError(t, err)
		assert.False(t, parsed.IsRenewal)
	})
}
