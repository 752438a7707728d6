package provider

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
)

// Metadata keys embedded into the checkout session. This is the only
// mechanism the reconciler has to recover the local record when the
// session id lookup misses (the initiator's two-write window).
const (
	MetadataKeyRecordID  = "record_id"
	MetadataKeyKind      = "kind"
	MetadataKeyIsRenewal = "is_renewal"
)

// CheckoutMetadata is the strict schema for the provider metadata bag.
type CheckoutMetadata struct {
	RecordID  uuid.UUID
	Kind      model.PaymentKind
	IsRenewal bool
}

// ToMap serializes the metadata for the provider.
func (m CheckoutMetadata) ToMap() map[string]string {
	return map[string]string{
		MetadataKeyRecordID:  m.RecordID.String(),
		MetadataKeyKind:      string(m.Kind),
		MetadataKeyIsRenewal: strconv.FormatBool(m.IsRenewal),
	}
}

// MetadataFromMap validates and parses a provider metadata bag. The
// bag comes back from an external system, so shape is never trusted.
func MetadataFromMap(raw map[string]string) (*CheckoutMetadata, error) {
	if raw == nil {
		return nil, fmt.Errorf("checkout metadata is missing")
	}

	idStr, ok := raw[MetadataKeyRecordID]
	if !ok || idStr == "" {
		return nil, fmt.Errorf("checkout metadata is missing %s", MetadataKeyRecordID)
	}
	recordID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("checkout metadata has malformed %s: %w", MetadataKeyRecordID, err)
	}

	kind := model.PaymentKind(raw[MetadataKeyKind])
	if !kind.Valid() {
		return nil, fmt.Errorf("checkout metadata has unknown kind %q", raw[MetadataKeyKind])
	}

	isRenewal := false
	if v, ok := raw[MetadataKeyIsRenewal]; ok && v != "" {
		isRenewal, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("checkout metadata has malformed %s: %w", MetadataKeyIsRenewal, err)
		}
	}

	return &CheckoutMetadata{
		RecordID:  recordID,
		Kind:      kind,
		IsRenewal: isRenewal,
	}, nil
}
