// Package claim implements attestation claim records and the authorization
// rules governing who may create, list, and delete them.
//
// A Claim binds a subject identity (To) to an attester identity together with
// a claim type and a content commitment (URI + hash). Claims are immutable
// once created; the only mutation is deletion.
package claim

import (
	"strings"
)

// Claim is a single attestation record.
type Claim struct {
	// ID is assigned by storage on insert and never changes.
	ID string `json:"id"`

	// CTypeID classifies the claim schema. Must be non-negative.
	CTypeID int64 `json:"ctypeId"`

	// To is the subject identity the claim is about.
	To string `json:"to"`

	// Attester is the identity asserting the claim.
	Attester string `json:"attester"`

	// Name is a human-readable label.
	Name string `json:"name"`

	// PropertyURI locates the claimed content or evidence.
	PropertyURI string `json:"propertyURI"`

	// PropertyHash commits to the claimed property.
	PropertyHash string `json:"propertyHash"`
}

// Validate checks the write-time constraints: the five required string fields
// must be non-empty and CTypeID non-negative. Storage implementations call
// this before persisting.
func (c Claim) Validate() error {
	if c.CTypeID < 0 {
		return WrapError(ErrCodeInvalid, "ctypeId must be non-negative", nil)
	}
	for _, f := range []struct {
		name  string
		value string
	}{
		{"to", c.To},
		{"attester", c.Attester},
		{"name", c.Name},
		{"propertyURI", c.PropertyURI},
		{"propertyHash", c.PropertyHash},
	} {
		if strings.TrimSpace(f.value) == "" {
			return WrapError(ErrCodeInvalid, f.name+" is required", nil)
		}
	}
	return nil
}
