package claim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kumandra/claimd/pkg/claim"
)

func TestAuthorize(t *testing.T) {
	record := &claim.Claim{
		To:       "0xA",
		Attester: "0xB",
	}

	tests := []struct {
		name     string
		identity string
		op       claim.Operation
		record   *claim.Claim
		want     bool
	}{
		{"list subject any authenticated", "0xC", claim.OpListSubject, nil, true},
		{"list attester any authenticated", "0xC", claim.OpListAttester, nil, true},
		{"list subject unauthenticated", "", claim.OpListSubject, nil, false},
		{"create as subject", "0xA", claim.OpCreate, record, true},
		{"create as attester", "0xB", claim.OpCreate, record, false},
		{"create as third party", "0xC", claim.OpCreate, record, false},
		{"create without record", "0xA", claim.OpCreate, nil, false},
		{"delete as subject", "0xA", claim.OpDelete, record, true},
		{"delete as attester", "0xB", claim.OpDelete, record, true},
		{"delete as third party", "0xC", claim.OpDelete, record, false},
		{"delete without record", "0xA", claim.OpDelete, nil, false},
		{"unauthenticated denied everything", "", claim.OpDelete, record, false},
		{"unknown operation", "0xA", claim.Operation(99), record, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, claim.Authorize(tc.identity, tc.op, tc.record))
		})
	}
}
