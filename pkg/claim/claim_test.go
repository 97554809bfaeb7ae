package claim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumandra/claimd/pkg/claim"
)

func validClaim() claim.Claim {
	return claim.Claim{
		CTypeID:      0,
		To:           "0x0000000000000000000000000000000000000001",
		Attester:     "0x0000000000000000000000000000000000000002",
		Name:         "Staff ID",
		PropertyURI:  "ipfs://QmYNRH3BGW5pdHEoV9ybRQWt1Y1CYTHAfogBeWNirnN8DC",
		PropertyHash: "0xdead",
	}
}

func TestClaimValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validClaim().Validate())
	})

	t.Run("negative ctypeId", func(t *testing.T) {
		c := validClaim()
		c.CTypeID = -1
		assert.ErrorIs(t, c.Validate(), claim.ErrInvalid)
	})

	mutations := map[string]func(*claim.Claim){
		"missing to":            func(c *claim.Claim) { c.To = "" },
		"missing attester":      func(c *claim.Claim) { c.Attester = "" },
		"missing name":          func(c *claim.Claim) { c.Name = "" },
		"missing propertyURI":   func(c *claim.Claim) { c.PropertyURI = "" },
		"missing propertyHash":  func(c *claim.Claim) { c.PropertyHash = "" },
		"whitespace-only field": func(c *claim.Claim) { c.Name = "   " },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := validClaim()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), claim.ErrInvalid)
		})
	}
}

func TestErrorCodes(t *testing.T) {
	wrapped := claim.WrapError(claim.ErrCodeNotFound, "missing", assert.AnError)

	assert.ErrorIs(t, wrapped, claim.ErrNotFound)
	assert.NotErrorIs(t, wrapped, claim.ErrUnauthorized)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Contains(t, wrapped.Error(), claim.ErrCodeNotFound)
}
