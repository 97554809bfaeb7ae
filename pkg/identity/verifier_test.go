package identity_test

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumandra/claimd/pkg/identity"
)

const testChallenge = "kumandra attestation challenge"

// newKey generates a fresh secp256k1 key and returns its hex form and address.
func newKey(t *testing.T) (string, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return fmt.Sprintf("%x", crypto.FromECDSA(key)), crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func TestRecover(t *testing.T) {
	verifier := identity.NewVerifier(testChallenge)
	keyHex, address := newKey(t)

	t.Run("round trip", func(t *testing.T) {
		sig, err := identity.Sign(keyHex, testChallenge)
		require.NoError(t, err)

		got, err := verifier.Recover(sig)
		require.NoError(t, err)
		assert.Equal(t, address, got)
	})

	t.Run("signature without 0x prefix", func(t *testing.T) {
		sig, err := identity.Sign(keyHex, testChallenge)
		require.NoError(t, err)

		got, err := verifier.Recover(sig[2:])
		require.NoError(t, err)
		assert.Equal(t, address, got)
	})

	t.Run("different signers recover different identities", func(t *testing.T) {
		otherKey, otherAddress := newKey(t)
		sig, err := identity.Sign(otherKey, testChallenge)
		require.NoError(t, err)

		got, err := verifier.Recover(sig)
		require.NoError(t, err)
		assert.Equal(t, otherAddress, got)
		assert.NotEqual(t, address, got)
	})

	t.Run("signature over the wrong message recovers a different identity", func(t *testing.T) {
		sig, err := identity.Sign(keyHex, "some other message")
		require.NoError(t, err)

		// Recovery still succeeds mathematically, but yields an address the
		// signer does not control, so it grants no useful access.
		got, err := verifier.Recover(sig)
		require.NoError(t, err)
		assert.NotEqual(t, address, got)
	})
}

func TestRecoverMalformed(t *testing.T) {
	verifier := identity.NewVerifier(testChallenge)

	cases := map[string]string{
		"empty":            "",
		"whitespace":       "   ",
		"bare prefix":      "0x",
		"not hex":          "0xzz",
		"too short":        "0xdeadbeef",
		"wrong length hex": "0x" + "ab",
		"bad recovery id":  "0x" + fmt.Sprintf("%0128x", 1) + "ff",
	}
	for name, sig := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := verifier.Recover(sig)
			assert.ErrorIs(t, err, identity.ErrUnverified)
			assert.Empty(t, got)
		})
	}
}

func TestRecoverWithNonce(t *testing.T) {
	verifier := identity.NewVerifier(testChallenge)
	keyHex, address := newKey(t)

	t.Run("round trip over nonced message", func(t *testing.T) {
		nonce := "8f14e45f-ceea-467f-a34e-9ade4e8e4ec4"
		sig, err := identity.Sign(keyHex, testChallenge+"."+nonce)
		require.NoError(t, err)

		got, err := verifier.RecoverWithNonce(sig, nonce)
		require.NoError(t, err)
		assert.Equal(t, address, got)
	})

	t.Run("empty nonce rejected", func(t *testing.T) {
		sig, err := identity.Sign(keyHex, testChallenge)
		require.NoError(t, err)

		_, err = verifier.RecoverWithNonce(sig, "")
		assert.ErrorIs(t, err, identity.ErrUnverified)
	})

	t.Run("fixed-mode signature does not verify against a nonce", func(t *testing.T) {
		sig, err := identity.Sign(keyHex, testChallenge)
		require.NoError(t, err)

		got, err := verifier.RecoverWithNonce(sig, "some-nonce")
		require.NoError(t, err)
		assert.NotEqual(t, address, got)
	})
}

func TestAddressOf(t *testing.T) {
	keyHex, address := newKey(t)

	got, err := identity.AddressOf(keyHex)
	require.NoError(t, err)
	assert.Equal(t, address, got)

	_, err = identity.AddressOf("not a key")
	assert.Error(t, err)
}
