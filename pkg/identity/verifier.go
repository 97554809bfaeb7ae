// Package identity recovers caller identities from signatures over the
// server's challenge message.
//
// The scheme is Ethereum personal-message signing: clients sign the fixed
// challenge string, the server recovers whichever address is mathematically
// consistent with the signature and trusts that value. There is no account
// registry; the recovered address IS the identity.
package identity

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrUnverified is returned for every recovery failure: missing credential,
// malformed hex, wrong length, or a signature that does not recover.
// Causes are deliberately not distinguished so the wire surface leaks nothing
// about why a credential was rejected.
var ErrUnverified = errors.New("identity: credential could not be verified")

// signatureLength is the raw byte length of a secp256k1 [R || S || V] signature.
const signatureLength = 65

// Verifier recovers identities from signatures over a fixed challenge message.
// It is stateless apart from the challenge and safe for concurrent use.
type Verifier struct {
	challenge []byte
}

// NewVerifier creates a Verifier for the given challenge message.
func NewVerifier(challenge string) *Verifier {
	return &Verifier{challenge: []byte(challenge)}
}

// Recover returns the EIP-55 address that produced signature over the
// challenge message. Any failure yields ErrUnverified.
func (v *Verifier) Recover(signature string) (string, error) {
	return v.recover(signature, v.challenge)
}

// RecoverWithNonce recovers the address from a signature over
// challenge + "." + nonce. The caller is responsible for nonce bookkeeping;
// this only changes the signed text.
func (v *Verifier) RecoverWithNonce(signature, nonce string) (string, error) {
	if nonce == "" {
		return "", ErrUnverified
	}
	msg := make([]byte, 0, len(v.challenge)+1+len(nonce))
	msg = append(msg, v.challenge...)
	msg = append(msg, '.')
	msg = append(msg, nonce...)
	return v.recover(signature, msg)
}

func (v *Verifier) recover(signature string, message []byte) (string, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return "", ErrUnverified
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return "", ErrUnverified
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// decodeSignature parses a hex signature (0x prefix optional) and normalizes
// the recovery id: wallets emit V as 27/28, secp256k1 wants 0/1.
func decodeSignature(signature string) ([]byte, error) {
	s := strings.TrimSpace(signature)
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, errors.New("empty signature")
	}

	sig, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(sig) != signatureLength {
		return nil, errors.New("signature must be 65 bytes")
	}
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return nil, errors.New("invalid recovery id")
	}
	return sig, nil
}
