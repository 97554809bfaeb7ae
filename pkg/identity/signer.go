package identity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// Sign produces a credential for the given challenge: a hex signature over the
// personal-message hash of the challenge, with the wallet-style 27/28 recovery
// id so the output is interchangeable with browser-wallet signatures.
//
// This is a minting convenience for callers without their own signer. Handing
// a private key to any remote service defeats the scheme; prefer the offline
// CLI form.
func Sign(privateKeyHex, challenge string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}

	sig, err := crypto.Sign(accounts.TextHash([]byte(challenge)), key)
	if err != nil {
		return "", fmt.Errorf("sign challenge: %w", err)
	}
	sig[64] += 27

	return fmt.Sprintf("0x%x", sig), nil
}

// AddressOf returns the EIP-55 address for a hex private key.
func AddressOf(privateKeyHex string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}
