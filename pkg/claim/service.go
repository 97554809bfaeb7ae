package claim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kumandra/claimd/pkg/identity"
)

// Credential is the authorization material a request carries: a signature
// over the challenge message, and optionally a single-use nonce when the
// caller opts into the nonce mode (the signature then covers
// challenge + "." + nonce).
type Credential struct {
	Signature string
	Nonce     string
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// RequireNonce rejects fixed-challenge credentials, forcing every request
	// through the single-use nonce mode.
	RequireNonce bool
}

// Service exposes the claim operations. Every operation verifies the caller's
// credential, consults the policy, and only then touches storage.
type Service struct {
	verifier *identity.Verifier
	nonces   *identity.NonceCache
	store    Store
	config   ServiceConfig
}

// NewService creates a Service around the given collaborators. nonces may be
// nil when the nonce mode is not offered.
func NewService(verifier *identity.Verifier, nonces *identity.NonceCache, store Store, config ServiceConfig) *Service {
	return &Service{
		verifier: verifier,
		nonces:   nonces,
		store:    store,
		config:   config,
	}
}

// resolve turns a credential into an identity, or ErrUnauthorized. Nonces are
// consumed before recovery, so a replayed nonce fails even with a valid
// signature.
func (s *Service) resolve(cred Credential) (string, error) {
	if cred.Nonce != "" {
		if s.nonces == nil || !s.nonces.Consume(cred.Nonce) {
			return "", ErrUnauthorized
		}
		id, err := s.verifier.RecoverWithNonce(cred.Signature, cred.Nonce)
		if err != nil {
			return "", ErrUnauthorized
		}
		return id, nil
	}

	if s.config.RequireNonce {
		return "", ErrUnauthorized
	}
	id, err := s.verifier.Recover(cred.Signature)
	if err != nil {
		return "", ErrUnauthorized
	}
	return id, nil
}

// ListBySubject returns all claims whose subject is the caller.
func (s *Service) ListBySubject(ctx context.Context, cred Credential) ([]Claim, error) {
	id, err := s.resolve(cred)
	if err != nil {
		return nil, err
	}
	if !Authorize(id, OpListSubject, nil) {
		return nil, ErrUnauthorized
	}

	claims, err := s.store.FindBySubject(ctx, id)
	if err != nil {
		return nil, WrapError(ErrCodeStorage, "list claims by subject", err)
	}
	return claims, nil
}

// ListByAttester returns all claims whose attester is the caller.
func (s *Service) ListByAttester(ctx context.Context, cred Credential) ([]Claim, error) {
	id, err := s.resolve(cred)
	if err != nil {
		return nil, err
	}
	if !Authorize(id, OpListAttester, nil) {
		return nil, ErrUnauthorized
	}

	claims, err := s.store.FindByAttester(ctx, id)
	if err != nil {
		return nil, WrapError(ErrCodeStorage, "list claims by attester", err)
	}
	return claims, nil
}

// Create persists a new claim. Only the claim's subject may create it; the
// attester is accepted as an opaque string and is not checked for existence.
func (s *Service) Create(ctx context.Context, cred Credential, input Claim) (Claim, error) {
	id, err := s.resolve(cred)
	if err != nil {
		return Claim{}, err
	}
	if !Authorize(id, OpCreate, &input) {
		return Claim{}, ErrUnauthorized
	}

	stored, err := s.store.Insert(ctx, input)
	if err != nil {
		if errors.Is(err, ErrInvalidClaim) {
			return Claim{}, WrapError(ErrCodeInvalid, "create claim", err)
		}
		return Claim{}, WrapError(ErrCodeStorage, "create claim", err)
	}
	return stored, nil
}

// Delete removes the claim with the given id. Either the subject or the
// attester of the record may delete it. A missing record is ErrNotFound,
// which is reported distinctly from denial.
func (s *Service) Delete(ctx context.Context, cred Credential, claimID string) error {
	id, err := s.resolve(cred)
	if err != nil {
		return err
	}

	existing, err := s.store.FindByID(ctx, claimID)
	if err != nil {
		return WrapError(ErrCodeStorage, "look up claim", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if !Authorize(id, OpDelete, existing) {
		return ErrUnauthorized
	}

	deleted, err := s.store.DeleteByID(ctx, claimID)
	if err != nil {
		return WrapError(ErrCodeStorage, "delete claim", err)
	}
	if !deleted {
		// Lost a race with a concurrent delete of the same id.
		return ErrNotFound
	}
	return nil
}

// IssueNonce mints a nonce for the nonce auth mode and reports its validity
// window.
func (s *Service) IssueNonce() (string, time.Duration, error) {
	if s.nonces == nil {
		return "", 0, fmt.Errorf("nonce mode is not enabled")
	}
	return s.nonces.Issue(), s.nonces.TTL(), nil
}
