// Package httpapi exposes the claim service over HTTP.
//
// Route paths and the raw-signature Authorization header are kept compatible
// with existing clients of the service. Result states map to wire codes as:
// ok 200, unauthorized (authn and authz alike) 401, not-found 404,
// validation 400, storage 500.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kumandra/claimd/pkg/claim"
	"github.com/kumandra/claimd/pkg/identity"
)

// nonceHeader switches a request into the nonce auth mode; the signature must
// then cover challenge + "." + nonce.
const nonceHeader = "X-Claim-Nonce"

// Server holds the HTTP handler state.
type Server struct {
	service *claim.Service

	// challenge is only retained for the opt-in signer endpoint.
	challenge    string
	enableSigner bool
}

// Options configures optional server surfaces.
type Options struct {
	// EnableSigner exposes POST /sign. See config.Config.EnableSigner.
	EnableSigner bool

	// Challenge is the fixed challenge message, needed by the signer endpoint.
	Challenge string
}

// NewServer creates the HTTP server around the claim service.
func NewServer(service *claim.Service, opts Options) *Server {
	return &Server{
		service:      service,
		challenge:    opts.Challenge,
		enableSigner: opts.EnableSigner,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(permissiveCORS)

	r.Post("/auth/challenge", s.handleChallenge)
	r.Get("/claims/user", s.handleListUser)
	r.Get("/claims/org", s.handleListOrg)
	r.Post("/claims/create", s.handleCreate)
	r.Post("/claims/delete", s.handleDelete)
	if s.enableSigner {
		r.Post("/sign", s.handleSign)
	}
	return r
}

// credential extracts the authorization material from a request. The
// Authorization header carries the raw signature; a "Signature " scheme
// prefix is tolerated.
func credential(r *http.Request) claim.Credential {
	sig := strings.TrimSpace(r.Header.Get("Authorization"))
	sig = strings.TrimPrefix(sig, "Signature ")
	return claim.Credential{
		Signature: sig,
		Nonce:     strings.TrimSpace(r.Header.Get(nonceHeader)),
	}
}

func (s *Server) handleChallenge(w http.ResponseWriter, _ *http.Request) {
	nonce, ttl, err := s.service.IssueNonce()
	if err != nil {
		writeError(w, http.StatusNotFound, "Nonce mode not enabled")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nonce":     nonce,
		"expiresIn": int64(ttl.Seconds()),
	})
}

func (s *Server) handleListUser(w http.ResponseWriter, r *http.Request) {
	claims, err := s.service.ListBySubject(r.Context(), credential(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

func (s *Server) handleListOrg(w http.ResponseWriter, r *http.Request) {
	claims, err := s.service.ListByAttester(r.Context(), credential(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input claim.Claim
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	input.ID = ""

	stored, err := s.service.Create(r.Context(), credential(r), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.Delete(r.Context(), credential(r), body.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "Success", "message": "Claim deleted"})
}

// handleSign mints a credential from a raw private key. Only wired when the
// signer is explicitly enabled; shipping private keys to a server is a trust
// liability, so deployments should prefer the offline CLI.
func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PrivateKey string `json:"privateKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sig, err := identity.Sign(body.PrivateKey, s.challenge)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid private key")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"signature": sig})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, claim.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, claim.ErrNotFound):
		writeError(w, http.StatusNotFound, "Target not found")
	case errors.Is(err, claim.ErrInvalid):
		writeError(w, http.StatusBadRequest, "Invalid claim")
	case errors.Is(err, claim.ErrStorage):
		log.Printf("claim storage failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
	default:
		log.Printf("claim operation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": "Error", "message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
