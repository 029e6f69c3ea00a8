package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// HeaderAPIKey is the request header carrying the ingestion credential.
const HeaderAPIKey = "X-API-Key"

var (
	ErrMissingAPIKey = errors.New("missing api key")
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrNotConfigured means enforcement is on but no secret is configured.
	// This fails closed: a missing secret is never treated as "no auth".
	ErrNotConfigured = errors.New("api key enforcement enabled but no key configured")
)

// Gatekeeper validates caller credentials for mutating operations. The mode
// is fixed at process start and the check is stateless per request.
type Gatekeeper struct {
	secret  string
	require bool
}

func NewGatekeeper(secret string, require bool) *Gatekeeper {
	return &Gatekeeper{secret: strings.TrimSpace(secret), require: require}
}

// Verify checks a caller-supplied key. With enforcement disabled every
// request is allowed; this mode exists for local development only.
func (g *Gatekeeper) Verify(provided string) error {
	if !g.require {
		return nil
	}
	if g.secret == "" {
		return ErrNotConfigured
	}
	if provided == "" {
		return ErrMissingAPIKey
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(g.secret)) != 1 {
		return ErrInvalidAPIKey
	}
	return nil
}

// VerifyRequest checks the X-API-Key header of an incoming request.
func (g *Gatekeeper) VerifyRequest(r *http.Request) error {
	if r == nil {
		return ErrMissingAPIKey
	}
	return g.Verify(strings.TrimSpace(r.Header.Get(HeaderAPIKey)))
}
