package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGatekeeperDisabledAllowsEverything(t *testing.T) {
	gate := NewGatekeeper("", false)

	require.NoError(t, gate.Verify(""))
	require.NoError(t, gate.Verify("anything"))
}

func TestGatekeeperEnforcedMissingKey(t *testing.T) {
	gate := NewGatekeeper("s3cret", true)

	require.ErrorIs(t, gate.Verify(""), ErrMissingAPIKey)
}

func TestGatekeeperEnforcedWrongKey(t *testing.T) {
	gate := NewGatekeeper("s3cret", true)

	require.ErrorIs(t, gate.Verify("nope"), ErrInvalidAPIKey)
}

func TestGatekeeperEnforcedCorrectKey(t *testing.T) {
	gate := NewGatekeeper("s3cret", true)

	require.NoError(t, gate.Verify("s3cret"))
}

func TestGatekeeperFailsClosedWithoutSecret(t *testing.T) {
	gate := NewGatekeeper("   ", true)

	require.ErrorIs(t, gate.Verify("anything"), ErrNotConfigured)
	require.ErrorIs(t, gate.Verify(""), ErrNotConfigured)
}

func TestGatekeeperVerifyRequest(t *testing.T) {
	gate := NewGatekeeper("s3cret", true)

	r := httptest.NewRequest("POST", "/events", nil)
	require.ErrorIs(t, gate.VerifyRequest(r), ErrMissingAPIKey)

	r.Header.Set(HeaderAPIKey, "s3cret")
	require.NoError(t, gate.VerifyRequest(r))

	r.Header.Set(HeaderAPIKey, "  s3cret  ")
	require.NoError(t, gate.VerifyRequest(r))
}
