package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/safevault/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("super-secret"), "safevault", "safevault-clients", time.Hour)
	now := time.Now()

	tok, err := iss.Issue("alice", "Admin", now)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, tok.ExpiresAt.Sub(tok.IssuedAt))
	assert.Equal(t, 3, len(strings.Split(tok.Value, ".")))

	claims, err := iss.Parse(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "safevault", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"safevault-clients"}, claims.Audience)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	t.Parallel()
	now := time.Now().Truncate(time.Second)
	tok, err := NewIssuer([]byte("k"), "", "", 0).Issue("alice", "User", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(DefaultTTL), tok.ExpiresAt)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("secret"), "", "", time.Hour)
	tok, err := iss.Issue("u1", "User", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = iss.Parse(tok.Value)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer([]byte("right-secret"), "", "", time.Hour).Issue("u2", "User", time.Now())
	require.NoError(t, err)

	_, err = NewIssuer([]byte("wrong-secret"), "", "", time.Hour).Parse(tok.Value)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer([]byte("k"), "other", "other-aud", time.Hour).Issue("u3", "User", time.Now())
	require.NoError(t, err)

	_, err = NewIssuer([]byte("k"), "safevault", "", time.Hour).Parse(tok.Value)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = NewIssuer([]byte("k"), "", "safevault-clients", time.Hour).Parse(tok.Value)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "mallory",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "Admin",
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	iss := NewIssuer([]byte("k"), "", "", time.Hour)
	_, err = iss.Parse(none)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	_, err = iss.Parse(hs512)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_MissingExpiry(t *testing.T) {
	t.Parallel()

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "forever"},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewIssuer([]byte("k"), "", "", time.Hour).Parse(value)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer([]byte("k"), "", "", time.Hour).Parse("not.a.jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
