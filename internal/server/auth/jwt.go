// Package auth issues and verifies the HS256 bearer tokens handed out on
// successful login. Tokens are stateless: nothing is stored server-side and
// a token stays valid until it expires.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/safevault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = time.Hour

// Claims carries the account role next to the registered claims. The
// username travels as the subject.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Token is a signed token together with its validity window, so that a
// transport can set e.g. a cookie expiry without parsing it.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer signs and verifies tokens with one symmetric key. Issuer and
// audience are optional; when set they are stamped on every token and
// required on every parsed one.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewIssuer(secret []byte, issuer, audience string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, issuer: issuer, audience: audience, ttl: ttl, now: time.Now}
}

// Issue signs a token for subject and role valid from now to now+TTL.
func (i *Issuer) Issue(subject, role string, now time.Time) (*Token, error) {
	expires := now.Add(i.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Role: role,
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	return &Token{Value: value, IssuedAt: now, ExpiresAt: expires}, nil
}

// Parse verifies the signature, algorithm, expiry and, when configured,
// issuer and audience. Expired tokens yield common.ErrTokenExpired; every
// other failure yields common.ErrInvalidToken.
func (i *Issuer) Parse(value string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	if i.audience != "" {
		opts = append(opts, jwt.WithAudience(i.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
