// Package signing issues and verifies co-signature tokens.
//
// A co-signature is an EdDSA JWT whose subject is the signer's base58 address.
// Addresses are ed25519 public keys, so the subject alone yields the verification
// key. The body_sha256 claim binds a token to one request body.
package signing

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
)

// Audience is the only audience a co-signature may carry.
const Audience = "rwagate"

// DefaultMaxAge bounds a token's lifetime from issue to expiry.
const DefaultMaxAge = 5 * time.Minute

// Claims are the co-signature token claims.
type Claims struct {
	BodySHA256 string `json:"body_sha256"`
	jwt.RegisteredClaims
}

// BodyDigest returns the hex sha256 of a request body.
func BodyDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// AddressOf returns the identity of a signing key.
func AddressOf(key ed25519.PrivateKey) domain.Address {
	var a domain.Address
	copy(a[:], key.Public().(ed25519.PublicKey))
	return a
}

// Sign issues a co-signature over body valid for ttl from now.
func Sign(key ed25519.PrivateKey, body []byte, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, Claims{
		BodySHA256: BodyDigest(body),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   AddressOf(key).String(),
			Audience:  []string{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(key)
}

// Verifier validates co-signature tokens.
type Verifier struct {
	maxAge time.Duration
	now    func() time.Time
}

type VerifierOption func(*Verifier)

func WithMaxAge(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.maxAge = d
	}
}

func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{maxAge: DefaultMaxAge, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks token against body and returns the signer's address.
func (v *Verifier) Verify(token string, body []byte) (domain.Address, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		c, ok := t.Claims.(*Claims)
		if !ok {
			return nil, jwt.ErrTokenInvalidClaims
		}
		signer, err := domain.ParseAddress(c.Subject)
		if err != nil {
			return nil, jwt.ErrTokenInvalidSubject
		}
		return ed25519.PublicKey(signer.Bytes()), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Address{}, dErrors.New(dErrors.CodeUnauthorized, "co-signature has expired")
		}
		return domain.Address{}, dErrors.New(dErrors.CodeUnauthorized, "invalid co-signature")
	}
	if !parsed.Valid {
		return domain.Address{}, dErrors.New(dErrors.CodeUnauthorized, "invalid co-signature")
	}
	if claims.IssuedAt == nil || claims.ExpiresAt.Sub(claims.IssuedAt.Time) > v.maxAge {
		return domain.Address{}, dErrors.New(dErrors.CodeUnauthorized, "co-signature lifetime exceeds maximum")
	}
	if claims.BodySHA256 != BodyDigest(body) {
		return domain.Address{}, dErrors.New(dErrors.CodeUnauthorized, "co-signature does not cover this request")
	}
	signer, err := domain.ParseAddress(claims.Subject)
	if err != nil {
		return domain.Address{}, dErrors.New(dErrors.CodeUnauthorized, "invalid co-signature subject")
	}
	return signer, nil
}
