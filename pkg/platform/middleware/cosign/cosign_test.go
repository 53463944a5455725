package cosign

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwagate/internal/ledger/signing"
	"rwagate/pkg/domain"
	"rwagate/pkg/requestcontext"
)

type captured struct {
	called  bool
	body    string
	signers []domain.Address
}

func newCosignHandler(t *testing.T, now time.Time) (http.Handler, *captured) {
	t.Helper()
	got := &captured{}
	verifier := signing.NewVerifier(signing.WithClock(func() time.Time { return now }))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Middleware(verifier, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.called = true
		raw, _ := io.ReadAll(r.Body)
		got.body = string(raw)
		got.signers = requestcontext.Signers(r.Context())
	}))
	return h, got
}

func newKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return key
}

func TestMiddleware(t *testing.T) {
	now := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	body := `{"custodian":"x","valuation":2000}`
	payer, custodian := newKey(t), newKey(t)

	sign := func(key ed25519.PrivateKey, signed string) string {
		token, err := signing.Sign(key, []byte(signed), now, time.Minute)
		require.NoError(t, err)
		return token
	}
	request := func(tokens ...string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/v1/assets", strings.NewReader(body))
		for _, tok := range tokens {
			req.Header.Add(Header, tok)
		}
		return req
	}

	t.Run("no co-signatures passes through unsigned", func(t *testing.T) {
		h, got := newCosignHandler(t, now)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, request())
		require.True(t, got.called)
		assert.Empty(t, got.signers)
		assert.Equal(t, body, got.body)
	})

	t.Run("every valid signer is recorded and the body is restored", func(t *testing.T) {
		h, got := newCosignHandler(t, now)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, request(sign(payer, body), sign(custodian, body)))
		require.True(t, got.called)
		assert.ElementsMatch(t, []domain.Address{signing.AddressOf(payer), signing.AddressOf(custodian)}, got.signers)
		assert.Equal(t, body, got.body)
	})

	t.Run("a token over a different body rejects the request", func(t *testing.T) {
		h, got := newCosignHandler(t, now)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, request(sign(payer, body), sign(custodian, `{"valuation":1}`)))
		assert.False(t, got.called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		h, got := newCosignHandler(t, now.Add(time.Hour))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, request(sign(payer, body)))
		assert.False(t, got.called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		h, got := newCosignHandler(t, now)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, request("not-a-jwt"))
		assert.False(t, got.called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "unauthorized")
	})
}
