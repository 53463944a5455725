// Package requestcontext provides HTTP-independent context accessors for call-scoped values.
//
// Middleware sets these values; the ledger runtime and program handlers read them.
// Keeping the package free of net/http lets the runtime be driven from tests, the
// HTTP transport or any other caller with the same semantics.
//
// Usage in handlers (read values):
//
//	now := requestcontext.Now(ctx)
//	signed := requestcontext.IsSigner(ctx, custodian)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithSigners(ctx, payer, custodian)
package requestcontext

import (
	"context"
	"time"

	"rwagate/pkg/domain"
)

type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	signersKey     struct{}
)

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the call-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the clock reading every handler in this call observes.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// signerSet is immutable once stored in a context.
type signerSet map[domain.Address]struct{}

// WithSigners records identities whose co-signature has been verified for this call.
// Signers already present in ctx are kept.
func WithSigners(ctx context.Context, signers ...domain.Address) context.Context {
	existing, _ := ctx.Value(signersKey{}).(signerSet)
	next := make(signerSet, len(existing)+len(signers))
	for s := range existing {
		next[s] = struct{}{}
	}
	for _, s := range signers {
		next[s] = struct{}{}
	}
	return context.WithValue(ctx, signersKey{}, next)
}

// IsSigner reports whether addr co-signed the current call.
func IsSigner(ctx context.Context, addr domain.Address) bool {
	set, _ := ctx.Value(signersKey{}).(signerSet)
	_, ok := set[addr]
	return ok
}

// Signers lists the verified signers in no particular order.
func Signers(ctx context.Context) []domain.Address {
	set, _ := ctx.Value(signersKey{}).(signerSet)
	out := make([]domain.Address, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}
