// Package cosign verifies co-signature headers and records the signers on the
// request context. Handlers never see a request whose co-signatures failed.
package cosign

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"rwagate/pkg/domain"
	dErrors "rwagate/pkg/domain-errors"
	"rwagate/pkg/platform/httputil"
	pstrings "rwagate/pkg/platform/strings"
	"rwagate/pkg/requestcontext"
)

// Header carries one co-signature token. It may repeat.
const Header = "X-Cosign"

// Verifier checks one token against the raw request body.
type Verifier interface {
	Verify(token string, body []byte) (domain.Address, error)
}

// Middleware verifies every X-Cosign header against the request body. A request
// with no co-signatures passes through with no signers; a single bad token
// rejects the whole request with 401.
func Middleware(verifier Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokens := pstrings.DedupeAndTrim(r.Header.Values(Header))
			if len(tokens) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, httputil.MaxBodyBytes))
			if err != nil {
				logger.WarnContext(ctx, "failed to read co-signed body",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
				return
			}

			signers := make([]domain.Address, 0, len(tokens))
			for _, token := range tokens {
				signer, err := verifier.Verify(token, body)
				if err != nil {
					logger.WarnContext(ctx, "co-signature rejected",
						"request_id", requestcontext.RequestID(ctx),
						"error", err,
					)
					if dErrors.CodeOf(err) != dErrors.CodeUnauthorized {
						err = dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid co-signature")
					}
					httputil.WriteError(w, err)
					return
				}
				signers = append(signers, signer)
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
			ctx = requestcontext.WithSigners(ctx, signers...)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
