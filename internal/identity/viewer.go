// Package identity carries the signed-in user through a request and resolves
// which notification audience that user belongs to.
package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
	"storefront/internal/response"
)

// HeaderViewerID is set by the upstream session layer.
const HeaderViewerID = "X-Viewer-ID"

type Viewer struct {
	UserID string
}

type viewerKey struct{}

func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

func FromContext(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(Viewer)
	return v, ok
}

// Middleware attaches the viewer named by HeaderViewerID, if any.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(HeaderViewerID)); id != "" {
			r = r.WithContext(WithViewer(r.Context(), Viewer{UserID: id}))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireViewer rejects requests that reached it without a viewer.
func RequireViewer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				traceID := uuid.New().String()
				response.WriteError(w, logger.With(zap.String("traceId", traceID)), traceID,
					apperrors.NewForbiddenError("a signed-in viewer is required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
