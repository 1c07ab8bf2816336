package authhandlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/danielgtaylor/huma/v2"
	authdomain "github.com/hirelane/engage/app/modules/auth/domain"
	authjwt "github.com/hirelane/engage/app/modules/auth/infrastructure/jwt"
)

// BearerScheme is the name of the OpenAPI security scheme.
const BearerScheme = "bearer"

type claimsKey struct{}

// SecuritySchemes returns the OpenAPI components for bearer tokens.
func SecuritySchemes() map[string]*huma.SecurityScheme {
	return map[string]*huma.SecurityScheme{
		BearerScheme: {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
}

// Secured marks an operation as requiring a bearer token. Roles, when
// given, restrict which callers are allowed.
func Secured(roles ...authdomain.Role) func(o *huma.Operation) {
	scopes := make([]string, 0, len(roles))
	for _, r := range roles {
		scopes = append(scopes, r.String())
	}
	return func(o *huma.Operation) {
		o.Security = []map[string][]string{{BearerScheme: scopes}}
	}
}

// NewAuthMiddleware validates bearer tokens on operations that declare the
// bearer scheme and stores the claims on the request context.
func NewAuthMiddleware(api huma.API, provider authjwt.Provider, logger *slog.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		roles, secured := requiredRoles(ctx.Operation())
		if !secured {
			next(ctx)
			return
		}

		token, ok := strings.CutPrefix(ctx.Header("Authorization"), "Bearer ")
		if !ok || token == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := provider.ValidateToken(token)
		if err != nil {
			logger.WarnContext(ctx.Context(), "Rejected bearer token",
				attr.String("operation", ctx.Operation().OperationID),
				attr.Error(err),
			)
			msg := "invalid token"
			if errors.Is(err, authjwt.ErrExpiredToken) {
				msg = "token has expired"
			}
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, msg)
			return
		}

		if !claims.HasAnyRole(roles...) {
			_ = huma.WriteErr(api, ctx, http.StatusForbidden, "role not allowed")
			return
		}

		next(huma.WithValue(ctx, claimsKey{}, claims))
	}
}

func requiredRoles(op *huma.Operation) ([]string, bool) {
	if op == nil {
		return nil, false
	}
	for _, req := range op.Security {
		if scopes, ok := req[BearerScheme]; ok {
			return scopes, true
		}
	}
	return nil, false
}

// ClaimsFromContext returns the claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*authdomain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authdomain.Claims)
	return claims, ok && claims != nil
}

// WithClaims stores claims on ctx. Used by tests and internal callers.
func WithClaims(ctx context.Context, claims *authdomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// RequireActFor returns a 403 unless the caller may act for userID.
func RequireActFor(ctx context.Context, userID int64) error {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return huma.Error401Unauthorized("missing credentials")
	}
	if !claims.CanActFor(userID) {
		return huma.Error403Forbidden("cannot access another user's data")
	}
	return nil
}
