package authhandlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	authdomain "github.com/hirelane/engage/app/modules/auth/domain"
	authjwt "github.com/hirelane/engage/app/modules/auth/infrastructure/jwt"
)

const maxTokenTTL = 30 * 24 * time.Hour

// TokenHandlers mints tokens for internal callers.
type TokenHandlers struct {
	provider authjwt.Provider
}

func NewTokenHandlers(provider authjwt.Provider) *TokenHandlers {
	return &TokenHandlers{provider: provider}
}

type IssueTokenInput struct {
	Body struct {
		UserID     int64  `json:"user_id" doc:"Subject of the token; 0 for service tokens" minimum:"0"`
		Role       string `json:"role" enum:"seeker,employer,admin,service" doc:"Role carried by the token"`
		TTLSeconds int    `json:"ttl_seconds,omitempty" minimum:"60" doc:"Lifetime, defaults to one hour"`
	}
}

type IssueTokenOutput struct {
	Body struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
}

// HandleIssueToken signs a token. Only admins may call it.
func (h *TokenHandlers) HandleIssueToken(ctx context.Context, input *IssueTokenInput) (*IssueTokenOutput, error) {
	ttl := time.Hour
	if input.Body.TTLSeconds > 0 {
		ttl = time.Duration(input.Body.TTLSeconds) * time.Second
	}
	if ttl > maxTokenTTL {
		return nil, huma.Error422UnprocessableEntity("ttl_seconds exceeds 30 days")
	}

	token, err := h.provider.GenerateToken(input.Body.UserID, authdomain.Role(input.Body.Role), ttl)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	out := &IssueTokenOutput{}
	out.Body.Token = token
	out.Body.ExpiresAt = time.Now().Add(ttl).UTC()
	return out, nil
}

// Register adds the token routes to api.
func (h *TokenHandlers) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "issue-token",
		Method:        http.MethodPost,
		Path:          "/api/auth/tokens",
		Summary:       "Issue an access token",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, h.HandleIssueToken, Secured(authdomain.RoleAdmin))
}
