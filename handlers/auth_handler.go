package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/middleware"
	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/utils"
)

// Authenticator checks login credentials
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// TokenMinter issues session tokens
type TokenMinter interface {
	Mint(subject, email string, role authz.Role) (string, error)
}

// LoginRequest is the request body for POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response body for a successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CurrentUserResponse is the response body for GET /api/v1/auth/me
type CurrentUserResponse struct {
	Sub    string     `json:"sub"`
	Email  string     `json:"email"`
	Role   authz.Role `json:"role"`
	Grants []string   `json:"grants"`
}

// AuthHandler handles login and session introspection
type AuthHandler struct {
	users    Authenticator
	tokens   TokenMinter
	tokenTTL time.Duration
	secure   bool
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. secure controls the Secure
// flag on the session cookie and should be true outside development.
func NewAuthHandler(users Authenticator, tokens TokenMinter, tokenTTL time.Duration, secure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		secure:   secure,
		logger:   logger,
	}
}

// HandleLogin handles POST /api/v1/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleDecodeError(w, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	token, err := h.tokens.Mint(user.ID.String(), user.Email, user.Role)
	if err != nil {
		h.logger.Error("failed to mint session token", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Could not create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("login successful",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	_ = utils.WriteOK(w, LoginResponse{Token: token, User: user})
}

// HandleLogout handles POST /api/v1/auth/logout by expiring the cookie
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	utils.WriteNoContent(w)
}

// HandleMe handles GET /api/v1/auth/me and reports the caller's
// identity and effective grants, which the dashboard uses to decide
// what to render.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.ClaimsFromContext(ctx)
	session := middleware.SessionFromContext(ctx)
	if claims == nil || session == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	grants := session.Grants()
	names := make([]string, 0, len(grants))
	for _, g := range grants {
		names = append(names, g.Resource.String()+":"+g.Action.String())
	}
	sort.Strings(names)

	_ = utils.WriteOK(w, CurrentUserResponse{
		Sub:    claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
		Grants: names,
	})
}
