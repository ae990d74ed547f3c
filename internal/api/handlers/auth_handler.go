package handlers

import (
	"net/http"

	"github.com/Daesol/touchgrass-sub000/internal/api/dto"
	"github.com/Daesol/touchgrass-sub000/internal/api/middleware"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/internal/domain/user"
	"github.com/Daesol/touchgrass-sub000/pkg/config"
	"github.com/Daesol/touchgrass-sub000/pkg/security/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users   user.Service
	factory *auth.ClientFactory
	oauth   *auth.OAuthService
	cfg     *config.Config
	logger  *zap.Logger
}

func NewAuthHandler(users user.Service, factory *auth.ClientFactory, oauth *auth.OAuthService, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, factory: factory, oauth: oauth, cfg: cfg, logger: logger}
}

func toUserResponse(u *user.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Provider:  u.Provider,
		CreatedAt: u.CreatedAt,
	}
}

// Register creates an account and establishes a session.
// @Summary Register a new account
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) (*response.Result, error) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, response.Validation("email and password (min 8 chars) are required")
	}

	u, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		return nil, mapDomainError(err)
	}

	client := h.factory.ForGin(c)
	if _, err := client.EstablishSession(c.Request.Context(), u.ID, u.Email); err != nil {
		h.logger.Error("Failed to establish session after register", zap.Error(err))
		return nil, err
	}

	return response.Created(toUserResponse(u)), nil
}

// Login authenticates with email and password.
// @Summary Log in
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) (*response.Result, error) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, response.Validation("email and password are required")
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		return nil, mapDomainError(err)
	}

	client := h.factory.ForGin(c)
	if _, err := client.EstablishSession(c.Request.Context(), u.ID, u.Email); err != nil {
		h.logger.Error("Failed to establish session after login", zap.Error(err))
		return nil, err
	}

	return response.OK(toUserResponse(u)), nil
}

// Logout clears the session cookie and the server-side session.
// @Summary Log out
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) (*response.Result, error) {
	client := h.factory.ForGin(c)
	if err := client.ClearSession(c.Request.Context()); err != nil {
		h.logger.Warn("Failed to clear session", zap.Error(err))
	}
	return response.OK(nil), nil
}

// Me returns the authenticated account.
// @Summary Current account
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) (*response.Result, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return nil, response.Unauthorized("authentication required")
	}

	u, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(toUserResponse(u)), nil
}

// OAuthBegin returns the provider authorization URL.
// @Summary Begin OAuth2 login
// @Router /api/auth/oauth/{provider} [get]
func (h *AuthHandler) OAuthBegin(c *gin.Context) (*response.Result, error) {
	provider := c.Param("provider")
	if provider == "" {
		return nil, response.MissingParameter("provider")
	}

	url, state, err := h.oauth.GetAuthURL(provider)
	if err != nil {
		return nil, response.BadRequest("unknown OAuth provider")
	}

	return response.OK(gin.H{"url": url, "state": state}), nil
}

// OAuthCallback completes the authorization-code flow and redirects to the
// site. Registered raw (not wrapped) because it answers with a redirect.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	provider := c.Param("provider")
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" || !auth.GetStateStore().ValidateState(state, provider) {
		c.Redirect(http.StatusFound, h.cfg.Site.BaseURL+"/login?error=oauth_failed")
		return
	}

	token, err := h.oauth.Exchange(c.Request.Context(), provider, code)
	if err != nil {
		h.logger.Error("OAuth exchange failed", zap.Error(err))
		c.Redirect(http.StatusFound, h.cfg.Site.BaseURL+"/login?error=oauth_failed")
		return
	}

	info, err := h.oauth.GetUserInfo(c.Request.Context(), provider, token)
	if err != nil {
		h.logger.Error("OAuth user info failed", zap.Error(err))
		c.Redirect(http.StatusFound, h.cfg.Site.BaseURL+"/login?error=oauth_failed")
		return
	}

	u, err := h.users.FindOrCreateOAuthUser(c.Request.Context(), provider, info.ID, info.Email)
	if err != nil {
		h.logger.Error("OAuth user resolution failed", zap.Error(err))
		c.Redirect(http.StatusFound, h.cfg.Site.BaseURL+"/login?error=oauth_failed")
		return
	}

	client := h.factory.ForGin(c)
	if _, err := client.EstablishSession(c.Request.Context(), u.ID, u.Email); err != nil {
		h.logger.Error("Failed to establish session after OAuth", zap.Error(err))
		c.Redirect(http.StatusFound, h.cfg.Site.BaseURL+"/login?error=oauth_failed")
		return
	}

	c.Redirect(http.StatusFound, h.cfg.Site.BaseURL+"/")
}
