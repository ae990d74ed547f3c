package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Daesol/touchgrass-sub000/pkg/config"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/Daesol/touchgrass-sub000/pkg/security/cookies"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrReadOnlySession is returned when a session mutation is attempted from a
// rendering context that may not write cookies.
var ErrReadOnlySession = errors.New("auth: session is read-only in this context")

// Principal identifies the authenticated caller of a request.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// SessionManager is the server-side session surface the session client
// depends on. *SessionStore is the production implementation.
type SessionManager interface {
	Create(ctx context.Context, userID uuid.UUID, token string) (*Session, error)
	Get(ctx context.Context, token string) (*Session, bool, error)
	Touch(ctx context.Context, token string)
	Rotate(ctx context.Context, oldToken, newToken string) error
	Invalidate(ctx context.Context, token string) error
}

// ClientFactory builds request-scoped session clients. Each hosting context
// gets a client bound to the cookie-access strategy it is allowed to use:
// read-only for rendering, read-write for actions and middleware.
type ClientFactory struct {
	codec    *cookies.Codec
	sessions SessionManager
	cfg      *config.Config
	log      *logger.Logger
}

// NewClientFactory creates the session client factory.
func NewClientFactory(cfg *config.Config, sessions SessionManager, log *logger.Logger) *ClientFactory {
	return &ClientFactory{
		codec:    cookies.NewCodec(cookies.WithMaxFragments(cfg.Session.MaxFragments)),
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

func (f *ClientFactory) cookieOptions() cookies.Options {
	return cookies.Options{
		Path:     f.cfg.Session.CookiePath,
		Domain:   f.cfg.Session.CookieDomain,
		Secure:   f.cfg.Session.Secure,
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   time.Duration(f.cfg.Session.MaxAgeHours) * time.Hour,
	}
}

// ForRequest returns a read-only session client for rendering contexts.
func (f *ClientFactory) ForRequest(r *http.Request) *SessionClient {
	return f.newClient(cookies.NewRequestJar(r, f.log), false)
}

// ForAction returns a writable session client for form/API action contexts.
func (f *ClientFactory) ForAction(r *http.Request, w http.ResponseWriter) *SessionClient {
	return f.newClient(cookies.NewResponseJar(r, w, f.cookieOptions()), true)
}

// ForGin returns a writable session client over a gin request/response pair.
func (f *ClientFactory) ForGin(c *gin.Context) *SessionClient {
	return f.ForAction(c.Request, c.Writer)
}

func (f *ClientFactory) newClient(jar cookies.Jar, writable bool) *SessionClient {
	return &SessionClient{
		codec:    f.codec,
		jar:      jar,
		writable: writable,
		sessions: f.sessions,
		cfg:      f.cfg,
		log:      f.log,
	}
}

// SessionClient authenticates the current request and manages its session
// cookie. The session cookie goes through the fragment codec; every other
// cookie is untouched.
type SessionClient struct {
	codec    *cookies.Codec
	jar      cookies.Jar
	writable bool
	sessions SessionManager
	cfg      *config.Config
	log      *logger.Logger
}

// Token returns the raw session token from the cookie jar, reassembling
// fragments if needed. Decode failures degrade to an empty token.
func (sc *SessionClient) Token() string {
	token, err := sc.codec.Decode(sc.cfg.Session.CookieName, sc.jar)
	if err != nil {
		sc.log.Warn("Failed to decode session cookie", zap.Error(err))
		return ""
	}
	return token
}

// CurrentUser resolves the authenticated principal for this request. It
// returns (nil, nil) when no valid session exists; errors are reserved for
// infrastructure failures such as an unreachable session store. The lookup
// is bounded by the configured session timeout since it sits on the critical
// path of every protected request.
func (sc *SessionClient) CurrentUser(ctx context.Context) (*Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, sc.cfg.Auth.SessionTimeout)
	defer cancel()

	token := sc.Token()
	if token == "" {
		return nil, nil
	}

	claims, err := ValidateToken(token, sc.cfg.Auth.JWTSecret)
	if err != nil {
		sc.log.Warn("Session token validation failed", zap.Error(err))
		return nil, nil
	}

	session, ok, err := sc.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	if session.UserID != claims.UserID {
		sc.log.Warn("Session user mismatch",
			zap.String("session_user", session.UserID.String()),
			zap.String("token_user", claims.UserID.String()))
		return nil, nil
	}

	sc.sessions.Touch(ctx, token)

	if sc.writable && NeedsRefresh(claims, 6*time.Hour) {
		if err := sc.refresh(ctx, token, claims); err != nil {
			sc.log.Warn("Session refresh failed", zap.Error(err))
		}
	}

	return &Principal{ID: claims.UserID, Email: claims.Email}, nil
}

func (sc *SessionClient) refresh(ctx context.Context, oldToken string, claims *Claims) error {
	newToken, err := GenerateToken(
		claims.UserID,
		claims.Email,
		sc.cfg.Auth.JWTSecret,
		sc.cfg.Auth.JWTIssuer,
		sc.cfg.Auth.JWTExpiryHours,
	)
	if err != nil {
		return err
	}

	if err := sc.sessions.Rotate(ctx, oldToken, newToken); err != nil {
		return err
	}

	return sc.codec.Encode(
		sc.cfg.Session.CookieName, newToken, sc.cfg.Session.ChunkSize, sc.jar)
}

// EstablishSession creates a server-side session for the user and writes the
// session cookie, fragmenting it when the token exceeds the chunk size.
func (sc *SessionClient) EstablishSession(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	if !sc.writable {
		return "", ErrReadOnlySession
	}

	token, err := GenerateToken(
		userID, email,
		sc.cfg.Auth.JWTSecret,
		sc.cfg.Auth.JWTIssuer,
		sc.cfg.Auth.JWTExpiryHours,
	)
	if err != nil {
		return "", err
	}

	if _, err := sc.sessions.Create(ctx, userID, token); err != nil {
		return "", err
	}

	if err := sc.codec.Encode(
		sc.cfg.Session.CookieName, token, sc.cfg.Session.ChunkSize, sc.jar); err != nil {
		return "", err
	}

	return token, nil
}

// ClearSession invalidates the server-side session and removes the session
// cookie in both representations.
func (sc *SessionClient) ClearSession(ctx context.Context) error {
	if !sc.writable {
		return ErrReadOnlySession
	}

	if token := sc.Token(); token != "" {
		if err := sc.sessions.Invalidate(ctx, token); err != nil {
			sc.log.Warn("Failed to invalidate session", zap.Error(err))
		}
	}

	sc.codec.Delete(sc.cfg.Session.CookieName, sc.jar)
	return nil
}
