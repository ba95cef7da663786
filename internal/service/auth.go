package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iliyamo/internship-portal/internal/metrics"
	"github.com/iliyamo/internship-portal/internal/model"
	"github.com/iliyamo/internship-portal/internal/queue"
	"github.com/iliyamo/internship-portal/internal/utils"
)

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the result of a successful login.
type Session struct {
	TokenPair
	User *model.Principal `json:"user"`
}

// AuthDeps groups the collaborators of Auth.  Denylist may be nil, in
// which case logout is a client-side discard.  An empty AdminToken
// disables the admin registration and login path.
type AuthDeps struct {
	Directory  *Directory
	Hasher     utils.Hasher
	Issuer     utils.Issuer
	Verifier   utils.Verifier
	Denylist   utils.Denylist
	AdminToken string
	Events     EventPublisher
	Metrics    metrics.Recorder
	Logger     *slog.Logger
}

// Auth runs registration, login, refresh and logout.
type Auth struct {
	dir        *Directory
	hasher     utils.Hasher
	issuer     utils.Issuer
	verifier   utils.Verifier
	denylist   utils.Denylist
	adminToken []byte
	metrics    metrics.Recorder
	logger     *slog.Logger
	emitter
}

func NewAuth(d AuthDeps) *Auth {
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Auth{
		dir:        d.Directory,
		hasher:     d.Hasher,
		issuer:     d.Issuer,
		verifier:   d.Verifier,
		denylist:   d.Denylist,
		adminToken: []byte(d.AdminToken),
		metrics:    d.Metrics,
		logger:     d.Logger,
		emitter:    newEmitter(d.Events, d.Metrics, d.Logger),
	}
}

// Register creates the user and then its profile.  When the profile step
// fails the user row stays behind without a profile and the error is
// returned; RepairProfiles can finish the job later.  Cancelling ctx does
// not interrupt the steps.
func (a *Auth) Register(ctx context.Context, reg model.Registration) (*model.Principal, error) {
	ctx, cancel := detach(ctx)
	defer cancel()

	u, err := a.dir.CreateUser(ctx, reg)
	if err != nil {
		return nil, err
	}
	p, err := a.dir.CreateProfile(ctx, u)
	if err != nil {
		a.logger.Error("profile step of registration failed", "user_id", u.ID, "err", err)
		return nil, err
	}
	pid := p.ID()
	u.ProfileID = &pid

	a.emit(ctx, queue.NewEvent(queue.UserRegistered, u.ID, 0, map[string]string{"userType": string(u.UserType)}))
	return model.NewPrincipal(u, &p), nil
}

// Login checks the credentials and mints a token pair.  Unknown emails and
// wrong passwords produce the same error, and both spend one bcrypt
// comparison.
func (a *Auth) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := a.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, a.loginFailed(err)
	}
	return a.startSession(ctx, u, a.metrics.RecordLogin)
}

func (a *Auth) checkCredentials(ctx context.Context, email, password string) (model.User, error) {
	u, err := a.dir.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.hasher.Verify(password, "")
			return model.User{}, model.ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !a.hasher.Verify(password, u.PasswordHash) {
		return model.User{}, model.ErrInvalidCredentials
	}
	if !u.IsActive {
		return model.User{}, model.ErrInactiveAccount
	}
	return u, nil
}

func (a *Auth) loginFailed(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, model.ErrForbidden):
		a.metrics.RecordLogin(metrics.OutcomeRejected)
	case errors.Is(err, model.ErrInactiveAccount):
		a.metrics.RecordLogin(metrics.OutcomeInactive)
	default:
		a.metrics.RecordLogin(metrics.OutcomeError)
	}
	return err
}

func (a *Auth) startSession(ctx context.Context, u model.User, record func(string)) (*Session, error) {
	pair, err := a.mint(u)
	if err != nil {
		record(metrics.OutcomeError)
		return nil, err
	}
	p, err := a.dir.principal(ctx, u)
	if err != nil {
		record(metrics.OutcomeError)
		return nil, err
	}
	record(metrics.OutcomeSuccess)
	return &Session{TokenPair: pair, User: p}, nil
}

func (a *Auth) mint(u model.User) (TokenPair, error) {
	access, err := a.issuer.IssueAccess(utils.AccessClaims{UserID: u.ID, Email: u.Email, Roles: u.Roles})
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := a.issuer.IssueRefresh(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access.Token, RefreshToken: refresh.Token}, nil
}

// Refresh exchanges a refresh token for a new access and refresh token.
// Access tokens are rejected here.  The user is re-read so that
// deactivation and deletion take effect at the next refresh.  With a
// denylist the presented refresh token is revoked, so each one is good
// for a single rotation.
func (a *Auth) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	claims, err := a.verifier.Verify(ctx, raw)
	if err != nil {
		a.metrics.RecordRefresh(metrics.OutcomeRejected)
		if errors.Is(err, model.ErrTokenExpired) || errors.Is(err, model.ErrTokenInvalid) {
			return TokenPair{}, err
		}
		return TokenPair{}, fmt.Errorf("verify refresh token: %w", err)
	}
	if claims.Type != utils.TokenRefresh {
		a.metrics.RecordRefresh(metrics.OutcomeRejected)
		return TokenPair{}, fmt.Errorf("%w: expected a refresh token", model.ErrTokenInvalid)
	}

	u, err := a.dir.users.GetByID(ctx, claims.UserID)
	if err != nil {
		a.metrics.RecordRefresh(metrics.OutcomeRejected)
		if errors.Is(err, model.ErrNotFound) {
			return TokenPair{}, model.ErrInvalidUser
		}
		return TokenPair{}, err
	}
	if !u.IsActive {
		a.metrics.RecordRefresh(metrics.OutcomeInactive)
		return TokenPair{}, model.ErrInactiveAccount
	}

	if a.denylist != nil {
		if err := a.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			a.metrics.RecordRefresh(metrics.OutcomeError)
			return TokenPair{}, fmt.Errorf("revoke refresh token: %w", err)
		}
	}

	pair, err := a.mint(u)
	if err != nil {
		a.metrics.RecordRefresh(metrics.OutcomeError)
		return TokenPair{}, err
	}
	a.metrics.RecordRefresh(metrics.OutcomeSuccess)
	return pair, nil
}

// Logout revokes the given tokens when a denylist is configured.  Without
// one it does nothing and the tokens stay valid until they expire.  Tokens
// that no longer verify are ignored.
func (a *Auth) Logout(ctx context.Context, rawTokens ...string) error {
	if a.denylist == nil {
		return nil
	}
	for _, raw := range rawTokens {
		if raw == "" {
			continue
		}
		claims, err := a.verifier.Verify(ctx, raw)
		if err != nil {
			continue
		}
		if err := a.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}
	return nil
}

// RegisterAdmin creates an admin account.  adminToken must match the
// configured bootstrap secret.
func (a *Auth) RegisterAdmin(ctx context.Context, reg model.Registration, adminToken string) (*model.Principal, error) {
	if err := a.checkAdminToken(adminToken); err != nil {
		return nil, err
	}
	u, err := a.dir.CreateAdmin(ctx, reg)
	if err != nil {
		return nil, err
	}
	a.logger.Info("admin account created", "user_id", u.ID)
	a.emit(ctx, queue.NewEvent(queue.UserRegistered, u.ID, 0, map[string]string{"role": string(model.RoleAdmin)}))
	return model.NewPrincipal(u, nil), nil
}

// LoginAdmin is Login for accounts holding the admin role, gated by the
// bootstrap secret.
func (a *Auth) LoginAdmin(ctx context.Context, email, password, adminToken string) (*Session, error) {
	if err := a.checkAdminToken(adminToken); err != nil {
		return nil, a.loginFailed(err)
	}
	u, err := a.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, a.loginFailed(err)
	}
	if !u.Roles.Has(model.RoleAdmin) {
		return nil, a.loginFailed(model.ErrForbidden)
	}
	return a.startSession(ctx, u, a.metrics.RecordLogin)
}

func (a *Auth) checkAdminToken(token string) error {
	if len(a.adminToken) == 0 {
		return fmt.Errorf("%w: admin bootstrap is disabled", model.ErrForbidden)
	}
	if subtle.ConstantTimeCompare([]byte(token), a.adminToken) != 1 {
		return fmt.Errorf("%w: invalid admin token", model.ErrForbidden)
	}
	return nil
}
