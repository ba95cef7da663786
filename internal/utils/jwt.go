// Package utils provides password hashing and token issuing helpers.
package utils

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/internship-portal/internal/model"
)

// TokenType discriminates access tokens from refresh tokens.  It is carried
// in the "type" claim and must be checked by every caller.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims is the payload of both token kinds.  Refresh tokens only carry
// Type and UserID besides the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Type   TokenType `json:"type"`
	UserID uint64    `json:"userId"`
	Email  string    `json:"email,omitempty"`
	Roles  []string  `json:"roles,omitempty"`
}

// AccessClaims are the identity fields baked into an access token.
type AccessClaims struct {
	UserID uint64
	Email  string
	Roles  model.Roles
}

// Token is a signed token together with its expiry and id.  Only Token is
// handed to clients.
type Token struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
	ID    string    // the jti claim
}

// Issuer mints tokens.
type Issuer interface {
	IssueAccess(c AccessClaims) (Token, error)
	IssueRefresh(userID uint64) (Token, error)
}

// Verifier checks signature and expiry of a token.  It does not enforce
// the token type.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

// JWTManager signs and verifies HS256 tokens with a process-wide secret.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTManager builds a manager.  An empty secret is a startup error.
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt: signing secret is empty")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("jwt: token lifetimes must be positive")
	}
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// IssueAccess builds and signs an access token for the given identity.
func (m *JWTManager) IssueAccess(c AccessClaims) (Token, error) {
	return m.sign(Claims{
		Type:   TokenAccess,
		UserID: c.UserID,
		Email:  c.Email,
		Roles:  c.Roles.Strings(),
	}, m.accessTTL)
}

// IssueRefresh builds and signs a refresh token for userID.
func (m *JWTManager) IssueRefresh(userID uint64) (Token, error) {
	return m.sign(Claims{Type: TokenRefresh, UserID: userID}, m.refreshTTL)
}

func (m *JWTManager) sign(claims Claims, ttl time.Duration) (Token, error) {
	now := m.now()
	exp := now.Add(ttl)
	// Fill the registered claims: subject, issue time, expiry and a unique
	// id so that a single token can be denylisted later.
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(claims.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Token: signed, Exp: exp, ID: claims.ID}, nil
}

// Verify parses raw, checks the HS256 signature and the expiry, and returns
// the claims.  Lapsed tokens yield model.ErrTokenExpired; anything else that
// fails yields model.ErrTokenInvalid.
func (m *JWTManager) Verify(_ context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}
	if !tok.Valid {
		return nil, model.ErrTokenInvalid
	}
	return claims, nil
}

// Denylist records revoked token ids until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// DenylistVerifier rejects tokens whose id has been revoked.  Callers keep
// depending on Verifier and are unaware of the extra check.
type DenylistVerifier struct {
	next Verifier
	list Denylist
}

// NewDenylistVerifier wraps next with a revocation check against list.
func NewDenylistVerifier(next Verifier, list Denylist) *DenylistVerifier {
	return &DenylistVerifier{next: next, list: list}
}

// Verify delegates to the wrapped verifier and then consults the denylist.
func (v *DenylistVerifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims, err := v.next.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	revoked, err := v.list.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("denylist lookup: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: revoked", model.ErrTokenInvalid)
	}
	return claims, nil
}
