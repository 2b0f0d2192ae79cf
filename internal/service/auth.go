package service

import (
	"context"
	"strings"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/utils"
)

// UserStore is the persistence surface the auth service needs from users.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
}

// TokenStore is the persistence surface for refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, t model.RefreshToken) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	TouchLastUsed(ctx context.Context, tokenHash string) error
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AuthConfig carries the token-issuing knobs the auth service needs.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// Device is the metadata recorded with each refresh token.
type Device struct {
	UserAgent string
	IP        string
}

// TokenPair is a freshly issued access + refresh pair.
type TokenPair struct {
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// AuthService implements registration, login, token verification, rotation
// and revocation.
type AuthService struct {
	cfg    AuthConfig
	users  UserStore
	tokens TokenStore
}

func NewAuthService(cfg AuthConfig, users UserStore, tokens TokenStore) *AuthService {
	return &AuthService{cfg: cfg, users: users, tokens: tokens}
}

// Register creates a PENDING user. Registration never yields tokens; the
// account must be approved by an administrator before it can log in.
// Self-registration cannot claim an administrative role.
func (s *AuthService) Register(ctx context.Context, name, email, password string, roleID uint64, roleName model.RoleName) (model.User, error) {
	if roleName.IsAdministrative() {
		return model.User{}, apperr.Validation("administrative roles cannot self-register")
	}
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		RoleID:       roleID,
		Status:       model.UserPending,
	}
	if _, err := s.users.Create(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Login validates credentials and the user lifecycle status, then issues a
// token pair. The failure kinds are deliberately distinct: wrong credentials,
// pending account and rejected account each carry their own code so a client
// can render the right screen.
func (s *AuthService) Login(ctx context.Context, email, password string, dev Device) (model.User, TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return model.User{}, TokenPair{}, apperr.ErrBadCredentials
		}
		return model.User{}, TokenPair{}, err
	}
	// bcrypt comparison is constant-time on match length; run it before the
	// status checks so timing does not reveal whether the status gate fired.
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, TokenPair{}, apperr.ErrBadCredentials
	}
	switch u.Status {
	case model.UserApproved:
	case model.UserPending:
		return model.User{}, TokenPair{}, apperr.ErrAccountPending
	default:
		return model.User{}, TokenPair{}, apperr.ErrAccountRejected
	}
	pair, err := s.issuePair(ctx, u, dev)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a refresh token for a new pair. Tokens rotate: the
// presented token is revoked and a fresh opaque value issued, so a replayed
// old token fails with refresh_revoked. Expired, revoked and unknown tokens
// each surface distinctly from the store.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string, dev Device) (model.User, TokenPair, error) {
	hash := utils.HashRefreshRaw(strings.TrimSpace(rawRefresh))
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return model.User{}, TokenPair{}, apperr.ErrRefreshUnknown
		}
		return model.User{}, TokenPair{}, err
	}
	if u.Status != model.UserApproved {
		// Approval can be withdrawn between logins; a live refresh token
		// must not outrank the lifecycle gate.
		return model.User{}, TokenPair{}, apperr.ErrAccountPending
	}
	_ = s.tokens.TouchLastUsed(ctx, hash)
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return model.User{}, TokenPair{}, err
	}
	pair, err := s.issuePair(ctx, u, dev)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	return u, pair, nil
}

// Logout revokes one refresh token presented by the client.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	hash := utils.HashRefreshRaw(strings.TrimSpace(rawRefresh))
	if _, err := s.tokens.ValidateRefresh(ctx, hash); err != nil {
		return err
	}
	return s.tokens.RevokeByHash(ctx, hash)
}

// LogoutAll revokes every active refresh token of a user (all devices).
func (s *AuthService) LogoutAll(ctx context.Context, userID uint64) error {
	return s.tokens.RevokeAllForUser(ctx, userID)
}

// Authenticate verifies an access token and loads its user, enforcing the
// lifecycle gate on every request: a deleted or no-longer-approved user is
// rejected even while holding a syntactically valid token.
func (s *AuthService) Authenticate(ctx context.Context, rawAccess string) (model.User, error) {
	claims, err := utils.ParseAccessToken(s.cfg.JWTSecret, rawAccess)
	if err != nil {
		return model.User{}, err
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return model.User{}, apperr.Unauthorized("user no longer exists")
		}
		return model.User{}, err
	}
	if u.Status != model.UserApproved {
		return model.User{}, apperr.ErrAccountPending
	}
	return u, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint64, current, next string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		return apperr.ErrBadCredentials
	}
	hash, err := utils.HashPassword(next, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) issuePair(ctx context.Context, u model.User, dev Device) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, utils.AccessClaims{
		UserID: u.ID,
		Email:  u.Email,
		RoleID: u.RoleID,
	}, s.cfg.AccessTTLMin)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.tokens.StoreRefresh(ctx, model.RefreshToken{
		UserID:    u.ID,
		TokenHash: utils.HashRefreshRaw(refresh.Raw),
		ExpiresAt: refresh.Exp,
		UserAgent: dev.UserAgent,
		IP:        dev.IP,
	}); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}
