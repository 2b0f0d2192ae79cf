package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/utils"
)

type fakeUserStore struct {
	nextID uint64
	byID   map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, byID: map[uint64]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) (uint64, error) {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return 0, apperr.Conflict("email already registered")
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.byID[u.ID] = *u
	return u.ID, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, apperr.NotFound("user not found")
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uint64, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.PasswordHash = hash
	f.byID[id] = u
	return nil
}

type storedToken struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

type fakeTokenStore struct {
	byHash map[string]*storedToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{byHash: map[string]*storedToken{}}
}

func (f *fakeTokenStore) StoreRefresh(_ context.Context, t model.RefreshToken) error {
	f.byHash[t.TokenHash] = &storedToken{userID: t.UserID, exp: t.ExpiresAt}
	return nil
}

func (f *fakeTokenStore) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	st, ok := f.byHash[tokenHash]
	if !ok {
		return 0, apperr.ErrRefreshUnknown
	}
	if st.revoked {
		return 0, apperr.ErrRefreshRevoked
	}
	if time.Now().After(st.exp) {
		return 0, apperr.ErrRefreshExpired
	}
	return st.userID, nil
}

func (f *fakeTokenStore) TouchLastUsed(_ context.Context, _ string) error { return nil }

func (f *fakeTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	if st, ok := f.byHash[tokenHash]; ok {
		st.revoked = true
	}
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	for _, st := range f.byHash {
		if st.userID == userID {
			st.revoked = true
		}
	}
	return nil
}

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	svc := NewAuthService(AuthConfig{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4, // bcrypt.MinCost keeps the suite fast
	}, users, tokens)
	return svc, users, tokens
}

func seedUser(t *testing.T, users *fakeUserStore, email, password string, status model.UserStatus) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	u := model.User{Name: "Test", Email: email, PasswordHash: hash, RoleID: 5, Status: status}
	_, err = users.Create(context.Background(), &u)
	require.NoError(t, err)
	return u
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	svc, users, _ := newAuthFixture()

	u, err := svc.Register(context.Background(), "Ana", "ana@example.com", "secret-pass", 5, model.RoleTutor)
	require.NoError(t, err)
	require.Equal(t, model.UserPending, u.Status)
	require.NotEqual(t, "secret-pass", u.PasswordHash)
	require.Equal(t, model.UserPending, users.byID[u.ID].Status)
}

func TestRegisterRejectsAdministrativeRoles(t *testing.T) {
	svc, _, _ := newAuthFixture()

	for _, name := range []model.RoleName{model.RoleSuperAdmin, model.RoleAdminAccount} {
		_, err := svc.Register(context.Background(), "Eve", "eve@example.com", "secret-pass", 1, name)
		require.Error(t, err)
		require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestLoginStatusGates(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	pending := seedUser(t, users, "pending@example.com", "secret-pass", model.UserPending)
	rejected := seedUser(t, users, "rejected@example.com", "secret-pass", model.UserRejected)
	approved := seedUser(t, users, "ok@example.com", "secret-pass", model.UserApproved)

	_, _, err := svc.Login(ctx, pending.Email, "secret-pass", Device{})
	require.ErrorIs(t, err, apperr.ErrAccountPending)

	_, _, err = svc.Login(ctx, rejected.Email, "secret-pass", Device{})
	require.ErrorIs(t, err, apperr.ErrAccountRejected)

	// Wrong password always reports bad credentials, regardless of status.
	_, _, err = svc.Login(ctx, pending.Email, "wrong", Device{})
	require.ErrorIs(t, err, apperr.ErrBadCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "secret-pass", Device{})
	require.ErrorIs(t, err, apperr.ErrBadCredentials)

	u, pair, err := svc.Login(ctx, approved.Email, "secret-pass", Device{UserAgent: "test", IP: "127.0.0.1"})
	require.NoError(t, err)
	require.Equal(t, approved.ID, u.ID)
	require.NotEmpty(t, pair.Access.Token)
	require.NotEmpty(t, pair.Refresh.Raw)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	u := seedUser(t, users, "rot@example.com", "secret-pass", model.UserApproved)
	_, pair, err := svc.Login(ctx, u.Email, "secret-pass", Device{})
	require.NoError(t, err)

	_, next, err := svc.Refresh(ctx, pair.Refresh.Raw, Device{})
	require.NoError(t, err)
	require.NotEqual(t, pair.Refresh.Raw, next.Refresh.Raw)

	// Replaying the rotated-out token must fail as revoked.
	_, _, err = svc.Refresh(ctx, pair.Refresh.Raw, Device{})
	require.ErrorIs(t, err, apperr.ErrRefreshRevoked)

	// The new token still works.
	_, _, err = svc.Refresh(ctx, next.Refresh.Raw, Device{})
	require.NoError(t, err)
}

func TestRefreshRejectsExpiredAndUnknown(t *testing.T) {
	svc, users, tokens := newAuthFixture()
	ctx := context.Background()

	u := seedUser(t, users, "exp@example.com", "secret-pass", model.UserApproved)
	_, pair, err := svc.Login(ctx, u.Email, "secret-pass", Device{})
	require.NoError(t, err)

	tokens.byHash[utils.HashRefreshRaw(pair.Refresh.Raw)].exp = time.Now().Add(-time.Minute)
	_, _, err = svc.Refresh(ctx, pair.Refresh.Raw, Device{})
	require.ErrorIs(t, err, apperr.ErrRefreshExpired)

	_, _, err = svc.Refresh(ctx, "never-issued", Device{})
	require.ErrorIs(t, err, apperr.ErrRefreshUnknown)
}

func TestRefreshReChecksApproval(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	u := seedUser(t, users, "withdrawn@example.com", "secret-pass", model.UserApproved)
	_, pair, err := svc.Login(ctx, u.Email, "secret-pass", Device{})
	require.NoError(t, err)

	stored := users.byID[u.ID]
	stored.Status = model.UserRejected
	users.byID[u.ID] = stored

	_, _, err = svc.Refresh(ctx, pair.Refresh.Raw, Device{})
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestLogoutRevokesSingleSession(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	u := seedUser(t, users, "bye@example.com", "secret-pass", model.UserApproved)
	_, pair, err := svc.Login(ctx, u.Email, "secret-pass", Device{})
	require.NoError(t, err)
	_, other, err := svc.Login(ctx, u.Email, "secret-pass", Device{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.Refresh.Raw))
	_, _, err = svc.Refresh(ctx, pair.Refresh.Raw, Device{})
	require.ErrorIs(t, err, apperr.ErrRefreshRevoked)

	// Other sessions survive a single logout but not logout-all.
	_, _, err = svc.Refresh(ctx, other.Refresh.Raw, Device{})
	require.NoError(t, err)
	require.NoError(t, svc.LogoutAll(ctx, u.ID))
}

func TestAuthenticateLifecycleGate(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	u := seedUser(t, users, "gate@example.com", "secret-pass", model.UserApproved)
	_, pair, err := svc.Login(ctx, u.Email, "secret-pass", Device{})
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, pair.Access.Token)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	// A valid signature does not outrank a withdrawn approval.
	stored := users.byID[u.ID]
	stored.Status = model.UserPending
	users.byID[u.ID] = stored
	_, err = svc.Authenticate(ctx, pair.Access.Token)
	require.ErrorIs(t, err, apperr.ErrAccountPending)

	// Or a deleted user.
	delete(users.byID, u.ID)
	_, err = svc.Authenticate(ctx, pair.Access.Token)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = svc.Authenticate(ctx, "not-a-jwt")
	require.ErrorIs(t, err, apperr.ErrTokenMalformed)
}

func TestChangePassword(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	u := seedUser(t, users, "pw@example.com", "old-password", model.UserApproved)

	require.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "wrong", "new-password"), apperr.ErrBadCredentials)
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "old-password", "new-password"))

	_, _, err := svc.Login(ctx, u.Email, "old-password", Device{})
	require.ErrorIs(t, err, apperr.ErrBadCredentials)
	_, _, err = svc.Login(ctx, u.Email, "new-password", Device{})
	require.NoError(t, err)
}
