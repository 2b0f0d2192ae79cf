package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/model"
)

// fakeAssociationStore keeps associations in a map, mimicking the repository
// contract including its not-found sentinel kind.
type fakeAssociationStore struct {
	nextID uint64
	byID   map[uint64]model.Association
}

func newFakeAssociationStore() *fakeAssociationStore {
	return &fakeAssociationStore{nextID: 1, byID: map[uint64]model.Association{}}
}

func (f *fakeAssociationStore) Create(_ context.Context, a *model.Association) error {
	a.ID = f.nextID
	f.nextID++
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAssociationStore) GetByID(_ context.Context, id uint64) (model.Association, error) {
	a, ok := f.byID[id]
	if !ok {
		return model.Association{}, apperr.NotFound("association not found")
	}
	return a, nil
}

func (f *fakeAssociationStore) ListByUser(_ context.Context, userID uint64, status model.AssociationStatus) ([]model.Association, error) {
	var out []model.Association
	for _, a := range f.byID {
		if a.UserID != userID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssociationStore) ListByAccount(_ context.Context, accountID uint64, status model.AssociationStatus) ([]model.Association, error) {
	var out []model.Association
	for _, a := range f.byID {
		if a.AccountID != accountID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssociationStore) UpdateStatus(_ context.Context, id uint64, status model.AssociationStatus) error {
	a, ok := f.byID[id]
	if !ok {
		return apperr.NotFound("association not found")
	}
	a.Status = status
	f.byID[id] = a
	return nil
}

// fakePointerStore mimics the unique-per-user active pointer table.
type fakePointerStore struct {
	byUser map[uint64]model.ActiveAssociation
}

func newFakePointerStore() *fakePointerStore {
	return &fakePointerStore{byUser: map[uint64]model.ActiveAssociation{}}
}

func (f *fakePointerStore) Upsert(_ context.Context, a model.ActiveAssociation) error {
	f.byUser[a.UserID] = a
	return nil
}

func (f *fakePointerStore) GetByUser(_ context.Context, userID uint64) (model.ActiveAssociation, error) {
	a, ok := f.byUser[userID]
	if !ok {
		return model.ActiveAssociation{}, apperr.New(apperr.KindNotFound, "no_active_association", "no active association")
	}
	return a, nil
}

func (f *fakePointerStore) DeleteByUser(_ context.Context, userID uint64) error {
	delete(f.byUser, userID)
	return nil
}

func (f *fakePointerStore) DeleteByAssociation(_ context.Context, associationID uint64) error {
	for uid, a := range f.byUser {
		if a.AssociationID == associationID {
			delete(f.byUser, uid)
		}
	}
	return nil
}

type fakeRoleStore struct {
	byID map[uint64]model.Role
}

func (f *fakeRoleStore) GetByID(_ context.Context, id uint64) (model.Role, error) {
	r, ok := f.byID[id]
	if !ok {
		return model.Role{}, apperr.NotFound("role not found")
	}
	return r, nil
}

func newAssocFixture() (*AssociationService, *fakeAssociationStore, *fakePointerStore) {
	assocs := newFakeAssociationStore()
	pointers := newFakePointerStore()
	roles := &fakeRoleStore{byID: map[uint64]model.Role{}}
	for i, r := range model.DefaultRoles() {
		r.ID = uint64(i + 1)
		roles.byID[r.ID] = r
	}
	return NewAssociationService(assocs, pointers, roles), assocs, pointers
}

func seedAssociation(t *testing.T, s *fakeAssociationStore, userID, accountID, roleID uint64, status model.AssociationStatus) model.Association {
	t.Helper()
	a := model.Association{UserID: userID, AccountID: accountID, RoleID: roleID, Status: status}
	require.NoError(t, s.Create(context.Background(), &a))
	return a
}

func TestInviteForcesPending(t *testing.T) {
	svc, store, _ := newAssocFixture()

	a := model.Association{UserID: 7, AccountID: 1, RoleID: 4, Status: model.AssociationActive}
	require.NoError(t, svc.Invite(context.Background(), &a))
	require.Equal(t, model.AssociationPending, a.Status)
	require.Equal(t, model.AssociationPending, store.byID[a.ID].Status)
}

func TestApproveLifecycle(t *testing.T) {
	svc, store, _ := newAssocFixture()
	ctx := context.Background()

	a := seedAssociation(t, store, 7, 1, 4, model.AssociationPending)

	approved, err := svc.Approve(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, model.AssociationActive, approved.Status)

	// A second approval hits the wrong lifecycle state.
	_, err = svc.Approve(ctx, a.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = svc.Approve(ctx, 999)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSetActiveValidationOrder(t *testing.T) {
	svc, store, _ := newAssocFixture()
	ctx := context.Background()

	mine := seedAssociation(t, store, 7, 1, 4, model.AssociationActive)
	pending := seedAssociation(t, store, 7, 2, 4, model.AssociationPending)
	inactive := seedAssociation(t, store, 7, 3, 4, model.AssociationInactive)
	theirs := seedAssociation(t, store, 8, 1, 4, model.AssociationActive)

	_, err := svc.SetActive(ctx, 7, 999)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.SetActive(ctx, 7, theirs.ID)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.SetActive(ctx, 7, pending.ID)
	require.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = svc.SetActive(ctx, 7, inactive.ID)
	require.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	ptr, err := svc.SetActive(ctx, 7, mine.ID)
	require.NoError(t, err)
	require.Equal(t, mine.ID, ptr.AssociationID)
	require.Equal(t, mine.AccountID, ptr.AccountID)
	require.Equal(t, mine.RoleID, ptr.RoleID)
}

func TestSetThenGetRoundTrip(t *testing.T) {
	svc, store, _ := newAssocFixture()
	ctx := context.Background()

	a := seedAssociation(t, store, 7, 1, 4, model.AssociationActive)

	set, err := svc.SetActive(ctx, 7, a.ID)
	require.NoError(t, err)

	got, err := svc.GetActive(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, set, got)
}

func TestGetActiveLazyInvalidation(t *testing.T) {
	svc, store, pointers := newAssocFixture()
	ctx := context.Background()

	a := seedAssociation(t, store, 7, 1, 4, model.AssociationActive)
	_, err := svc.SetActive(ctx, 7, a.ID)
	require.NoError(t, err)

	// Deactivation elsewhere leaves the pointer stale; the next read must
	// delete it and report no active association, repeatably.
	_, err = svc.Deactivate(ctx, a.ID)
	require.NoError(t, err)
	pointers.byUser[7] = model.ActiveAssociation{UserID: 7, AssociationID: a.ID, AccountID: a.AccountID, RoleID: a.RoleID}

	_, err = svc.GetActive(ctx, 7)
	require.ErrorIs(t, err, ErrNoActiveAssociation)
	require.Empty(t, pointers.byUser)

	_, err = svc.GetActive(ctx, 7)
	require.ErrorIs(t, err, ErrNoActiveAssociation)
}

func TestDeactivateClearsPointerAndIsIdempotent(t *testing.T) {
	svc, store, pointers := newAssocFixture()
	ctx := context.Background()

	a := seedAssociation(t, store, 7, 1, 4, model.AssociationActive)
	_, err := svc.SetActive(ctx, 7, a.ID)
	require.NoError(t, err)

	got, err := svc.Deactivate(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, model.AssociationInactive, got.Status)
	require.Empty(t, pointers.byUser)

	again, err := svc.Deactivate(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, model.AssociationInactive, again.Status)
}

func TestListAvailableReturnsOnlyActive(t *testing.T) {
	svc, store, _ := newAssocFixture()
	ctx := context.Background()

	active := seedAssociation(t, store, 7, 1, 4, model.AssociationActive)
	seedAssociation(t, store, 7, 2, 4, model.AssociationPending)
	seedAssociation(t, store, 7, 3, 4, model.AssociationInactive)
	seedAssociation(t, store, 8, 1, 4, model.AssociationActive)

	items, err := svc.ListAvailable(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, active.ID, items[0].ID)
}

func TestEffectiveFallsBackToStaticRole(t *testing.T) {
	svc, _, _ := newAssocFixture()
	ctx := context.Background()

	u := model.User{ID: 7, RoleID: 5} // tutor
	role, assoc, err := svc.Effective(ctx, u)
	require.NoError(t, err)
	require.Nil(t, assoc)
	require.Equal(t, model.RoleTutor, role.Name)
}

func TestCanUsesActiveAssociationAndOverrides(t *testing.T) {
	svc, store, _ := newAssocFixture()
	ctx := context.Background()

	u := model.User{ID: 7, RoleID: 5} // static role: tutor, read-only

	// Active association as profesor in account 1.
	a := seedAssociation(t, store, 7, 1, 4, model.AssociationActive)
	_, err := svc.SetActive(ctx, 7, a.ID)
	require.NoError(t, err)

	ok, err := svc.Can(ctx, u, model.ModuleAsistencia, model.ActionCrear)
	require.NoError(t, err)
	require.True(t, ok, "profesor grid grants asistencia:crear")

	ok, err = svc.Can(ctx, u, model.ModuleCuentas, model.ActionLeer)
	require.NoError(t, err)
	require.False(t, ok, "profesor grid has no cuentas module")

	// An override on one module replaces the role grid for that module only.
	withOverride := a
	withOverride.Overrides = []model.Permission{
		{Module: model.ModuleAsistencia, Actions: []string{model.ActionLeer}},
	}
	store.byID[a.ID] = withOverride

	ok, err = svc.Can(ctx, u, model.ModuleAsistencia, model.ActionCrear)
	require.NoError(t, err)
	require.False(t, ok, "override removed asistencia:crear")

	ok, err = svc.Can(ctx, u, model.ModuleEventos, model.ActionCrear)
	require.NoError(t, err)
	require.True(t, ok, "other modules still follow the role grid")

	// Without an active pointer the static tutor grid applies.
	require.NoError(t, svc.ClearActive(ctx, 7))
	ok, err = svc.Can(ctx, u, model.ModuleAsistencia, model.ActionCrear)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = svc.Can(ctx, u, model.ModuleAsistencia, model.ActionLeer)
	require.NoError(t, err)
	require.True(t, ok)
}
