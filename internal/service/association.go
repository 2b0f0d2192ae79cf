// Package service holds the business rules between handlers and
// repositories: association lifecycle, context switching, authentication
// flows and notification fan-out.
package service

import (
	"context"

	"github.com/colegium/campus-api/internal/apperr"
	"github.com/colegium/campus-api/internal/model"
)

// AssociationStore is the persistence surface the association service needs.
// *repository.AssociationRepo satisfies it; tests use an in-memory fake.
type AssociationStore interface {
	Create(ctx context.Context, a *model.Association) error
	GetByID(ctx context.Context, id uint64) (model.Association, error)
	ListByUser(ctx context.Context, userID uint64, status model.AssociationStatus) ([]model.Association, error)
	ListByAccount(ctx context.Context, accountID uint64, status model.AssociationStatus) ([]model.Association, error)
	UpdateStatus(ctx context.Context, id uint64, status model.AssociationStatus) error
}

// ActivePointerStore persists the one-per-user active-association pointer.
type ActivePointerStore interface {
	Upsert(ctx context.Context, a model.ActiveAssociation) error
	GetByUser(ctx context.Context, userID uint64) (model.ActiveAssociation, error)
	DeleteByUser(ctx context.Context, userID uint64) error
	DeleteByAssociation(ctx context.Context, associationID uint64) error
}

// RoleStore resolves role grids for effective-permission evaluation.
type RoleStore interface {
	GetByID(ctx context.Context, id uint64) (model.Role, error)
}

// ErrNoActiveAssociation is returned by GetActive when the user has no
// usable pointer (never set, or lazily invalidated just now).
var ErrNoActiveAssociation = apperr.New(apperr.KindNotFound, "no_active_association", "no active association")

// AssociationService implements the association lifecycle and the
// active-association resolution described by the context-switching flows.
type AssociationService struct {
	associations AssociationStore
	active       ActivePointerStore
	roles        RoleStore
}

func NewAssociationService(a AssociationStore, p ActivePointerStore, r RoleStore) *AssociationService {
	return &AssociationService{associations: a, active: p, roles: r}
}

// Invite creates an association in PENDING status. All invitation flows go
// through here so the creation policy has exactly one enforcement point;
// only account onboarding (repository.AccountRepo.CreateWithAdmin) creates
// ACTIVE associations directly.
func (s *AssociationService) Invite(ctx context.Context, a *model.Association) error {
	a.Status = model.AssociationPending
	return s.associations.Create(ctx, a)
}

// Approve transitions PENDING -> ACTIVE. Approving anything else is an
// InvalidState failure, including a second approval of the same association.
func (s *AssociationService) Approve(ctx context.Context, id uint64) (model.Association, error) {
	a, err := s.associations.GetByID(ctx, id)
	if err != nil {
		return model.Association{}, err
	}
	if a.Status != model.AssociationPending {
		return model.Association{}, apperr.InvalidState("only pending associations can be approved")
	}
	if err := s.associations.UpdateStatus(ctx, id, model.AssociationActive); err != nil {
		return model.Association{}, err
	}
	a.Status = model.AssociationActive
	return a, nil
}

// Deactivate transitions any status to INACTIVE and removes any active
// pointer referencing the association. The pointer cleanup is best-effort;
// GetActive re-validates on read, so a missed cleanup heals lazily.
func (s *AssociationService) Deactivate(ctx context.Context, id uint64) (model.Association, error) {
	a, err := s.associations.GetByID(ctx, id)
	if err != nil {
		return model.Association{}, err
	}
	if a.Status == model.AssociationInactive {
		return a, nil // idempotent
	}
	if err := s.associations.UpdateStatus(ctx, id, model.AssociationInactive); err != nil {
		return model.Association{}, err
	}
	a.Status = model.AssociationInactive
	_ = s.active.DeleteByAssociation(ctx, id)
	return a, nil
}

// ListAvailable returns the associations the user may switch to: exactly the
// ACTIVE ones. PENDING and INACTIVE grants never appear here.
func (s *AssociationService) ListAvailable(ctx context.Context, userID uint64) ([]model.Association, error) {
	return s.associations.ListByUser(ctx, userID, model.AssociationActive)
}

// ListByAccount returns an account's associations for administration.
func (s *AssociationService) ListByAccount(ctx context.Context, accountID uint64, status model.AssociationStatus) ([]model.Association, error) {
	return s.associations.ListByAccount(ctx, accountID, status)
}

// SetActive makes associationID the caller's current context. Failure
// modes, in validation order: NotFound when the association does not exist,
// Forbidden when it belongs to another user, InvalidState when it is not
// ACTIVE. On success the pointer is upserted with denormalized fields; the
// unique key on user makes concurrent switches last-write-wins.
func (s *AssociationService) SetActive(ctx context.Context, userID, associationID uint64) (model.ActiveAssociation, error) {
	a, err := s.associations.GetByID(ctx, associationID)
	if err != nil {
		return model.ActiveAssociation{}, err
	}
	if a.UserID != userID {
		return model.ActiveAssociation{}, apperr.Forbidden("association belongs to a different user")
	}
	if a.Status != model.AssociationActive {
		return model.ActiveAssociation{}, apperr.InvalidState("association is not active")
	}
	ptr := model.ActiveAssociation{
		UserID:        userID,
		AssociationID: a.ID,
		AccountID:     a.AccountID,
		RoleID:        a.RoleID,
		DivisionID:    a.DivisionID,
		StudentID:     a.StudentID,
	}
	if err := s.active.Upsert(ctx, ptr); err != nil {
		return model.ActiveAssociation{}, err
	}
	return ptr, nil
}

// GetActive resolves the caller's current context. The pointer is
// re-validated against the underlying association on every read: if that
// association is gone or no longer ACTIVE, the stale pointer is deleted and
// ErrNoActiveAssociation returned. Repeated calls stay idempotent. Lazy
// invalidation on read is deliberate: writes stay cheap and the rare stale
// pointer self-heals at access time.
func (s *AssociationService) GetActive(ctx context.Context, userID uint64) (model.ActiveAssociation, error) {
	ptr, err := s.active.GetByUser(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return model.ActiveAssociation{}, ErrNoActiveAssociation
		}
		return model.ActiveAssociation{}, err
	}
	a, err := s.associations.GetByID(ctx, ptr.AssociationID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			_ = s.active.DeleteByUser(ctx, userID)
			return model.ActiveAssociation{}, ErrNoActiveAssociation
		}
		return model.ActiveAssociation{}, err
	}
	if a.Status != model.AssociationActive {
		_ = s.active.DeleteByUser(ctx, userID)
		return model.ActiveAssociation{}, ErrNoActiveAssociation
	}
	return ptr, nil
}

// ClearActive drops the caller's pointer, e.g. on logout-equivalent events.
func (s *AssociationService) ClearActive(ctx context.Context, userID uint64) error {
	return s.active.DeleteByUser(ctx, userID)
}

// Effective resolves the role and optional association context used for
// authorization: the active association's role when one exists, the user's
// static role otherwise.
func (s *AssociationService) Effective(ctx context.Context, user model.User) (model.Role, *model.Association, error) {
	ptr, err := s.GetActive(ctx, user.ID)
	if err == nil {
		a, aerr := s.associations.GetByID(ctx, ptr.AssociationID)
		if aerr == nil {
			role, rerr := s.roles.GetByID(ctx, a.RoleID)
			if rerr != nil {
				return model.Role{}, nil, rerr
			}
			return role, &a, nil
		}
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return model.Role{}, nil, err
	}
	role, err := s.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return model.Role{}, nil, err
	}
	return role, nil, nil
}

// Can evaluates one (module, action) permission for a user: overrides on the
// effective association first, the effective role grid second.
func (s *AssociationService) Can(ctx context.Context, user model.User, module, action string) (bool, error) {
	role, assoc, err := s.Effective(ctx, user)
	if err != nil {
		return false, err
	}
	if assoc != nil {
		return assoc.EffectiveAllows(role, module, action), nil
	}
	return role.Allows(module, action), nil
}
