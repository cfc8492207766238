package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	identity "github.com/panoukos41/couchdb-identity"
	"github.com/panoukos41/couchdb-identity/couch"
	"github.com/panoukos41/couchdb-identity/internal/check"
	"github.com/panoukos41/couchdb-identity/models"
)

// RoleStore persists role documents. T is the concrete role type, R its
// pointer exposing the RoleLike capabilities; use NewRoles for the base
// models.Role.
type RoleStore[T any, R models.RolePtr[T]] struct {
	store
}

// NewRoleStore builds a RoleStore scoped to the role discriminator of
// opts. The options are copied; mutating them afterwards has no effect.
func NewRoleStore[T any, R models.RolePtr[T]](db couch.Database, opts identity.Options) *RoleStore[T, R] {
	opts.LoadDefaults()
	return &RoleStore[T, R]{store: newStore(db, opts.RoleDiscriminator, opts)}
}

// NewRoles is NewRoleStore over the base role document.
func NewRoles(db couch.Database, opts identity.Options) *RoleStore[models.Role, *models.Role] {
	return NewRoleStore[models.Role, *models.Role](db, opts)
}

// Create persists a new role, assigning a generated id when absent and
// stamping the store's discriminator. The role's revision is updated to
// the one the database returned.
func (s *RoleStore[T, R]) Create(ctx context.Context, role R) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if role == nil {
		return check.Nil("role")
	}

	doc := role.Doc()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.Discriminator = s.discriminator

	rev, err := s.db.Put(ctx, doc.ID, role)
	if err != nil {
		return err
	}
	doc.Rev = rev
	return nil
}

// Update upserts the role by id. The role must carry the current
// revision or the database answers identity.ErrConflict; there is no
// retry.
func (s *RoleStore[T, R]) Update(ctx context.Context, role R) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if role == nil {
		return check.Nil("role")
	}

	doc := role.Doc()
	if err := check.NotEmpty("role id", doc.ID); err != nil {
		return err
	}
	doc.Discriminator = s.discriminator

	rev, err := s.db.Put(ctx, doc.ID, role)
	if err != nil {
		return err
	}
	doc.Rev = rev
	return nil
}

// Delete removes the role identified by its id and current revision.
func (s *RoleStore[T, R]) Delete(ctx context.Context, role R) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if role == nil {
		return check.Nil("role")
	}

	doc := role.Doc()
	if err := check.NotEmpty("role id", doc.ID); err != nil {
		return err
	}
	if err := check.NotEmpty("role revision", doc.Rev); err != nil {
		return err
	}
	return s.db.Delete(ctx, doc.ID, doc.Rev)
}

// FindByID looks the role up by primary key, scoped to this store's
// discriminator. Absence is an empty result, not an error.
func (s *RoleStore[T, R]) FindByID(ctx context.Context, id string) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if err := check.NotEmpty("id", id); err != nil {
		return zero, err
	}

	raw, err := s.fetch(ctx, id)
	if err != nil || raw == nil {
		return zero, err
	}
	role, err := decodeDoc[T, R](raw)
	if err != nil {
		return zero, err
	}
	if role.Doc().Discriminator != s.discriminator {
		return zero, nil
	}
	return role, nil
}

// FindByNormalizedName queries the normalized-name view and returns the
// first match. Uniqueness of normalized names within the discriminator
// is the caller's invariant; the store does not deduplicate.
func (s *RoleStore[T, R]) FindByNormalizedName(ctx context.Context, normalizedName string) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if err := check.NotEmpty("normalizedName", normalizedName); err != nil {
		return zero, err
	}

	docs, err := s.queryDocs(ctx, s.views.RoleNormalizedName, normalizedName)
	if err != nil || len(docs) == 0 {
		return zero, err
	}
	return decodeDoc[T, R](docs[0])
}

// All lists every role of this discriminator. Results silently truncate
// at the configured query limit; that is a known limitation, not an
// error.
func (s *RoleStore[T, R]) All(ctx context.Context) ([]R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs, err := s.queryDocs(ctx, s.views.Role, nil)
	if err != nil {
		return nil, err
	}
	roles := make([]R, 0, len(docs))
	for _, raw := range docs {
		role, err := decodeDoc[T, R](raw)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// Count returns the number of role documents via the list view's
// reduce.
func (s *RoleStore[T, R]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.countView(ctx, s.views.Role)
}

// ID returns the role's document id, empty until Create assigns one.
func (s *RoleStore[T, R]) ID(ctx context.Context, role R) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if role == nil {
		return "", check.Nil("role")
	}
	return role.Doc().ID, nil
}

func (s *RoleStore[T, R]) Name(ctx context.Context, role R) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if role == nil {
		return "", check.Nil("role")
	}
	return role.AsRole().Name, nil
}

// SetName changes the display name in memory. It does not touch
// NormalizedName; callers keep the two in sync.
func (s *RoleStore[T, R]) SetName(ctx context.Context, role R, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if role == nil {
		return check.Nil("role")
	}
	role.AsRole().Name = name
	return nil
}

func (s *RoleStore[T, R]) NormalizedName(ctx context.Context, role R) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if role == nil {
		return "", check.Nil("role")
	}
	return role.AsRole().NormalizedName, nil
}

func (s *RoleStore[T, R]) SetNormalizedName(ctx context.Context, role R, normalized string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if role == nil {
		return check.Nil("role")
	}
	role.AsRole().NormalizedName = normalized
	return nil
}

// AddClaim adds the claim to the role's in-memory claim set. Nothing is
// persisted until Update.
func (s *RoleStore[T, R]) AddClaim(ctx context.Context, role R, claim models.ClaimInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if role == nil {
		return check.Nil("role")
	}
	role.AsRole().Claims.Add(claim)
	return nil
}

// RemoveClaim removes the claim from the role's in-memory claim set.
func (s *RoleStore[T, R]) RemoveClaim(ctx context.Context, role R, claim models.ClaimInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if role == nil {
		return check.Nil("role")
	}
	role.AsRole().Claims.Remove(claim)
	return nil
}

// Claims returns a copy of the role's claim set.
func (s *RoleStore[T, R]) Claims(ctx context.Context, role R) ([]models.ClaimInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if role == nil {
		return nil, check.Nil("role")
	}
	return append([]models.ClaimInfo(nil), role.AsRole().Claims...), nil
}

// ResolveRole finds a role by normalized name and returns a detached
// snapshot for embedding into a user document, or nil when no such role
// exists. It makes RoleStore a RoleResolver for UserStore.
func (s *RoleStore[T, R]) ResolveRole(ctx context.Context, normalizedName string) (*models.Role, error) {
	role, err := s.FindByNormalizedName(ctx, normalizedName)
	if err != nil || role == nil {
		return nil, err
	}
	snap := role.AsRole().Snapshot()
	return &snap, nil
}

var _ RoleResolver = (*RoleStore[models.Role, *models.Role])(nil)

// RoleResolver resolves a normalized role name into a detached role
// snapshot. A nil snapshot with a nil error means the role does not
// exist.
type RoleResolver interface {
	ResolveRole(ctx context.Context, normalizedName string) (*models.Role, error)
}

// roleNotFound builds the error AddToRole raises for a missing role.
func roleNotFound(normalizedName string) error {
	return fmt.Errorf("%w: role %q does not exist", identity.ErrNotFound, normalizedName)
}
