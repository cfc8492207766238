package stores

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	identity "github.com/panoukos41/couchdb-identity"
	"github.com/panoukos41/couchdb-identity/couch"
	"github.com/panoukos41/couchdb-identity/internal/check"
	"github.com/panoukos41/couchdb-identity/models"
)

// UserStore persists user documents and implements the whole user-side
// operation set of the identity framework: CRUD with optimistic
// concurrency, view-backed finders, and accessors for the embedded
// email, phone, password, lockout, two-factor and authenticator state.
//
// Field accessors and the claim/role/login mutations touch only the
// in-memory document; they persist with the next Update. That contract
// comes from the framework: its managers batch several setter calls and
// end with a single update.
type UserStore[T any, U models.UserPtr[T]] struct {
	store
	roles RoleResolver
}

// NewUserStore builds a UserStore scoped to the user discriminator of
// opts. roles resolves normalized role names for AddToRole; it is
// usually the RoleStore sharing this database.
func NewUserStore[T any, U models.UserPtr[T]](db couch.Database, roles RoleResolver, opts identity.Options) *UserStore[T, U] {
	opts.LoadDefaults()
	return &UserStore[T, U]{
		store: newStore(db, opts.UserDiscriminator, opts),
		roles: roles,
	}
}

// NewUsers is NewUserStore over the base user document.
func NewUsers(db couch.Database, roles RoleResolver, opts identity.Options) *UserStore[models.User, *models.User] {
	return NewUserStore[models.User, *models.User](db, roles, opts)
}

// Create persists a new user, assigning a generated id when absent.
func (s *UserStore[T, U]) Create(ctx context.Context, user U) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return check.Nil("user")
	}

	doc := user.Doc()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.Discriminator = s.discriminator

	rev, err := s.db.Put(ctx, doc.ID, user)
	if err != nil {
		return err
	}
	doc.Rev = rev
	return nil
}

// Update upserts the user by id; a stale revision surfaces as
// identity.ErrConflict.
func (s *UserStore[T, U]) Update(ctx context.Context, user U) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return check.Nil("user")
	}

	doc := user.Doc()
	if err := check.NotEmpty("user id", doc.ID); err != nil {
		return err
	}
	doc.Discriminator = s.discriminator

	rev, err := s.db.Put(ctx, doc.ID, user)
	if err != nil {
		return err
	}
	doc.Rev = rev
	return nil
}

// Delete removes the user identified by its id and current revision.
func (s *UserStore[T, U]) Delete(ctx context.Context, user U) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return check.Nil("user")
	}

	doc := user.Doc()
	if err := check.NotEmpty("user id", doc.ID); err != nil {
		return err
	}
	if err := check.NotEmpty("user revision", doc.Rev); err != nil {
		return err
	}
	return s.db.Delete(ctx, doc.ID, doc.Rev)
}

// FindByID looks the user up by primary key, scoped to this store's
// discriminator. Absence is an empty result, not an error.
func (s *UserStore[T, U]) FindByID(ctx context.Context, id string) (U, error) {
	var zero U
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
	user, err := decodeDoc[T, U](raw)
	if err != nil {
		return zero, err
	}
	if user.Doc().Discriminator != s.discriminator {
		return zero, nil
	}
	return user, nil
}

// FindByName queries the normalized-username view and returns the first
// match.
func (s *UserStore[T, U]) FindByName(ctx context.Context, normalizedUserName string) (U, error) {
	return s.findOne(ctx, s.views.UserNormalizedUserName, "normalizedUserName", normalizedUserName)
}

// FindByEmail queries the normalized-email view and returns the first
// match.
func (s *UserStore[T, U]) FindByEmail(ctx context.Context, normalizedEmail string) (U, error) {
	return s.findOne(ctx, s.views.UserNormalizedEmail, "normalizedEmail", normalizedEmail)
}

// FindByLogin finds the user owning the (provider, key) login without
// loading any user first; the logins view is keyed by that pair.
func (s *UserStore[T, U]) FindByLogin(ctx context.Context, provider, key string) (U, error) {
	var zero U
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if err := check.NotEmpty("provider", provider); err != nil {
		return zero, err
	}
	if err := check.NotEmpty("key", key); err != nil {
		return zero, err
	}

	docs, err := s.queryDocs(ctx, s.views.UserLogins, []string{provider, key})
	if err != nil || len(docs) == 0 {
		return zero, err
	}
	return decodeDoc[T, U](docs[0])
}

// All lists every user of this discriminator, truncated at the query
// limit.
func (s *UserStore[T, U]) All(ctx context.Context) ([]U, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.decodeAll(s.queryDocs(ctx, s.views.User, nil))
}

// Count returns the number of user documents via the list view's
// reduce.
func (s *UserStore[T, U]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.countView(ctx, s.views.User)
}

// --- id and username ---

// ID returns the user's document id, empty until Create assigns one.
func (s *UserStore[T, U]) ID(ctx context.Context, user U) (string, error) {
	if err := s.guard(ctx, user); err != nil {
		return "", err
	}
	return user.Doc().ID, nil
}

func (s *UserStore[T, U]) SetUserName(ctx context.Context, user U, userName string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().UserName = userName
	return nil
}

func (s *UserStore[T, U]) UserName(ctx context.Context, user U) (string, error) {
	if err := s.guard(ctx, user); err != nil {
		return "", err
	}
	return user.AsUser().UserName, nil
}

func (s *UserStore[T, U]) SetNormalizedUserName(ctx context.Context, user U, normalized string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().NormalizedUserName = normalized
	return nil
}

func (s *UserStore[T, U]) NormalizedUserName(ctx context.Context, user U) (string, error) {
	if err := s.guard(ctx, user); err != nil {
		return "", err
	}
	return user.AsUser().NormalizedUserName, nil
}

// --- password and security stamp ---

func (s *UserStore[T, U]) SetPasswordHash(ctx context.Context, user U, hash string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Password.Hash = hash
	return nil
}

func (s *UserStore[T, U]) PasswordHash(ctx context.Context, user U) (string, error) {
	if err := s.guard(ctx, user); err != nil {
		return "", err
	}
	return user.AsUser().Password.Hash, nil
}

func (s *UserStore[T, U]) HasPassword(ctx context.Context, user U) (bool, error) {
	if err := s.guard(ctx, user); err != nil {
		return false, err
	}
	return user.AsUser().Password.Hash != "", nil
}

// SetSecurityStamp stores the random value the framework rotates on
// every credential change.
func (s *UserStore[T, U]) SetSecurityStamp(ctx context.Context, user U, stamp string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Password.Salt = stamp
	return nil
}

func (s *UserStore[T, U]) SecurityStamp(ctx context.Context, user U) (string, error) {
	if err := s.guard(ctx, user); err != nil {
		return "", err
	}
	return user.AsUser().Password.Salt, nil
}

// --- email ---

func (s *UserStore[T, U]) SetEmail(ctx context.Context, user U, address string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Email.Address = address
	return nil
}

func (s *UserStore[T, U]) SetNormalizedEmail(ctx context.Context, user U, normalized string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Email.Normalized = normalized
	return nil
}

func (s *UserStore[T, U]) SetEmailConfirmed(ctx context.Context, user U, confirmed bool) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Email.Confirmed = confirmed
	return nil
}

func (s *UserStore[T, U]) Email(ctx context.Context, user U) (models.EmailInfo, error) {
	if err := s.guard(ctx, user); err != nil {
		return models.EmailInfo{}, err
	}
	return user.AsUser().Email, nil
}

// --- phone ---

func (s *UserStore[T, U]) SetPhoneNumber(ctx context.Context, user U, number string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Phone.Number = number
	return nil
}

func (s *UserStore[T, U]) SetPhoneNumberConfirmed(ctx context.Context, user U, confirmed bool) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Phone.Confirmed = confirmed
	return nil
}

func (s *UserStore[T, U]) PhoneNumber(ctx context.Context, user U) (models.PhoneInfo, error) {
	if err := s.guard(ctx, user); err != nil {
		return models.PhoneInfo{}, err
	}
	return user.AsUser().Phone, nil
}

// --- two-factor and authenticator ---

func (s *UserStore[T, U]) SetTwoFactorEnabled(ctx context.Context, user U, enabled bool) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().TwoFactorEnabled = enabled
	return nil
}

func (s *UserStore[T, U]) TwoFactorEnabled(ctx context.Context, user U) (bool, error) {
	if err := s.guard(ctx, user); err != nil {
		return false, err
	}
	return user.AsUser().TwoFactorEnabled, nil
}

func (s *UserStore[T, U]) SetAuthenticatorKey(ctx context.Context, user U, key string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Authenticator.Key = key
	return nil
}

func (s *UserStore[T, U]) AuthenticatorKey(ctx context.Context, user U) (string, error) {
	if err := s.guard(ctx, user); err != nil {
		return "", err
	}
	return user.AsUser().Authenticator.Key, nil
}

// --- roles ---

// AddToRole resolves the role by normalized name and embeds a snapshot
// of it into the user's role set. The snapshot is taken at assignment
// time and never re-synced: renaming the role later does not rewrite
// this user. A missing role raises identity.ErrNotFound.
func (s *UserStore[T, U]) AddToRole(ctx context.Context, user U, normalizedRoleName string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	if err := check.NotEmpty("normalizedRoleName", normalizedRoleName); err != nil {
		return err
	}

	role, err := s.roles.ResolveRole(ctx, normalizedRoleName)
	if err != nil {
		return err
	}
	if role == nil {
		return roleNotFound(normalizedRoleName)
	}
	user.AsUser().Roles.Add(*role)
	return nil
}

// RemoveFromRole drops the snapshot with the given normalized name from
// the user's in-memory role set.
func (s *UserStore[T, U]) RemoveFromRole(ctx context.Context, user U, normalizedRoleName string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	if err := check.NotEmpty("normalizedRoleName", normalizedRoleName); err != nil {
		return err
	}
	user.AsUser().Roles.Remove(normalizedRoleName)
	return nil
}

func (s *UserStore[T, U]) IsInRole(ctx context.Context, user U, normalizedRoleName string) (bool, error) {
	if err := s.guard(ctx, user); err != nil {
		return false, err
	}
	return user.AsUser().Roles.Contains(normalizedRoleName), nil
}

// Roles returns the display names of the user's embedded role
// snapshots.
func (s *UserStore[T, U]) Roles(ctx context.Context, user U) ([]string, error) {
	if err := s.guard(ctx, user); err != nil {
		return nil, err
	}
	return user.AsUser().Roles.Names(), nil
}

// UsersInRole lists the users holding a snapshot of the named role, via
// the role-membership view.
func (s *UserStore[T, U]) UsersInRole(ctx context.Context, normalizedRoleName string) ([]U, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := check.NotEmpty("normalizedRoleName", normalizedRoleName); err != nil {
		return nil, err
	}
	return s.decodeAll(s.queryDocs(ctx, s.views.UserRoles, normalizedRoleName))
}

// --- claims ---

func (s *UserStore[T, U]) AddClaim(ctx context.Context, user U, claim models.ClaimInfo) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Claims.Add(claim)
	return nil
}

func (s *UserStore[T, U]) RemoveClaim(ctx context.Context, user U, claim models.ClaimInfo) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Claims.Remove(claim)
	return nil
}

func (s *UserStore[T, U]) Claims(ctx context.Context, user U) ([]models.ClaimInfo, error) {
	if err := s.guard(ctx, user); err != nil {
		return nil, err
	}
	return append([]models.ClaimInfo(nil), user.AsUser().Claims...), nil
}

// UsersForClaim lists the users carrying the claim, via the claims view
// keyed by the ordered (type, value) pair.
func (s *UserStore[T, U]) UsersForClaim(ctx context.Context, claim models.ClaimInfo) ([]U, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := check.NotEmpty("claim type", claim.Type); err != nil {
		return nil, err
	}
	return s.decodeAll(s.queryDocs(ctx, s.views.UserClaims, []string{claim.Type, claim.Value}))
}

// --- logins ---

func (s *UserStore[T, U]) AddLogin(ctx context.Context, user U, login models.LoginInfo) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Logins.Add(login)
	return nil
}

func (s *UserStore[T, U]) RemoveLogin(ctx context.Context, user U, provider, key string) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Logins.Remove(provider, key)
	return nil
}

func (s *UserStore[T, U]) Logins(ctx context.Context, user U) ([]models.LoginInfo, error) {
	if err := s.guard(ctx, user); err != nil {
		return nil, err
	}
	return append([]models.LoginInfo(nil), user.AsUser().Logins...), nil
}

// --- lockout ---

// LockoutEnd returns the end of the user's lockout window; a time in
// the past (or nil) means the user is not locked out.
func (s *UserStore[T, U]) LockoutEnd(ctx context.Context, user U) (*time.Time, error) {
	if err := s.guard(ctx, user); err != nil {
		return nil, err
	}
	return user.AsUser().Lockout.End, nil
}

func (s *UserStore[T, U]) SetLockoutEnd(ctx context.Context, user U, end *time.Time) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Lockout.End = end
	return nil
}

func (s *UserStore[T, U]) LockoutEnabled(ctx context.Context, user U) (bool, error) {
	if err := s.guard(ctx, user); err != nil {
		return false, err
	}
	return user.AsUser().Lockout.Enabled, nil
}

func (s *UserStore[T, U]) SetLockoutEnabled(ctx context.Context, user U, enabled bool) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Lockout.Enabled = enabled
	return nil
}

func (s *UserStore[T, U]) AccessFailedCount(ctx context.Context, user U) (int, error) {
	if err := s.guard(ctx, user); err != nil {
		return 0, err
	}
	return user.AsUser().Lockout.AccessFailedCount, nil
}

// IncrementAccessFailedCount bumps the failed-attempt counter and
// returns the new value. Like every accessor, it does not persist.
func (s *UserStore[T, U]) IncrementAccessFailedCount(ctx context.Context, user U) (int, error) {
	if err := s.guard(ctx, user); err != nil {
		return 0, err
	}
	lockout := &user.AsUser().Lockout
	lockout.AccessFailedCount++
	return lockout.AccessFailedCount, nil
}

func (s *UserStore[T, U]) ResetAccessFailedCount(ctx context.Context, user U) error {
	if err := s.guard(ctx, user); err != nil {
		return err
	}
	user.AsUser().Lockout.AccessFailedCount = 0
	return nil
}

// --- helpers ---

// guard is the shared precondition of every per-user operation:
// cooperative cancellation first, then the nil check, both before any
// I/O.
func (s *UserStore[T, U]) guard(ctx context.Context, user U) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return check.Nil("user")
	}
	return nil
}

func (s *UserStore[T, U]) findOne(ctx context.Context, view identity.View, name, key string) (U, error) {
	var zero U
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if err := check.NotEmpty(name, key); err != nil {
		return zero, err
	}

	docs, err := s.queryDocs(ctx, view, key)
	if err != nil || len(docs) == 0 {
		return zero, err
	}
	return decodeDoc[T, U](docs[0])
}

func (s *UserStore[T, U]) decodeAll(docs []json.RawMessage, err error) ([]U, error) {
	if err != nil {
		return nil, err
	}
	users := make([]U, 0, len(docs))
	for _, raw := range docs {
		user, err := decodeDoc[T, U](raw)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
