package couch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identity "github.com/panoukos41/couchdb-identity"
)

func TestEnsureDesignCreatesDocument(t *testing.T) {
	db := NewMemory()
	require.NoError(t, EnsureDesign(context.Background(), db, identity.Options{}))

	var doc designDoc
	require.NoError(t, db.Get(context.Background(), "_design/identity", &doc))

	assert.Equal(t, "javascript", doc.Language)
	assert.Len(t, doc.Views, 8)

	user := doc.Views["user"]
	assert.Contains(t, user.Map, identity.DefaultUserDiscriminator)
	assert.Equal(t, "_count", user.Reduce)

	logins := doc.Views["user.logins"]
	assert.Contains(t, logins.Map, "doc.logins.forEach")
	assert.Contains(t, logins.Map, "[item.provider, item.key]")
	assert.Empty(t, logins.Reduce)

	role := doc.Views["role.normalized_name"]
	assert.Contains(t, role.Map, identity.DefaultRoleDiscriminator)
	assert.Contains(t, role.Map, "doc.normalized_name")
}

func TestEnsureDesignIsIdempotent(t *testing.T) {
	db := NewMemory()
	ctx := context.Background()

	require.NoError(t, EnsureDesign(ctx, db, identity.Options{}))
	require.NoError(t, EnsureDesign(ctx, db, identity.Options{}))

	var doc designDoc
	require.NoError(t, db.Get(ctx, "_design/identity", &doc))
	assert.True(t, strings.HasPrefix(doc.Rev, "2-"))
}

func TestEnsureDesignCustomDiscriminators(t *testing.T) {
	db := NewMemory()
	opts := identity.Options{
		UserDiscriminator: "tenant.user",
		RoleDiscriminator: "tenant.role",
	}
	require.NoError(t, EnsureDesign(context.Background(), db, opts))

	var doc designDoc
	require.NoError(t, db.Get(context.Background(), "_design/identity", &doc))
	assert.Contains(t, doc.Views["user"].Map, `"tenant.user"`)
	assert.Contains(t, doc.Views["role"].Map, `"tenant.role"`)
}
