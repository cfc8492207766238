package check

import (
	"testing"

	"github.com/stretchr/testify/assert"

	identity "github.com/panoukos41/couchdb-identity"
)

func TestNotEmpty(t *testing.T) {
	assert.NoError(t, NotEmpty("id", "abc"))
	assert.ErrorIs(t, NotEmpty("id", ""), identity.ErrInvalidArgument)
	assert.ErrorIs(t, NotEmpty("id", "   "), identity.ErrInvalidArgument)
}

func TestNil(t *testing.T) {
	err := Nil("user")
	assert.ErrorIs(t, err, identity.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "user")
}
