package couch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	identity "github.com/panoukos41/couchdb-identity"
)

// statusError mimics the driver errors kivik.HTTPStatus understands.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string   { return e.msg }
func (e *statusError) HTTPStatus() int { return e.status }

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing document", &statusError{404, "missing"}, identity.ErrNotFound},
		{"revision mismatch", &statusError{409, "document update conflict"}, identity.ErrConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mapError(tc.err)
			assert.ErrorIs(t, got, tc.want)
			// The driver's detail stays in the message.
			assert.Contains(t, got.Error(), tc.err.Error())
		})
	}
}

func TestMapError_PassesTransportErrorsThrough(t *testing.T) {
	cause := errors.New("connection refused")
	got := mapError(cause)

	assert.ErrorIs(t, got, cause)
	assert.False(t, errors.Is(got, identity.ErrNotFound))
	assert.False(t, errors.Is(got, identity.ErrConflict))
}

func TestViewQuery_Params(t *testing.T) {
	q := ViewQuery{Key: "NINJA", IncludeDocs: true, Limit: 10}
	p := q.params()

	assert.Equal(t, "NINJA", p["key"])
	assert.Equal(t, true, p["include_docs"])
	assert.Equal(t, 10, p["limit"])
	assert.Equal(t, false, p["reduce"])
}

func TestViewQuery_Params_ReduceOmitsRowOptions(t *testing.T) {
	p := ViewQuery{Reduce: true}.params()

	assert.Equal(t, true, p["reduce"])
	assert.NotContains(t, p, "key")
	assert.NotContains(t, p, "include_docs")
	assert.NotContains(t, p, "limit")
}
