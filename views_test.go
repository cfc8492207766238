package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultViews(t *testing.T) {
	views := DefaultViews()

	for name, v := range map[string]View{
		"user":            views.User,
		"username":        views.UserNormalizedUserName,
		"email":           views.UserNormalizedEmail,
		"user roles":      views.UserRoles,
		"user claims":     views.UserClaims,
		"user logins":     views.UserLogins,
		"role":            views.Role,
		"role normalized": views.RoleNormalizedName,
	} {
		assert.Equal(t, DefaultDesign, v.Design, name)
		assert.NotEmpty(t, v.Name, name)
		assert.False(t, v.Zero(), name)
	}
}

func TestViewsLoadDefaultsFillsOnlyUnset(t *testing.T) {
	views := Views{UserLogins: View{Design: "custom", Name: "logins"}}
	views.loadDefaults()

	assert.Equal(t, View{Design: "custom", Name: "logins"}, views.UserLogins)
	assert.Equal(t, DefaultViews().User, views.User)
	assert.Equal(t, DefaultViews().RoleNormalizedName, views.RoleNormalizedName)
}
