package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_NormalizesName(t *testing.T) {
	u := NewUser("alice")

	assert.Equal(t, "alice", u.UserName)
	assert.Equal(t, "ALICE", u.NormalizedUserName)
}

func TestUser_Equal_ComparesNormalizedUserNameOnly(t *testing.T) {
	a := NewUser("alice")
	b := NewUser("alice")
	b.ID = "other"
	b.Email = NewEmail("alice@example.com")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewUser("bob")))
}

func TestEmailInfo_EqualByNormalized(t *testing.T) {
	a := NewEmail("alice@example.com")
	b := EmailInfo{Address: "ALICE@example.com", Normalized: "ALICE@EXAMPLE.COM"}

	assert.True(t, a.Equal(b))
	assert.Equal(t, "ALICE@EXAMPLE.COM", a.Normalized)
}

func TestLogins_KeyedByProviderAndKey(t *testing.T) {
	var logins Logins

	require.True(t, logins.Add(LoginInfo{Provider: "google", Key: "g-1", DisplayName: "Google"}))
	require.False(t, logins.Add(LoginInfo{Provider: "google", Key: "g-1", DisplayName: "renamed"}))
	require.True(t, logins.Add(LoginInfo{Provider: "google", Key: "g-2"}))

	got, ok := logins.Find("google", "g-1")
	require.True(t, ok)
	assert.Equal(t, "Google", got.DisplayName)

	assert.True(t, logins.Remove("google", "g-1"))
	assert.False(t, logins.Remove("google", "g-1"))
	assert.Len(t, logins, 1)
}

func TestUser_JSONContract(t *testing.T) {
	u := NewUser("alice")
	u.ID = "user-1"
	u.Discriminator = "identity.user"
	u.Email = NewEmail("alice@example.com")
	u.Phone = PhoneInfo{Number: "555-0100", Confirmed: true}
	u.Password = PasswordInfo{Hash: "h", Salt: "s"}
	u.Lockout = LockoutInfo{AccessFailedCount: 2, Enabled: true}
	u.TwoFactorEnabled = true
	u.Logins.Add(LoginInfo{Provider: "google", Key: "g-1"})

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "alice", got["username"])
	assert.Equal(t, "ALICE", got["normalized_username"])
	assert.Equal(t, true, got["two_factor_enabled"])

	email, ok := got["email"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ALICE@EXAMPLE.COM", email["normalized"])

	lockout, ok := got["lockout"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, lockout["access_failed_count"])

	// Round trip keeps the collections intact.
	var back User
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Len(t, back.Logins, 1)
	assert.Equal(t, u.NormalizedUserName, back.NormalizedUserName)
}
