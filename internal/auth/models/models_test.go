package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPayloadIdentity(t *testing.T) {
	payload := UserPayload{ID: "0b7f9d1e-8a5c-4f6e-9a2b-3c4d5e6f7a8b", Name: "Ana Souza", Email: "ana@example.com"}

	identity, err := payload.Identity(true)
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", identity.Name)
	assert.Equal(t, "ana@example.com", identity.Email)
	assert.True(t, identity.SystemAdmin)
}

func TestUserPayloadIdentityRejectsMalformedID(t *testing.T) {
	payload := UserPayload{ID: "not-a-uuid", Name: "Ana"}

	_, err := payload.Identity(false)
	assert.Error(t, err)
}

func TestMembershipCopiesProfiles(t *testing.T) {
	payload := OfficePayload{ID: 7, TradeName: "Souza Advogados", Profiles: []string{"Advogado", "Financeiro"}}

	membership := payload.Membership()
	payload.Profiles[0] = "mutated"

	assert.Equal(t, []string{"Advogado", "Financeiro"}, membership.Profiles)
}

func TestMembershipsPreserveOrder(t *testing.T) {
	memberships := Memberships([]OfficePayload{{ID: 8}, {ID: 7}})

	require.Len(t, memberships, 2)
	assert.Equal(t, int64(8), memberships[0].OfficeID)
	assert.Equal(t, int64(7), memberships[1].OfficeID)
}

func TestMembershipFor(t *testing.T) {
	memberships := []OfficeMembership{{OfficeID: 7}, {OfficeID: 8, Profiles: []string{"Advogado"}}}

	m, ok := MembershipFor(memberships, 8)
	require.True(t, ok)
	assert.True(t, m.HasProfile("Advogado"))
	assert.False(t, m.HasProfile("Financeiro"))

	_, ok = MembershipFor(memberships, 99)
	assert.False(t, ok)
}

func TestOperatingContextMode(t *testing.T) {
	assert.Equal(t, "administrative", AdministrativeContext().Mode())
	assert.Equal(t, "scoped", ScopedContext(7, "Advogado").Mode())
}

func TestCredentialPairValid(t *testing.T) {
	assert.False(t, CredentialPair{}.Valid())
	assert.False(t, CredentialPair{AccessToken: "a"}.Valid())
	assert.False(t, CredentialPair{RefreshToken: "r"}.Valid())
	assert.True(t, CredentialPair{AccessToken: "a", RefreshToken: "r"}.Valid())
}
