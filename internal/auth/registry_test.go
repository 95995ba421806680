package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdantlabs/gardenledger/internal/domain"
)

func TestRegistryFailsClosed(t *testing.T) {
	r := NewRegistry()

	// Nothing granted yet: every check must fail.
	err := r.Authorize(RoleGameContract, "anyone")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestGrantAndAuthorize(t *testing.T) {
	r := NewRegistry()
	r.Grant(RoleAdmin, "deployer")

	assert.NoError(t, r.Authorize(RoleAdmin, "deployer"))
	assert.Error(t, r.Authorize(RoleAdmin, "someone-else"))
	assert.Error(t, r.Authorize(RoleGameContract, "deployer"), "role grants do not leak across roles")
}

func TestRevoke(t *testing.T) {
	r := NewRegistry()
	r.Grant(RoleTreasuryOwner, "owner")
	assert.True(t, r.Holds(RoleTreasuryOwner, "owner"))

	r.Revoke(RoleTreasuryOwner, "owner")
	assert.False(t, r.Holds(RoleTreasuryOwner, "owner"))
}

func TestGrantZeroAccountIgnored(t *testing.T) {
	r := NewRegistry()
	r.Grant(RoleAdmin, domain.Zero)
	assert.Empty(t, r.Members(RoleAdmin))
}

func TestMembers(t *testing.T) {
	r := NewRegistry()
	r.Grant(RoleReserve, "treasury")
	r.Grant(RoleReserve, "vault")
	r.Grant(RoleReserve, "vault") // duplicate grant is a no-op

	members := r.Members(RoleReserve)
	assert.Len(t, members, 2)
	assert.ElementsMatch(t, []domain.Account{"treasury", "vault"}, members)
}
