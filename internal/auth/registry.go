// Package auth implements the capability registry used for privileged-role
// checks. Every restricted operation asks the registry whether the caller
// holds the operation's role; a role that has never been granted authorizes
// nobody, so the system fails closed until wiring is complete.
package auth

import (
	"fmt"
	"sync"

	"github.com/verdantlabs/gardenledger/internal/domain"
)

// Role names an operation class that requires a privileged identity.
type Role string

const (
	// RoleAdmin may admin-mint items and plants.
	RoleAdmin Role = "admin"

	// RoleGameContract may mint reward tokens and consume items on behalf of
	// players. Granted to the plant lifecycle and garden orchestrator
	// identities during wiring.
	RoleGameContract Role = "game_contract"

	// RoleTreasuryOwner may withdraw the orchestrator treasury.
	RoleTreasuryOwner Role = "treasury_owner"

	// RoleReserve marks contract-held accounts excluded from circulating supply.
	RoleReserve Role = "reserve"
)

// Registry maps roles to the identity sets that hold them.
type Registry struct {
	mu     sync.RWMutex
	grants map[Role]map[domain.Account]struct{}
}

// NewRegistry creates an empty registry. All roles start unlinked.
func NewRegistry() *Registry {
	return &Registry{grants: make(map[Role]map[domain.Account]struct{})}
}

// Grant gives the account the role. Granting twice is a no-op.
func (r *Registry) Grant(role Role, account domain.Account) {
	if account.IsZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.grants[role] == nil {
		r.grants[role] = make(map[domain.Account]struct{})
	}
	r.grants[role][account] = struct{}{}
}

// Revoke removes the role from the account.
func (r *Registry) Revoke(role Role, account domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grants[role], account)
}

// Authorize returns nil when the account holds the role, and a wrapped
// domain.ErrUnauthorized otherwise. An unset role rejects every caller.
func (r *Registry) Authorize(role Role, account domain.Account) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.grants[role][account]; !ok {
		return fmt.Errorf("%w: account %q lacks role %q", domain.ErrUnauthorized, account, role)
	}
	return nil
}

// Holds reports whether the account has the role.
func (r *Registry) Holds(role Role, account domain.Account) bool {
	return r.Authorize(role, account) == nil
}

// Members returns the accounts currently holding the role.
func (r *Registry) Members(role Role) []domain.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]domain.Account, 0, len(r.grants[role]))
	for account := range r.grants[role] {
		members = append(members, account)
	}
	return members
}
