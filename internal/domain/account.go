package domain

// Account identifies a participant in the game economy. It is an opaque key:
// the ledger never interprets its contents, only compares it.
type Account string

// Zero is the empty account. Transfers to or from it are rejected.
const Zero Account = ""

// IsZero reports whether the account is the empty identity.
func (a Account) IsZero() bool {
	return a == Zero
}
