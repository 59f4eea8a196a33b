package users

// PasswordCheckResult is the outcome of a credential check against the store.
type PasswordCheckResult int

const (
	// PasswordCheckFailure means the password did not match. The store has
	// already recorded the failed attempt against its lockout counters.
	PasswordCheckFailure PasswordCheckResult = iota

	// PasswordCheckSuccess means the password matched and any lockout
	// counters were reset.
	PasswordCheckSuccess

	// PasswordCheckLockedOut means the account is temporarily locked after
	// repeated failures. Callers must treat this the same as a failure;
	// distinguishing it would leak account state.
	PasswordCheckLockedOut
)

// Store is the external user store the token endpoint authenticates against.
// Lockout bookkeeping lives entirely behind CheckPassword: the store owns the
// counters and makes its writes atomic.
type Store interface {
	Upsert(user *User) error
	GetByUsername(username string) (*User, error)
	GetByID(id string) (*User, error)
	CheckPassword(user *User, password string) (PasswordCheckResult, error)
	IsInRole(user *User, role string) (bool, error)
}
