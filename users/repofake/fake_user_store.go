package fakeuserstore

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-oidc-credentials/users"
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 5 * time.Minute
)

var _ users.Store = (*FakeUserStore)(nil)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// FakeUserStore is an in-memory users.Store with lockout-on-failure tracking.
type FakeUserStore struct {
	users       map[string]*users.User
	usernameIds map[string]string // username to user id
	failures    map[string]int    // user id to consecutive failed attempts
	lockedUntil map[string]time.Time
	lock        sync.RWMutex
}

func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{
		users:       make(map[string]*users.User),
		usernameIds: make(map[string]string),
		failures:    make(map[string]int),
		lockedUntil: make(map[string]time.Time),
	}
}

func (us *FakeUserStore) Upsert(user *users.User) error {
	us.lock.Lock()
	defer us.lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.SecurityStamp == "" {
		user.SecurityStamp = uuid.New().String()
	}
	us.users[user.ID] = user
	us.usernameIds[user.Username] = user.ID
	return nil
}

func (us *FakeUserStore) GetByUsername(username string) (*users.User, error) {
	us.lock.RLock()
	defer us.lock.RUnlock()

	id, ok := us.usernameIds[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return us.users[id], nil
}

func (us *FakeUserStore) GetByID(id string) (*users.User, error) {
	us.lock.RLock()
	defer us.lock.RUnlock()

	if _, ok := us.users[id]; !ok {
		return nil, errors.New("not found")
	}
	return us.users[id], nil
}

// CheckPassword verifies the password and maintains the lockout counters:
// repeated failures lock the account for lockoutDuration, a success resets
// the counter.
func (us *FakeUserStore) CheckPassword(user *users.User, password string) (users.PasswordCheckResult, error) {
	us.lock.Lock()
	defer us.lock.Unlock()

	if until, ok := us.lockedUntil[user.ID]; ok {
		if NowTimeFunc().Before(until) {
			return users.PasswordCheckLockedOut, nil
		}
		delete(us.lockedUntil, user.ID)
		us.failures[user.ID] = 0
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		us.failures[user.ID]++
		if us.failures[user.ID] >= maxFailedAttempts {
			us.lockedUntil[user.ID] = NowTimeFunc().Add(lockoutDuration)
		}
		return users.PasswordCheckFailure, nil
	}

	us.failures[user.ID] = 0
	return users.PasswordCheckSuccess, nil
}

func (us *FakeUserStore) IsInRole(user *users.User, role string) (bool, error) {
	us.lock.RLock()
	defer us.lock.RUnlock()

	stored, ok := us.users[user.ID]
	if !ok {
		return false, errors.New("not found")
	}
	return stored.HasRole(role), nil
}
