package fakesessionrepo

import (
	"sync"

	"github.com/jrsteele09/go-oidc-credentials/sessions"
	"github.com/pkg/errors"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	sessions map[string]*sessions.SessionData
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		sessions: make(map[string]*sessions.SessionData),
	}
}

func (sr *FakeSessionRepo) Upsert(sessionID string, sessionData *sessions.SessionData) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sessionData.ID = sessionID
	sr.sessions[sessionID] = sessionData
	return nil
}

func (sr *FakeSessionRepo) Delete(sessionID string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if _, ok := sr.sessions[sessionID]; !ok {
		return errors.New("not found")
	}
	delete(sr.sessions, sessionID)
	return nil
}

func (sr *FakeSessionRepo) Get(sessionID string) (*sessions.SessionData, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	if _, ok := sr.sessions[sessionID]; !ok {
		return nil, errors.New("not found")
	}
	return sr.sessions[sessionID], nil
}

func (sr *FakeSessionRepo) DeleteBySubject(subject string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	for id, data := range sr.sessions {
		if data.Subject == subject {
			delete(sr.sessions, id)
		}
	}
	return nil
}

// CountBySubject reports how many sessions a subject currently holds.
// Test helper, not part of the sessions.Repo contract.
func (sr *FakeSessionRepo) CountBySubject(subject string) int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	count := 0
	for _, data := range sr.sessions {
		if data.Subject == subject {
			count++
		}
	}
	return count
}
