package fakerefreshtokenrepo

import (
	"errors"
	"sync"

	"github.com/jrsteele09/go-oidc-credentials/token"
)

var _ token.RefreshTokenRepo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens   map[string]*token.StoredRefreshToken
	subjects map[string]string // subject to token string
	lock     sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens:   make(map[string]*token.StoredRefreshToken),
		subjects: make(map[string]string),
	}
}

func (rr *FakeRefreshTokenRepo) Upsert(refreshToken *token.StoredRefreshToken) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	rr.tokens[refreshToken.Token] = refreshToken
	rr.subjects[refreshToken.Subject] = refreshToken.Token
	return nil
}

func (rr *FakeRefreshTokenRepo) Delete(tokenStr string) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	rt, ok := rr.tokens[tokenStr]
	if !ok {
		return errors.New("not found")
	}
	delete(rr.tokens, tokenStr)
	if rr.subjects[rt.Subject] == tokenStr {
		delete(rr.subjects, rt.Subject)
	}
	return nil
}

func (rr *FakeRefreshTokenRepo) Get(tokenStr string) (*token.StoredRefreshToken, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	rt, ok := rr.tokens[tokenStr]
	if !ok {
		return nil, errors.New("not found")
	}
	return rt, nil
}

func (rr *FakeRefreshTokenRepo) GetBySubject(subject string) (*token.StoredRefreshToken, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	tokenStr, ok := rr.subjects[subject]
	if !ok {
		return nil, errors.New("not found")
	}
	return rr.tokens[tokenStr], nil
}
