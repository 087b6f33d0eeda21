package repofake

import (
	"context"
	"sync"

	"github.com/stepupauth/go-mfa-server/credential"
	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
)

var _ credential.Repo = (*FakeCredentialRepo)(nil)

type FakeCredentialRepo struct {
	credentials map[string]*credential.Credential // keyed by user ID
	lock        sync.RWMutex

	// FailNext makes the next call return ErrStoreUnavailable, for testing
	// the fail-open/fail-closed read paths.
	FailNext bool
}

func NewFakeCredentialRepo() *FakeCredentialRepo {
	return &FakeCredentialRepo{
		credentials: make(map[string]*credential.Credential),
	}
}

func (cr *FakeCredentialRepo) failNext() bool {
	if cr.FailNext {
		cr.FailNext = false
		return true
	}
	return false
}

func (cr *FakeCredentialRepo) GetByUserID(_ context.Context, userID string) (*credential.Credential, error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if cr.failNext() {
		return nil, internalerrors.ErrStoreUnavailable
	}
	cred, ok := cr.credentials[userID]
	if !ok {
		return nil, internalerrors.ErrNotFound
	}
	return cred, nil
}

func (cr *FakeCredentialRepo) Upsert(_ context.Context, cred *credential.Credential) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if cr.failNext() {
		return internalerrors.ErrStoreUnavailable
	}
	cr.credentials[cred.UserID] = cred
	return nil
}

func (cr *FakeCredentialRepo) Delete(_ context.Context, userID string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if cr.failNext() {
		return internalerrors.ErrStoreUnavailable
	}
	delete(cr.credentials, userID)
	return nil
}
