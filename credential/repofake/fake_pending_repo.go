package repofake

import (
	"context"
	"sync"

	"github.com/stepupauth/go-mfa-server/credential"
	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
)

var _ credential.PendingRepo = (*FakePendingRepo)(nil)

type FakePendingRepo struct {
	pending  map[string]*credential.PendingEnrollment // keyed by user ID
	lock     sync.RWMutex
	FailNext bool
}

func NewFakePendingRepo() *FakePendingRepo {
	return &FakePendingRepo{
		pending: make(map[string]*credential.PendingEnrollment),
	}
}

func (pr *FakePendingRepo) failNext() bool {
	if pr.FailNext {
		pr.FailNext = false
		return true
	}
	return false
}

func (pr *FakePendingRepo) GetByUserID(_ context.Context, userID string) (*credential.PendingEnrollment, error) {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if pr.failNext() {
		return nil, internalerrors.ErrStoreUnavailable
	}
	pending, ok := pr.pending[userID]
	if !ok {
		return nil, internalerrors.ErrNotFound
	}
	return pending, nil
}

func (pr *FakePendingRepo) Upsert(_ context.Context, pending *credential.PendingEnrollment) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if pr.failNext() {
		return internalerrors.ErrStoreUnavailable
	}
	pr.pending[pending.UserID] = pending
	return nil
}

func (pr *FakePendingRepo) Delete(_ context.Context, userID string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if pr.failNext() {
		return internalerrors.ErrStoreUnavailable
	}
	delete(pr.pending, userID)
	return nil
}
