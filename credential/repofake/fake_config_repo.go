package repofake

import (
	"context"
	"sync"

	"github.com/stepupauth/go-mfa-server/credential"
	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
)

var _ credential.ConfigRepo = (*FakeConfigRepo)(nil)

type FakeConfigRepo struct {
	config   *credential.GlobalConfig
	lock     sync.RWMutex
	FailNext bool
}

func NewFakeConfigRepo() *FakeConfigRepo {
	return &FakeConfigRepo{}
}

func (cr *FakeConfigRepo) Get(_ context.Context) (*credential.GlobalConfig, error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if cr.FailNext {
		cr.FailNext = false
		return nil, internalerrors.ErrStoreUnavailable
	}
	if cr.config == nil {
		return nil, internalerrors.ErrNotFound
	}
	cfg := *cr.config
	return &cfg, nil
}

func (cr *FakeConfigRepo) Upsert(_ context.Context, cfg *credential.GlobalConfig) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if cr.FailNext {
		cr.FailNext = false
		return internalerrors.ErrStoreUnavailable
	}
	value := *cfg
	cr.config = &value
	return nil
}
