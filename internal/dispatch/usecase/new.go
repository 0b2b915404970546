package usecase

import (
	"sync"
	"time"

	"adalert-srv/internal/channel"
	"adalert-srv/internal/dispatch"
	integrationRepo "adalert-srv/internal/integration/repository"
	logRepo "adalert-srv/internal/notificationlog/repository"
	pkgLog "adalert-srv/pkg/log"

	"github.com/google/uuid"
)

type implUseCase struct {
	l            pkgLog.Logger
	guard        dispatch.Guard
	integrations integrationRepo.Repository
	logs         logRepo.Repository
	senders      channel.Registry
	opts         dispatch.Options
	clock        func() time.Time
	newID        func() string

	closed    chan struct{}
	closeOnce sync.Once
}

var _ dispatch.UseCase = &implUseCase{}

func New(
	l pkgLog.Logger,
	guard dispatch.Guard,
	integrations integrationRepo.Repository,
	logs logRepo.Repository,
	senders channel.Registry,
	opts dispatch.Options,
) dispatch.UseCase {
	return &implUseCase{
		l:            l,
		guard:        guard,
		integrations: integrations,
		logs:         logs,
		senders:      senders,
		opts:         opts.WithDefaults(),
		clock:        time.Now,
		newID:        uuid.NewString,
		closed:       make(chan struct{}),
	}
}

func (uc *implUseCase) Close() {
	uc.closeOnce.Do(func() { close(uc.closed) })
}
