package usecase

import (
	"context"
	"sync"
	"time"

	"adalert-srv/internal/dispatch"
	"adalert-srv/internal/model"
	"adalert-srv/internal/normalizer"
	ruleRepo "adalert-srv/internal/rule/repository"
	"adalert-srv/internal/webhook"
	pkgLog "adalert-srv/pkg/log"
	pkgMinio "adalert-srv/pkg/minio"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const defaultMaxInFlight = 64

// RuleMatcher selects the rules that match an event.
type RuleMatcher interface {
	MatchAll(ctx context.Context, rules []model.NotificationRule, event model.ChangeEvent) []model.NotificationRule
}

type implUseCase struct {
	l          pkgLog.Logger
	normalizer normalizer.Normalizer
	rules      ruleRepo.Repository
	matcher    RuleMatcher
	dispatcher dispatch.UseCase
	archive    pkgMinio.MinIO
	opts       webhook.Options
	clock      func() time.Time
	newID      func() string

	sem     *semaphore.Weighted
	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

var _ webhook.UseCase = &implUseCase{}

// New wires the webhook use case. archive may be nil to disable payload archiving.
func New(
	l pkgLog.Logger,
	norm normalizer.Normalizer,
	rules ruleRepo.Repository,
	matcher RuleMatcher,
	dispatcher dispatch.UseCase,
	archive pkgMinio.MinIO,
	opts webhook.Options,
) webhook.UseCase {
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = defaultMaxInFlight
	}
	return &implUseCase{
		l:          l,
		normalizer: norm,
		rules:      rules,
		matcher:    matcher,
		dispatcher: dispatcher,
		archive:    archive,
		opts:       opts,
		clock:      time.Now,
		newID:      uuid.NewString,
		sem:        semaphore.NewWeighted(int64(opts.MaxInFlight)),
	}
}
