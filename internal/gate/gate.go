package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/repit/internal/kv"
	"github.com/2beens/repit/internal/telemetry/metrics"
	"github.com/2beens/repit/internal/telemetry/tracing"
	"github.com/2beens/repit/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	FlagKey      = "repit_authenticated"
	unlockedFlag = "true"
)

var (
	ErrWrongPassword = errors.New("wrong password")
	// ErrNoSecret means the gate has no configured secret and can never be unlocked.
	ErrNoSecret = errors.New("gate secret is not configured")
)

var _ Checker = (*Service)(nil)

type Checker interface {
	IsUnlocked(ctx context.Context) (bool, error)
}

// Service guards the installation with a single shared secret. The unlocked
// state is a boolean flag persisted next to the workout data.
type Service struct {
	store          kv.Store
	flagKey        string
	secret         string
	metricsManager *metrics.Manager
}

func NewService(
	store kv.Store,
	namespace string,
	secret string,
	metricsManager *metrics.Manager,
) *Service {
	if secret == "" {
		log.Errorf("gate: secret is not set, the site stays locked")
	}
	return &Service{
		store:          store,
		flagKey:        kv.Namespaced(namespace, FlagKey),
		secret:         secret,
		metricsManager: metricsManager,
	}
}

func (s *Service) Unlock(ctx context.Context, password string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gate.unlock")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if s.secret == "" {
		return ErrNoSecret
	}
	if !pkg.SecretMatches(password, s.secret) {
		if s.metricsManager != nil {
			s.metricsManager.CounterFailedUnlockAttempts.Inc()
		}
		return ErrWrongPassword
	}

	if err := s.store.Set(ctx, s.flagKey, []byte(unlockedFlag)); err != nil {
		return fmt.Errorf("persist gate flag: %w", err)
	}
	return nil
}

func (s *Service) Lock(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gate.lock")
	defer span.End()

	if err := s.store.Del(ctx, s.flagKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		span.RecordError(err)
		return fmt.Errorf("clear gate flag: %w", err)
	}
	return nil
}

func (s *Service) IsUnlocked(ctx context.Context) (bool, error) {
	if s.secret == "" {
		return false, nil
	}

	value, err := s.store.Get(ctx, s.flagKey)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read gate flag: %w", err)
	}
	return string(value) == unlockedFlag, nil
}
