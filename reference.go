package purse

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	redlock "github.com/jerry-enebeli/purse/internal/lock"
	"github.com/jerry-enebeli/purse/model"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const referenceKeyPrefix = "purse:reference:"

// referenceClaims records idempotency references. A reference can be claimed
// once per TTL; releasing it lets a corrected retry use it again.
type referenceClaims interface {
	Claim(ctx context.Context, reference string) error
	Release(ctx context.Context, reference string)
}

type memoryReferences struct {
	mu      sync.Mutex
	ttl     time.Duration
	claimed map[string]time.Time
}

func newMemoryReferences(ttl time.Duration) *memoryReferences {
	return &memoryReferences{ttl: ttl, claimed: make(map[string]time.Time)}
}

func (m *memoryReferences) Claim(_ context.Context, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if expiresAt, ok := m.claimed[reference]; ok && (m.ttl <= 0 || now.Before(expiresAt)) {
		return duplicateReference(reference)
	}
	m.claimed[reference] = now.Add(m.ttl)
	return nil
}

func (m *memoryReferences) Release(_ context.Context, reference string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claimed, reference)
}

// redisReferences shares claims between every instance pointed at the same
// Redis. Each instance only releases claims it made itself.
type redisReferences struct {
	client redis.UniversalClient
	ttl    time.Duration
	holder string
}

func newRedisReferences(client redis.UniversalClient, ttl time.Duration) *redisReferences {
	return &redisReferences{client: client, ttl: ttl, holder: uuid.NewString()}
}

func (r *redisReferences) locker(reference string) *redlock.Locker {
	return redlock.NewLocker(r.client, referenceKeyPrefix+reference, r.holder)
}

func (r *redisReferences) Claim(ctx context.Context, reference string) error {
	err := r.locker(reference).Lock(ctx, r.ttl)
	if errors.Is(err, redlock.ErrLockHeld) {
		return duplicateReference(reference)
	}
	return err
}

func (r *redisReferences) Release(ctx context.Context, reference string) {
	locker := r.locker(reference)
	if err := locker.Unlock(ctx); err != nil {
		logrus.WithError(err).WithField("key", locker.Key()).Warnf("failed to release reference %s", reference)
	}
}

func duplicateReference(reference string) error {
	return &referenceError{reference: reference}
}

type referenceError struct {
	reference string
}

func (e *referenceError) Error() string {
	return "reference " + e.reference + " has already been used"
}

func (e *referenceError) Unwrap() error {
	return model.ErrDuplicateReference
}

// claimReference is a no-op for empty references.
func (p *Purse) claimReference(ctx context.Context, reference string) error {
	if reference == "" {
		return nil
	}
	return p.references.Claim(ctx, reference)
}

func (p *Purse) releaseReference(ctx context.Context, reference string) {
	if reference == "" {
		return
	}
	// the caller's context may already be cancelled; the release must still happen
	p.references.Release(context.WithoutCancel(ctx), reference)
}
