// Package redlock provides the per-project publish lease. Two concurrent
// publish calls for the same project could otherwise both pass the
// "not yet published" check and create two live products; the lease closes
// that race. The TTL is a safety valve for crashed holders, not a schedule.
package redlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harukitakahashi812/creator-platform/model"
)

// PublishLeaseTTL bounds how long a crashed publish run can keep other
// callers out. A full browser run finishes well inside this.
const PublishLeaseTTL = 10 * time.Minute

// ErrLeaseHeld is returned when another publish run holds the lease.
// Callers fail fast on it instead of queueing behind the browser.
var ErrLeaseHeld = errors.New("publish already in progress")

type Locker struct {
	client redis.UniversalClient
	key    string
	value  string // Ensures only the lease holder can release or renew
}

func NewLocker(client redis.UniversalClient, key, value string) *Locker {
	return &Locker{
		client: client,
		key:    key,
		value:  value,
	}
}

// NewPublishLease builds the lease guarding one project's publish
// check-then-act sequence. The holder token is random per acquisition.
func NewPublishLease(client redis.UniversalClient, projectID string) *Locker {
	return NewLocker(client, fmt.Sprintf("publish:%s", projectID), model.GenerateUUIDWithSuffix("lease"))
}

func (l *Locker) Lock(ctx context.Context, timeout time.Duration) error {
	success, err := l.client.SetNX(ctx, l.key, l.value, timeout).Result()
	if err != nil {
		return err
	}
	if !success {
		return fmt.Errorf("%w: key %s", ErrLeaseHeld, l.key)
	}
	return nil
}

func (l *Locker) Unlock(ctx context.Context) error {
	script := "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("unlock failed, either lock expired or you're not the lock holder for key %s", l.key)
	}
	return nil
}

func (l *Locker) ExtendLock(ctx context.Context, extension time.Duration) error {
	script := "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('pexpire', KEYS[1], ARGV[2]) else return 0 end"
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.value, fmt.Sprintf("%d", extension.Milliseconds())).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("lock extension failed for key %s, either lock expired or you're not the holder", l.key)
	}
	return nil
}
