/*
Copyright 2025 Creator Platform Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package retry carries the single retry policy applied to every storage
// touchpoint in the publish and verification paths. Call sites do not
// configure their own loops; exhausted retries surface as ErrExhausted so
// callers can distinguish "storage unavailable" from "does not exist".
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	// MaxAttempts bounds the total number of tries, not the retries.
	MaxAttempts = 3
	// Delay is the fixed pause between attempts.
	Delay = 1 * time.Second
)

// ErrExhausted wraps the last error once all attempts are spent.
var ErrExhausted = errors.New("retries exhausted")

// Permanent marks an error as non-retriable. Precondition failures go
// through here so the policy gives up immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op under the unified policy: MaxAttempts tries with a constant
// Delay between them. Attempts stop early when ctx is done or op returns a
// Permanent error.
func Do(ctx context.Context, name string, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(Delay), MaxAttempts-1), ctx)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := op()
		if err != nil && attempt < MaxAttempts {
			logrus.WithFields(logrus.Fields{
				"operation": name,
				"attempt":   attempt,
			}).Warnf("retrying after error: %v", err)
		}
		return err
	}, policy)
	if err == nil {
		return nil
	}

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return errors.Join(ErrExhausted, err)
}
