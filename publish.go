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

package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wacul/ptr"
	"go.opentelemetry.io/otel"

	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/internal/browser"
	redlock "github.com/harukitakahashi812/creator-platform/internal/lock"
	"github.com/harukitakahashi812/creator-platform/internal/notification"
	"github.com/harukitakahashi812/creator-platform/internal/request"
	"github.com/harukitakahashi812/creator-platform/internal/retry"
	"github.com/harukitakahashi812/creator-platform/internal/search"
	"github.com/harukitakahashi812/creator-platform/model"
)

var publishTracer = otel.Tracer("publish.orchestrator")

// PublishProject runs the end-to-end publish flow for one project: load,
// precondition checks, browser automation, live URL validation, persist.
// A per-project lease keeps concurrent attempts out of the browser; the
// loser of the race fails fast instead of queueing behind the winner.
//
// Automation failures come back as a non-success PublishResult with the
// failed stage and manual remediation steps, not as an error. Errors are
// reserved for the orchestrator never reaching the browser at all.
func (m *Marketplace) PublishProject(ctx context.Context, projectID string) (*model.PublishResult, error) {
	ctx, span := publishTracer.Start(ctx, "Publishing project to Gumroad")
	defer span.End()

	lease := redlock.NewPublishLease(m.redis, projectID)
	if err := lease.Lock(ctx, redlock.PublishLeaseTTL); err != nil {
		if errors.Is(err, redlock.ErrLeaseHeld) {
			return nil, apierror.NewAPIError(apierror.ErrPreconditionFailed, "publish already in progress", err)
		}
		return nil, err
	}
	defer func() {
		if err := lease.Unlock(context.Background()); err != nil {
			logrus.Warnf("could not release publish lease for %s: %v", projectID, err)
		}
	}()

	project, err := m.fetchProjectWithRetry(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := requireApproved(project); err != nil {
		return nil, err
	}
	if project.Published() {
		return &model.PublishResult{
			Success:    true,
			GumroadURL: project.GumroadLink,
			Message:    "project is already published",
		}, nil
	}

	creds, err := m.fetchCredentialsWithRetry(ctx, project.OwnerID)
	if err != nil {
		return nil, err
	}

	url, err := m.driver.PublishProduct(ctx, creds, browser.Product{
		Title:       project.Title,
		Description: project.Description,
		Price:       project.Price.String(),
	})
	if err != nil {
		return publishFailure(err), nil
	}

	if err := request.CheckURLReachable(ctx, url); err != nil {
		logrus.Errorf("captured URL %s failed live validation: %v", url, err)
		return publishFailure(&browser.StageError{Stage: browser.StageURLCapture, Err: err}), nil
	}

	result := &model.PublishResult{
		Success:     true,
		GumroadURL:  url,
		Message:     "project published",
		CompletedAt: ptr.Time(time.Now()),
	}

	// The product exists on Gumroad whether or not we manage to write the
	// link down. Persistence failure degrades to a notification, never to
	// a failed result that would invite a duplicate publish.
	persistErr := retry.Do(ctx, "persist gumroad link", func() error {
		return m.datasource.UpdateProjectGumroadLink(ctx, projectID, url)
	})
	if persistErr != nil {
		logrus.Errorf("published %s but could not persist link %s: %v", projectID, url, persistErr)
		notification.NotifyError(persistErr)
		result.Message = "project published, but the link could not be saved; save it manually"
		result.Instructions = []string{"Store the product URL on the project record: " + url}
		return result, nil
	}

	project.GumroadLink = url
	go func() {
		err := m.queue.queueIndexData(project.ProjectID, search.CollectionProjects, project)
		if err != nil {
			notification.NotifyError(err)
		}
		err = SendWebhook(NewWebhook{
			Event:   EventProjectPublished,
			Payload: project,
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()
	return result, nil
}

// publishFailure folds a driver error into a PublishResult. Stage-tagged
// failures carry remediation steps; anything past the publish click warns
// about duplicate products instead of suggesting a retry.
func publishFailure(err error) *model.PublishResult {
	var stageErr *browser.StageError
	if errors.As(err, &stageErr) {
		return &model.PublishResult{
			Success:      false,
			Message:      "publish failed at stage " + string(stageErr.Stage),
			Error:        stageErr.Error(),
			Stage:        string(stageErr.Stage),
			Instructions: browser.ManualInstructions(stageErr.Stage),
			CompletedAt:  ptr.Time(time.Now()),
		}
	}
	return &model.PublishResult{
		Success:     false,
		Message:     "publish failed",
		Error:       err.Error(),
		CompletedAt: ptr.Time(time.Now()),
	}
}

func (m *Marketplace) fetchProjectWithRetry(ctx context.Context, id string) (*model.Project, error) {
	var project *model.Project
	err := retry.Do(ctx, "load project", func() error {
		p, err := m.datasource.GetProject(ctx, id)
		if err != nil {
			var apiErr apierror.APIError
			if errors.As(err, &apiErr) && apiErr.Code == apierror.ErrNotFound {
				return retry.Permanent(err)
			}
			return err
		}
		project = p
		return nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return nil, apierror.NewAPIError(apierror.ErrServiceUnavailable, "project store unavailable", err)
		}
		return nil, err
	}
	return project, nil
}

// fetchCredentialsWithRetry retries transient store failures. A user with
// no stored credentials comes back as (nil, nil); the automation then
// fails at the login stage with instructions to save credentials first.
func (m *Marketplace) fetchCredentialsWithRetry(ctx context.Context, userID string) (*browser.Credentials, error) {
	var creds *model.GumroadCredentials
	err := retry.Do(ctx, "load gumroad credentials", func() error {
		c, err := m.datasource.GetGumroadCredentials(ctx, userID)
		if err != nil {
			return err
		}
		creds = c
		return nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return nil, apierror.NewAPIError(apierror.ErrServiceUnavailable, "credential store unavailable", err)
		}
		return nil, err
	}
	if creds == nil {
		return nil, nil
	}
	return &browser.Credentials{Email: creds.Email, Password: creds.Password}, nil
}
