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

	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/internal/notification"
	"github.com/harukitakahashi812/creator-platform/internal/retry"
	"github.com/harukitakahashi812/creator-platform/internal/search"
	"github.com/harukitakahashi812/creator-platform/model"
)

func (m *Marketplace) postProjectActions(_ context.Context, project *model.Project) {
	go func() {
		err := m.queue.queueIndexData(project.ProjectID, search.CollectionProjects, project)
		if err != nil {
			notification.NotifyError(err)
		}
	}()
}

// CreateProject persists a new submission. Status and funding start at
// their zero state regardless of what the caller sent.
func (m *Marketplace) CreateProject(ctx context.Context, project *model.Project) (*model.Project, error) {
	if err := project.ValidateType(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}
	if project.Title == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "project title is required", nil)
	}
	if project.Price.IsNegative() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "project price cannot be negative", nil)
	}

	created, err := m.datasource.CreateProject(ctx, project)
	if err != nil {
		return nil, err
	}
	m.postProjectActions(ctx, created)
	return created, nil
}

func (m *Marketplace) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return m.datasource.GetProject(ctx, id)
}

func (m *Marketplace) GetProjectsByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	return m.datasource.GetProjectsByOwner(ctx, ownerID)
}

// GetApprovedProjects returns the public marketplace listing.
func (m *Marketplace) GetApprovedProjects(ctx context.Context, limit, offset int) ([]model.Project, error) {
	return m.datasource.GetApprovedProjects(ctx, limit, offset)
}

func (m *Marketplace) DeleteProject(ctx context.Context, id string) error {
	return m.datasource.DeleteProject(ctx, id)
}

// updateProjectStatus persists a review decision and fans out the matching
// webhook and index update. The decision is already paid for by the time
// we get here, so transient store failures are retried before giving up.
func (m *Marketplace) updateProjectStatus(ctx context.Context, id string, status string, reason string) error {
	err := retry.Do(ctx, "persist review decision", func() error {
		if err := m.datasource.UpdateProjectStatus(ctx, id, status, reason); err != nil {
			var apiErr apierror.APIError
			if errors.As(err, &apiErr) && apiErr.Code == apierror.ErrNotFound {
				return retry.Permanent(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return apierror.NewAPIError(apierror.ErrServiceUnavailable, "project store unavailable", err)
		}
		return err
	}

	project, err := m.datasource.GetProject(ctx, id)
	if err != nil {
		notification.NotifyError(err)
		return nil
	}
	m.postProjectActions(ctx, project)
	go func() {
		err := SendWebhook(NewWebhook{
			Event:   getEventFromStatus(status),
			Payload: project,
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()
	return nil
}

func requireApproved(project *model.Project) error {
	if project.Status != model.StatusApproved {
		return apierror.NewAPIError(apierror.ErrPreconditionFailed, "project is not approved", nil)
	}
	return nil
}
