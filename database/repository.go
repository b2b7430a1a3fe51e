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

package database

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/harukitakahashi812/creator-platform/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	project    // Interface for project-related operations
	conversion // Interface for conversion ledger operations
	credential // Interface for credential store operations
}

// project defines methods for handling projects.
type project interface {
	CreateProject(ctx context.Context, prj *model.Project) (*model.Project, error)              // Creates a new project
	GetProject(ctx context.Context, id string) (*model.Project, error)                          // Retrieves a project by ID
	GetProjectsByOwner(ctx context.Context, ownerID string) ([]model.Project, error)            // Retrieves all projects of one owner
	GetApprovedProjects(ctx context.Context, limit, offset int) ([]model.Project, error)        // Retrieves the public marketplace listing
	UpdateProjectStatus(ctx context.Context, id string, status string, reason string) error     // Updates status and optional rejection reason
	UpdateProjectGumroadLink(ctx context.Context, id string, url string) error                  // Stores the validated product URL
	IncrementFundedAmount(ctx context.Context, id string, amount decimal.Decimal) error         // Server-side atomic funding add
	DeleteProject(ctx context.Context, id string) error                                         // Deletes a project
}

// conversion defines methods for the conversion ledger.
type conversion interface {
	RecordConversionEvent(ctx context.Context, event *model.ConversionEvent) (*model.ConversionEvent, error) // Persists a first-seen conversion
	ConversionExists(ctx context.Context, identityKey string) (bool, error)                                  // Checks the idempotency key
}

// credential defines methods for the credential store.
type credential interface {
	SaveGumroadCredentials(ctx context.Context, creds *model.GumroadCredentials) error       // Upserts a user's login wholesale
	GetGumroadCredentials(ctx context.Context, userID string) (*model.GumroadCredentials, error) // Returns (nil, nil) when absent
}
