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

	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/model"
)

// SaveGumroadCredentials stores a user's Gumroad login wholesale. A second
// save replaces the first; there is no partial update.
func (m *Marketplace) SaveGumroadCredentials(ctx context.Context, creds *model.GumroadCredentials) error {
	if creds.UserID == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "user id is required", nil)
	}
	if creds.Email == "" || creds.Password == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "email and password are required", nil)
	}
	return m.datasource.SaveGumroadCredentials(ctx, creds)
}

// GetGumroadCredentials returns the stored login, or (nil, nil) when the
// user has never saved one. Absence is not an error here; the publish flow
// decides what to do about it.
func (m *Marketplace) GetGumroadCredentials(ctx context.Context, userID string) (*model.GumroadCredentials, error) {
	return m.datasource.GetGumroadCredentials(ctx, userID)
}
