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

	"github.com/harukitakahashi812/creator-platform/model"
)

type MockMarketplace struct {
	Marketplace
	mockGetProject func(string) (*model.Project, error)
}

func (m *MockMarketplace) GetProject(id string) (*model.Project, error) {
	if m.mockGetProject != nil {
		return m.mockGetProject(id)
	}
	return m.Marketplace.GetProject(context.Background(), id)
}
