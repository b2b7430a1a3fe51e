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
package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/harukitakahashi812/creator-platform/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Project methods

func (m *MockDataSource) CreateProject(ctx context.Context, prj *model.Project) (*model.Project, error) {
	args := m.Called(ctx, prj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockDataSource) GetProject(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockDataSource) GetProjectsByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockDataSource) GetApprovedProjects(ctx context.Context, limit, offset int) ([]model.Project, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockDataSource) UpdateProjectStatus(ctx context.Context, id string, status string, reason string) error {
	args := m.Called(ctx, id, status, reason)
	return args.Error(0)
}

func (m *MockDataSource) UpdateProjectGumroadLink(ctx context.Context, id string, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *MockDataSource) IncrementFundedAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockDataSource) DeleteProject(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Conversion methods

func (m *MockDataSource) RecordConversionEvent(ctx context.Context, event *model.ConversionEvent) (*model.ConversionEvent, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConversionEvent), args.Error(1)
}

func (m *MockDataSource) ConversionExists(ctx context.Context, identityKey string) (bool, error) {
	args := m.Called(ctx, identityKey)
	return args.Bool(0), args.Error(1)
}

// Credential methods

func (m *MockDataSource) SaveGumroadCredentials(ctx context.Context, creds *model.GumroadCredentials) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}

func (m *MockDataSource) GetGumroadCredentials(ctx context.Context, userID string) (*model.GumroadCredentials, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GumroadCredentials), args.Error(1)
}
