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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harukitakahashi812/creator-platform/database/mocks"
	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/model"
)

func TestSaveGumroadCredentials(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	m := newTestMarketplace(t, mockDS)

	creds := &model.GumroadCredentials{UserID: "usr_1", Email: "creator@example.com", Password: "hunter2"}
	mockDS.On("SaveGumroadCredentials", mock.Anything, creds).Return(nil)

	require.NoError(t, m.SaveGumroadCredentials(context.Background(), creds))
	mockDS.AssertExpectations(t)
}

func TestSaveGumroadCredentialsValidation(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	m := newTestMarketplace(t, mockDS)

	cases := []*model.GumroadCredentials{
		{Email: "a@b.c", Password: "x"},
		{UserID: "usr_1", Password: "x"},
		{UserID: "usr_1", Email: "a@b.c"},
	}
	for _, creds := range cases {
		err := m.SaveGumroadCredentials(context.Background(), creds)
		require.Error(t, err)
		apiErr, ok := err.(apierror.APIError)
		require.True(t, ok)
		assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
	}
	mockDS.AssertNotCalled(t, "SaveGumroadCredentials", mock.Anything, mock.Anything)
}

func TestGetGumroadCredentialsAbsent(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	m := newTestMarketplace(t, mockDS)

	mockDS.On("GetGumroadCredentials", mock.Anything, "usr_missing").Return(nil, nil)

	creds, err := m.GetGumroadCredentials(context.Background(), "usr_missing")
	require.NoError(t, err)
	assert.Nil(t, creds)
}
