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

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	model2 "github.com/harukitakahashi812/creator-platform/api/model"
	"github.com/harukitakahashi812/creator-platform/database/mocks"
	"github.com/harukitakahashi812/creator-platform/model"
)

func TestSaveGumroadCredentialsEndpoint(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS, "")

	payload := model2.SaveCredentials{
		UserID:   "usr_1",
		Email:    "creator@example.com",
		Password: "hunter2",
	}
	body, _ := json.Marshal(payload)

	mockDS.On("SaveGumroadCredentials", mock.Anything, mock.MatchedBy(func(c *model.GumroadCredentials) bool {
		return c.UserID == "usr_1" && c.Email == "creator@example.com"
	})).Return(nil)

	var response map[string]bool
	resp, err := SetUpTestRequest(TestRequest{
		Method:   http.MethodPost,
		Route:    "/gumroad/credentials",
		Payload:  bytes.NewBuffer(body),
		Router:   router,
		Response: &response,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, response["saved"])
	mockDS.AssertExpectations(t)
}

func TestSaveGumroadCredentialsEndpointValidation(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS, "")

	body, _ := json.Marshal(model2.SaveCredentials{UserID: "usr_1", Email: "not-an-email", Password: "x"})
	resp, err := SetUpTestRequest(TestRequest{
		Method:  http.MethodPost,
		Route:   "/gumroad/credentials",
		Payload: bytes.NewBuffer(body),
		Router:  router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockDS.AssertNotCalled(t, "SaveGumroadCredentials", mock.Anything, mock.Anything)
}

func TestCheckGumroadCredentialsEndpoint(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS, "")

	mockDS.On("GetGumroadCredentials", mock.Anything, "usr_1").Return(&model.GumroadCredentials{
		UserID: "usr_1",
		Email:  "creator@example.com",
	}, nil)

	body, _ := json.Marshal(model2.CheckCredentials{UserID: "usr_1"})
	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Method:   http.MethodPost,
		Route:    "/gumroad/credentials/check",
		Payload:  bytes.NewBuffer(body),
		Router:   router,
		Response: &response,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, response["has_credentials"])
	assert.Equal(t, "creator@example.com", response["email"])
}

func TestCheckGumroadCredentialsEndpointAbsent(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS, "")

	mockDS.On("GetGumroadCredentials", mock.Anything, "usr_2").Return(nil, nil)

	body, _ := json.Marshal(model2.CheckCredentials{UserID: "usr_2"})
	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Method:   http.MethodPost,
		Route:    "/gumroad/credentials/check",
		Payload:  bytes.NewBuffer(body),
		Router:   router,
		Response: &response,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, false, response["has_credentials"])
}
