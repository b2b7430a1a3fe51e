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
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	marketplace "github.com/harukitakahashi812/creator-platform"
	"github.com/harukitakahashi812/creator-platform/config"
	"github.com/harukitakahashi812/creator-platform/database"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	if s.Response != nil {
		err := json.NewDecoder(resp.Body).Decode(&s.Response)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// setupRouter builds the full router against the given datasource and a
// throwaway redis. The callback token can be set per test through
// config.MockConfig before issuing requests.
func setupRouter(t *testing.T, ds database.IDataSource, callbackToken string) *gin.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{
		Redis:     config.RedisConfig{Dns: "redis://" + mr.Addr()},
		Queue:     config.QueueConfig{WebhookQueue: "new:webhook", IndexQueue: "new:index"},
		Offerwall: config.OfferwallConfig{CallbackToken: callbackToken},
	})

	m, err := marketplace.NewMarketplace(ds)
	require.NoError(t, err)
	return NewAPI(m).Router()
}

// setupSecureRouter is setupRouter with the deployment key check enabled.
func setupSecureRouter(t *testing.T, ds database.IDataSource, secretKey string) *gin.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{
		Server:    config.ServerConfig{Secure: true, SecretKey: secretKey},
		Redis:     config.RedisConfig{Dns: "redis://" + mr.Addr()},
		Queue:     config.QueueConfig{WebhookQueue: "new:webhook", IndexQueue: "new:index"},
		Offerwall: config.OfferwallConfig{},
	})

	m, err := marketplace.NewMarketplace(ds)
	require.NoError(t, err)
	return NewAPI(m).Router()
}
