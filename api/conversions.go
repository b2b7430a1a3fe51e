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
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harukitakahashi812/creator-platform/config"
	"github.com/harukitakahashi812/creator-platform/model"
)

// Offerwall networks disagree on parameter names. One canonical alias
// table, first non-empty value wins; on POST the JSON body outranks the
// query string.
var postbackAliases = map[string][]string{
	"provider":       {"provider", "network"},
	"user_id":        {"user_id", "uid", "user", "userid", "playerid"},
	"project_id":     {"subid", "sub_id", "s2", "aff_sub2", "project_id"},
	"transaction_id": {"transaction_id", "tx", "conv_id", "click_id", "id"},
	"payout":         {"payout", "amount", "reward", "revenue"},
}

// OfferwallCallback handles conversion postbacks from offerwall networks.
// GET carries everything in the query string; POST may add a form-encoded
// or JSON body. The same postback retried by the network gets the same
// 200 answer.
func (a Api) OfferwallCallback(c *gin.Context) {
	if !a.callbackTokenValid(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid callback token"})
		return
	}

	params := collectPostbackParams(c)
	resolved := make(map[string]string, len(postbackAliases))
	for canonical, aliases := range postbackAliases {
		for _, alias := range aliases {
			if v, ok := params[alias]; ok && v != "" {
				resolved[canonical] = v
				break
			}
		}
	}

	if resolved["user_id"] == "" || resolved["transaction_id"] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "user and transaction identifiers are required"})
		return
	}

	provider := resolved["provider"]
	if provider == "" {
		provider = "offerwall"
	}

	event := &model.ConversionEvent{
		Provider:      provider,
		TransactionID: resolved["transaction_id"],
		UserID:        resolved["user_id"],
		ProjectID:     resolved["project_id"],
		Payout:        model.ParsePayout(resolved["payout"]),
		RawParams:     params,
	}

	receipt, err := a.marketplace.RecordConversion(c.Request.Context(), event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// collectPostbackParams flattens the query string and, on POST, the
// form-encoded or JSON body into one string map. Body values overwrite
// query values.
func collectPostbackParams(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	if c.Request.Method != http.MethodPost || c.Request.Body == nil {
		return params
	}

	if c.ContentType() == "application/x-www-form-urlencoded" {
		if err := c.Request.ParseForm(); err != nil {
			return params
		}
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}
		return params
	}

	var body map[string]interface{}
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err == nil {
		for key, value := range body {
			switch v := value.(type) {
			case string:
				params[key] = v
			case float64:
				params[key] = formatNumber(v)
			case bool:
				if v {
					params[key] = "true"
				} else {
					params[key] = "false"
				}
			}
		}
	}
	return params
}

// formatNumber formats a JSON number without a trailing ".000000".
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// callbackTokenValid enforces the optional shared-secret gate. With no
// token configured every caller is accepted; that is a documented
// simplification, not a security model.
func (a Api) callbackTokenValid(c *gin.Context) bool {
	conf, err := config.Fetch()
	if err != nil {
		return false
	}
	expected := conf.Offerwall.CallbackToken
	if expected == "" {
		return true
	}

	presented := c.Query("token")
	if header := c.GetHeader("Authorization"); header != "" {
		presented = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return presented == expected
}
