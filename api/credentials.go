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
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/harukitakahashi812/creator-platform/api/model"
)

func (a Api) SaveGumroadCredentials(c *gin.Context) {
	var req model2.SaveCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := req.ValidateSaveCredentials(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := a.marketplace.SaveGumroadCredentials(c.Request.Context(), req.ToCredentials()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// CheckGumroadCredentials reports whether a user has a stored login. The
// password itself never leaves the store.
func (a Api) CheckGumroadCredentials(c *gin.Context) {
	var req model2.CheckCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := req.ValidateCheckCredentials(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	creds, err := a.marketplace.GetGumroadCredentials(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if creds == nil {
		c.JSON(http.StatusOK, gin.H{"has_credentials": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_credentials": true, "email": creds.Email})
}
