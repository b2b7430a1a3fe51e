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

func (a Api) CreateCheckoutSession(c *gin.Context) {
	var req model2.CreateCheckout
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := req.ValidateCreateCheckout(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	redirect, err := a.marketplace.CreateCheckoutSession(c.Request.Context(), req.ProjectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, redirect)
}
