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
	"github.com/typesense/typesense-go/typesense/api"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	marketplace "github.com/harukitakahashi812/creator-platform"
	"github.com/harukitakahashi812/creator-platform/api/middleware"
	"github.com/harukitakahashi812/creator-platform/config"
	"github.com/harukitakahashi812/creator-platform/internal/apierror"
)

type Api struct {
	marketplace *marketplace.Marketplace
	router      *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/projects", a.CreateProject)
	router.GET("/projects", a.GetProjects)
	router.GET("/projects/:id", a.GetProject)
	router.DELETE("/projects/:id", a.DeleteProject)
	router.POST("/projects/:id/verify", a.VerifyProject)
	router.POST("/projects/:id/publish", a.PublishProject)

	router.POST("/checkout", a.CreateCheckoutSession)

	router.POST("/gumroad/credentials", a.SaveGumroadCredentials)
	router.POST("/gumroad/credentials/check", a.CheckGumroadCredentials)

	router.GET("/backup", a.BackupDB)
	router.GET("/backup-s3", a.BackupDBS3)

	router.POST("/search/:collection", a.Search)
	return a.router
}

func NewAPI(m *marketplace.Marketplace) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.EnableTelemetry {
		r.Use(otelgin.Middleware(conf.ProjectName))
	}
	r.Use(middleware.RateLimitMiddleware(conf))

	a := &Api{marketplace: m, router: r}

	// Offer networks call the postback from their own servers and cannot
	// present the deployment key. The callback carries its own token check,
	// so it is registered ahead of the key middleware.
	r.GET("/offerwall/callback", a.OfferwallCallback)
	r.POST("/offerwall/callback", a.OfferwallCallback)

	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return a
}

func (a Api) Search(c *gin.Context) {
	collection, passed := c.Params.Get("collection")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collection is required. pass id in the route /:collection"})
		return
	}

	var query api.SearchCollectionParams
	err := c.BindJSON(&query)
	if err != nil {
		return
	}

	resp, err := a.marketplace.Search(collection, &query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondError writes a service error with the status its code maps to.
func respondError(c *gin.Context, err error) {
	c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
}
