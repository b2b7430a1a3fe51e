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
	"embed"

	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/typesense/typesense-go/typesense/api"

	"github.com/harukitakahashi812/creator-platform/config"
	"github.com/harukitakahashi812/creator-platform/database"
	"github.com/harukitakahashi812/creator-platform/internal/browser"
	redis_db "github.com/harukitakahashi812/creator-platform/internal/redis-db"
	"github.com/harukitakahashi812/creator-platform/internal/search"
)

// chatCompleter is the slice of the OpenAI client the verification
// pipeline needs. Tests substitute a scripted reviewer.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Marketplace represents the main struct for the creator platform application.
type Marketplace struct {
	queue      *Queue
	search     *search.TypesenseClient
	redis      redis.UniversalClient
	datasource database.IDataSource
	driver     browser.Driver
	reviewer   chatCompleter

	newCheckoutSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewMarketplace initializes a new instance of Marketplace with the provided
// database datasource. It fetches the configuration and initializes the Redis
// client, task queue, search client, browser driver and API clients.
func NewMarketplace(db database.IDataSource) (*Marketplace, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient(configuration.Redis.Dns, configuration.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)
	newSearch := search.NewTypesenseClient(configuration.TypeSenseKey, []string{configuration.TypeSense.Dns})

	stripe.Key = configuration.Stripe.SecretKey

	newMarketplace := &Marketplace{
		datasource:         db,
		queue:              newQueue,
		redis:              redisClient.Client(),
		search:             newSearch,
		driver:             browser.NewChromeDriver(configuration.Gumroad),
		reviewer:           openai.NewClient(configuration.OpenAI.ApiKey),
		newCheckoutSession: session.New,
	}
	return newMarketplace, nil
}

// Search performs a search on the specified collection using the provided
// query parameters.
func (m *Marketplace) Search(collection string, query *api.SearchCollectionParams) (interface{}, error) {
	return m.search.Search(context.Background(), collection, query)
}

// MultiSearch performs a multi-search operation across collections.
func (m *Marketplace) MultiSearch(searchParams *api.MultiSearchSearchesParameter) (*api.MultiSearchResult, error) {
	return m.search.MultiSearch(context.Background(), *searchParams)
}
