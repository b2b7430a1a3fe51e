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

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stripe/stripe-go/v82"

	"github.com/harukitakahashi812/creator-platform/config"
	"github.com/harukitakahashi812/creator-platform/database"
	"github.com/harukitakahashi812/creator-platform/internal/browser"
)

// fakeDriver stands in for the chromedp automation in tests.
type fakeDriver struct {
	publish func(ctx context.Context, creds *browser.Credentials, product browser.Product) (string, error)
	calls   int
}

func (f *fakeDriver) PublishProduct(ctx context.Context, creds *browser.Credentials, product browser.Product) (string, error) {
	f.calls++
	return f.publish(ctx, creds, product)
}

// fakeReviewer scripts the chat completion reply.
type fakeReviewer struct {
	content string
	err     error
}

func (f *fakeReviewer) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

// newTestMarketplace wires a Marketplace against the given datasource, a
// miniredis instance and inert external clients. TypeSense and webhook
// delivery stay disabled because their DSN/URL are blank in the config.
func newTestMarketplace(t *testing.T, ds database.IDataSource) *Marketplace {
	t.Helper()

	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{
		Redis:  config.RedisConfig{Dns: "redis://" + mr.Addr()},
		Queue:  config.QueueConfig{WebhookQueue: "new:webhook", IndexQueue: "new:index"},
		OpenAI: config.OpenAIConfig{ApiKey: "sk-test", Model: "gpt-4"},
	})

	conf, err := config.Fetch()
	if err != nil {
		t.Fatalf("fetching mock config: %s", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &Marketplace{
		datasource: ds,
		redis:      client,
		queue:      NewQueue(conf),
		driver: &fakeDriver{publish: func(context.Context, *browser.Credentials, browser.Product) (string, error) {
			return "", nil
		}},
		reviewer: &fakeReviewer{},
		newCheckoutSession: func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
			return &stripe.CheckoutSession{ID: "cs_test", URL: "https://checkout.stripe.com/c/pay/cs_test"}, nil
		},
	}
}
