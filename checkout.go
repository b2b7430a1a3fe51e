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

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"

	"github.com/harukitakahashi812/creator-platform/config"
	"github.com/harukitakahashi812/creator-platform/internal/apierror"
)

// CheckoutRedirect points the buyer at the hosted payment page.
type CheckoutRedirect struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CreateCheckoutSession opens a Stripe hosted checkout for one approved
// project. The price is charged in USD cents; the project ID travels in
// the session metadata so the payment can be tied back later.
func (m *Marketplace) CreateCheckoutSession(ctx context.Context, projectID string) (*CheckoutRedirect, error) {
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	project, err := m.fetchProjectWithRetry(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := requireApproved(project); err != nil {
		return nil, err
	}
	if !project.Price.IsPositive() {
		return nil, apierror.NewAPIError(apierror.ErrPreconditionFailed, "project has no price", nil)
	}

	unitAmount := project.Price.Mul(decimal.NewFromInt(100)).IntPart()

	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(project.Title),
	}
	// Stripe rejects an empty description outright; omit it instead.
	if project.Description != "" {
		productData.Description = stripe.String(project.Description)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount:  stripe.Int64(unitAmount),
					ProductData: productData,
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(conf.Server.BaseURL + "/checkout/success?project_id=" + project.ProjectID),
		CancelURL:  stripe.String(conf.Server.BaseURL + "/checkout/cancel?project_id=" + project.ProjectID),
		Params: stripe.Params{
			Metadata: map[string]string{"projectId": project.ProjectID},
		},
	}

	sess, err := m.newCheckoutSession(params)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrServiceUnavailable, "could not create checkout session", err)
	}
	return &CheckoutRedirect{SessionID: sess.ID, URL: sess.URL}, nil
}
