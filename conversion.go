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
	"errors"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/internal/notification"
	"github.com/harukitakahashi812/creator-platform/internal/search"
	"github.com/harukitakahashi812/creator-platform/model"
)

var conversionTracer = otel.Tracer("conversion.ledger")

func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	logrus.Error(msg, err)
	return err
}

// RecordConversion applies one offerwall postback to the ledger. The same
// provider/transaction pair can arrive any number of times; only the first
// arrival has side effects, every arrival gets an accepted receipt.
func (m *Marketplace) RecordConversion(ctx context.Context, event *model.ConversionEvent) (*model.ConversionReceipt, error) {
	ctx, span := conversionTracer.Start(ctx, "Recording conversion")
	defer span.End()

	if event.UserID == "" || event.TransactionID == "" {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "conversion requires a user id and a transaction id", nil)
	}

	exists, err := m.datasource.ConversionExists(ctx, event.IdentityKey())
	if err != nil {
		return nil, logAndRecordError(span, "conversion lookup failed: ", err)
	}
	if exists {
		return &model.ConversionReceipt{Accepted: true, Duplicated: true}, nil
	}

	saved, err := m.datasource.RecordConversionEvent(ctx, event)
	if err != nil {
		// A concurrent postback can win the insert race between the
		// exists check and here. The unique key makes that a conflict,
		// which is the same duplicate outcome.
		var apiErr apierror.APIError
		if errors.As(err, &apiErr) && apiErr.Code == apierror.ErrConflict {
			return &model.ConversionReceipt{Accepted: true, Duplicated: true}, nil
		}
		return nil, logAndRecordError(span, "conversion insert failed: ", err)
	}

	receipt := &model.ConversionReceipt{Accepted: true}
	m.applyFunding(ctx, saved, receipt)

	go func() {
		err := SendWebhook(NewWebhook{
			Event:   EventConversionRecorded,
			Payload: saved,
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()
	return receipt, nil
}

// applyFunding adds the payout to the target project. The conversion event
// is already durable at this point, so a failed increment is reported but
// never rolls the event back; reconciliation against the ledger recovers it.
func (m *Marketplace) applyFunding(ctx context.Context, event *model.ConversionEvent, receipt *model.ConversionReceipt) {
	if event.ProjectID == "" || !event.Payout.IsPositive() {
		return
	}

	if err := m.datasource.IncrementFundedAmount(ctx, event.ProjectID, event.Payout); err != nil {
		logrus.Errorf("conversion %s recorded but funding increment failed: %v", event.ConversionID, err)
		notification.NotifyError(err)
		return
	}

	project, err := m.datasource.GetProject(ctx, event.ProjectID)
	if err != nil {
		logrus.Errorf("could not load project %s after funding: %v", event.ProjectID, err)
		return
	}

	receipt.FullyFunded = project.FullyFunded()
	crossed := receipt.FullyFunded && project.FundedAmount.Sub(event.Payout).LessThan(project.Price)

	go func() {
		err := m.queue.queueIndexData(project.ProjectID, search.CollectionProjects, project)
		if err != nil {
			notification.NotifyError(err)
		}
		if crossed {
			err = SendWebhook(NewWebhook{
				Event:   EventProjectFunded,
				Payload: project,
			})
			if err != nil {
				notification.NotifyError(err)
			}
		}
	}()
}
