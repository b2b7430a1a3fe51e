package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/model"
)

// RecordConversionEvent persists a first-seen conversion. The identity_key
// unique constraint is the last line of defence against two postbacks
// racing past the exists check; a unique violation surfaces as Conflict so
// the ledger can treat it as a duplicate, not a failure.
func (d Datasource) RecordConversionEvent(ctx context.Context, event *model.ConversionEvent) (*model.ConversionEvent, error) {
	ctx, span := otel.Tracer("conversion.ledger").Start(ctx, "Saving conversion to db")
	defer span.End()

	rawParamsJSON, err := json.Marshal(event.RawParams)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal raw params", err)
	}

	event.ConversionID = model.GenerateUUIDWithSuffix("cnv")
	event.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO conversions (conversion_id, identity_key, provider, transaction_id, user_id, project_id, payout, raw_params, created_at)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7,$8,$9)
	`, event.ConversionID, event.IdentityKey(), event.Provider, event.TransactionID, event.UserID, event.ProjectID, event.Payout, rawParamsJSON, event.CreatedAt)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "Conversion with this identity key already recorded", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record conversion", err)
	}

	return event, nil
}

func (d Datasource) ConversionExists(ctx context.Context, identityKey string) (bool, error) {
	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM conversions
			WHERE identity_key = $1
		)
	`, identityKey).Scan(&exists)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check conversion existence", err)
	}
	return exists, nil
}
