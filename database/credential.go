package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/model"
)

// SaveGumroadCredentials overwrites a user's login wholesale. Passwords are
// stored as provided; encryption at rest is a known gap, not an oversight.
func (d Datasource) SaveGumroadCredentials(ctx context.Context, creds *model.GumroadCredentials) error {
	creds.UpdatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO gumroad_credentials (user_id, email, password, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id)
		DO UPDATE SET email = EXCLUDED.email, password = EXCLUDED.password, updated_at = EXCLUDED.updated_at
	`, creds.UserID, creds.Email, creds.Password, creds.UpdatedAt)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to save credentials", err)
	}
	return nil
}

// GetGumroadCredentials returns (nil, nil) when the user has no stored
// login. Absence is an expected state, not an error; the publish flow then
// fails at the login stage with remediation steps.
func (d Datasource) GetGumroadCredentials(ctx context.Context, userID string) (*model.GumroadCredentials, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT user_id, email, password, updated_at
		FROM gumroad_credentials
		WHERE user_id = $1
	`, userID)

	creds := &model.GumroadCredentials{}
	err := row.Scan(&creds.UserID, &creds.Email, &creds.Password, &creds.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve credentials", err)
	}
	return creds, nil
}
