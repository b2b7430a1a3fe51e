package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/model"
)

func (d Datasource) CreateProject(ctx context.Context, prj *model.Project) (*model.Project, error) {
	prj.ProjectID = model.GenerateUUIDWithSuffix("prj")
	prj.Status = model.StatusPending
	prj.FundedAmount = decimal.Zero
	prj.CreatedAt = time.Now()
	prj.UpdatedAt = prj.CreatedAt

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO projects (project_id, owner_id, title, description, project_type, price, subscription, billing_interval, deadline, file_link, status, funded_amount, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, prj.ProjectID, prj.OwnerID, prj.Title, prj.Description, prj.ProjectType, prj.Price, prj.Subscription, nullString(prj.BillingInterval), prj.Deadline, nullString(prj.FileLink), prj.Status, prj.FundedAmount, prj.CreatedAt, prj.UpdatedAt)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "Project with this ID already exists", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create project", err)
	}

	return prj, nil
}

const projectCacheTTL = 5 * time.Minute

func projectCacheKey(id string) string {
	return "project:" + id
}

func (d Datasource) GetProject(ctx context.Context, id string) (*model.Project, error) {
	if d.Cache != nil {
		cached := &model.Project{}
		if err := d.Cache.Get(ctx, projectCacheKey(id), cached); err == nil && cached.ProjectID != "" {
			return cached, nil
		}
	}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT project_id, owner_id, title, description, project_type, price, subscription, billing_interval, deadline, file_link, status, rejection_reason, gumroad_link, funded_amount, created_at, updated_at
		FROM projects
		WHERE project_id = $1
	`, id)

	prj, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Project with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve project", err)
	}

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, projectCacheKey(id), prj, projectCacheTTL); err != nil {
			logrus.Warnf("failed to cache project %s: %v", id, err)
		}
	}
	return prj, nil
}

// evictProject drops the cached copy after any write so the next read
// picks up the fresh row.
func (d Datasource) evictProject(ctx context.Context, id string) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Delete(ctx, projectCacheKey(id)); err != nil {
		logrus.Warnf("failed to evict project %s from cache: %v", id, err)
	}
}

func (d Datasource) GetProjectsByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT project_id, owner_id, title, description, project_type, price, subscription, billing_interval, deadline, file_link, status, rejection_reason, gumroad_link, funded_amount, created_at, updated_at
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve projects", err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

func (d Datasource) GetApprovedProjects(ctx context.Context, limit, offset int) ([]model.Project, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT project_id, owner_id, title, description, project_type, price, subscription, billing_interval, deadline, file_link, status, rejection_reason, gumroad_link, funded_amount, created_at, updated_at
		FROM projects
		WHERE status = 'approved'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve approved projects", err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

func (d Datasource) UpdateProjectStatus(ctx context.Context, id string, status string, reason string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE projects
		SET status = $2, rejection_reason = NULLIF($3, ''), updated_at = NOW()
		WHERE project_id = $1
	`, id, status, reason)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update project status", err)
	}
	d.evictProject(ctx, id)
	return requireRowAffected(result, id)
}

func (d Datasource) UpdateProjectGumroadLink(ctx context.Context, id string, url string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE projects
		SET gumroad_link = $2, updated_at = NOW()
		WHERE project_id = $1
	`, id, url)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to store product link", err)
	}
	d.evictProject(ctx, id)
	return requireRowAffected(result, id)
}

// IncrementFundedAmount applies a funding credit as a server-side atomic
// add. Concurrent postbacks for the same project must never lose an
// update, so this is not a read-modify-write.
func (d Datasource) IncrementFundedAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	ctx, span := otel.Tracer("conversion.ledger").Start(ctx, "Incrementing funded amount")
	defer span.End()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE projects
		SET funded_amount = funded_amount + $2, updated_at = NOW()
		WHERE project_id = $1
	`, id, amount)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to increment funded amount", err)
	}
	d.evictProject(ctx, id)
	return requireRowAffected(result, id)
}

func (d Datasource) DeleteProject(ctx context.Context, id string) error {
	result, err := d.Conn.ExecContext(ctx, `DELETE FROM projects WHERE project_id = $1`, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete project", err)
	}
	d.evictProject(ctx, id)
	return requireRowAffected(result, id)
}

func requireRowAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check affected rows", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Project with ID '%s' not found", id), nil)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*model.Project, error) {
	prj := &model.Project{}
	var billingInterval, fileLink, rejectionReason, gumroadLink sql.NullString
	var deadline sql.NullTime
	err := row.Scan(&prj.ProjectID, &prj.OwnerID, &prj.Title, &prj.Description, &prj.ProjectType, &prj.Price, &prj.Subscription, &billingInterval, &deadline, &fileLink, &prj.Status, &rejectionReason, &gumroadLink, &prj.FundedAmount, &prj.CreatedAt, &prj.UpdatedAt)
	if err != nil {
		return nil, err
	}
	prj.BillingInterval = billingInterval.String
	prj.FileLink = fileLink.String
	prj.RejectionReason = rejectionReason.String
	prj.GumroadLink = gumroadLink.String
	if deadline.Valid {
		prj.Deadline = &deadline.Time
	}
	return prj, nil
}

func collectProjects(rows *sql.Rows) ([]model.Project, error) {
	projects := []model.Project{}
	for rows.Next() {
		prj, err := scanProject(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan project data", err)
		}
		projects = append(projects, *prj)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over projects", err)
	}
	return projects, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
