package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/model"
)

func newTestDatasource(t *testing.T) (Datasource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return Datasource{Conn: db}, mock
}

func projectColumns() []string {
	return []string{"project_id", "owner_id", "title", "description", "project_type", "price", "subscription", "billing_interval", "deadline", "file_link", "status", "rejection_reason", "gumroad_link", "funded_amount", "created_at", "updated_at"}
}

func TestCreateProject(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).
		WithArgs(sqlmock.AnyArg(), "usr_1", "Landing page kit", "A pack of Elementor templates", model.ProjectTypeElementor, sqlmock.AnyArg(), false, nil, nil, nil, model.StatusPending, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	prj, err := ds.CreateProject(context.Background(), &model.Project{
		OwnerID:     "usr_1",
		Title:       "Landing page kit",
		Description: "A pack of Elementor templates",
		ProjectType: model.ProjectTypeElementor,
		Price:       decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Contains(t, prj.ProjectID, "prj_")
	assert.Equal(t, model.StatusPending, prj.Status)
	assert.True(t, prj.FundedAmount.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProject(t *testing.T) {
	ds, mock := newTestDatasource(t)
	now := time.Now()

	rows := sqlmock.NewRows(projectColumns()).
		AddRow("prj_1", "usr_1", "Landing page kit", "desc", model.ProjectTypeElementor, "20", false, nil, nil, nil, model.StatusApproved, nil, "https://creator.gumroad.com/l/abc123", "21", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT project_id, owner_id")).
		WithArgs("prj_1").
		WillReturnRows(rows)

	prj, err := ds.GetProject(context.Background(), "prj_1")
	require.NoError(t, err)
	assert.Equal(t, "prj_1", prj.ProjectID)
	assert.Equal(t, model.StatusApproved, prj.Status)
	assert.Equal(t, "https://creator.gumroad.com/l/abc123", prj.GumroadLink)
	assert.True(t, prj.FullyFunded())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProject_NotFound(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT project_id, owner_id")).
		WithArgs("prj_missing").
		WillReturnRows(sqlmock.NewRows(projectColumns()))

	_, err := ds.GetProject(context.Background(), "prj_missing")
	require.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApprovedProjects(t *testing.T) {
	ds, mock := newTestDatasource(t)
	now := time.Now()

	rows := sqlmock.NewRows(projectColumns()).
		AddRow("prj_1", "usr_1", "One", "d", model.ProjectTypeVideo, "10", false, nil, nil, nil, model.StatusApproved, nil, nil, "0", now, now).
		AddRow("prj_2", "usr_2", "Two", "d", model.ProjectTypeGraphicDesign, "15", false, nil, nil, nil, model.StatusApproved, nil, nil, "3", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'approved'")).
		WithArgs(20, 0).
		WillReturnRows(rows)

	projects, err := ds.GetApprovedProjects(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProjectStatus(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE projects")).
		WithArgs("prj_1", model.StatusRejected, "description too vague").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ds.UpdateProjectStatus(context.Background(), "prj_1", model.StatusRejected, "description too vague")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProjectStatus_NotFound(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE projects")).
		WithArgs("prj_missing", model.StatusApproved, "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := ds.UpdateProjectStatus(context.Background(), "prj_missing", model.StatusApproved, "")
	require.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestUpdateProjectGumroadLink(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectExec(regexp.QuoteMeta("SET gumroad_link")).
		WithArgs("prj_1", "https://creator.gumroad.com/l/abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ds.UpdateProjectGumroadLink(context.Background(), "prj_1", "https://creator.gumroad.com/l/abc123")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementFundedAmount_AtomicAdd(t *testing.T) {
	ds, mock := newTestDatasource(t)

	// The increment must happen in SQL, not as a read-modify-write
	mock.ExpectExec(regexp.QuoteMeta("SET funded_amount = funded_amount + $2")).
		WithArgs("prj_1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ds.IncrementFundedAmount(context.Background(), "prj_1", decimal.NewFromFloat(1.5))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProject(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects")).
		WithArgs("prj_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ds.DeleteProject(context.Background(), "prj_1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
