package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/model"
)

func TestRecordConversionEvent(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO conversions")).
		WithArgs(sqlmock.AnyArg(), "clixwall:tx999", "clixwall", "tx999", "usr_1", "prj_1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event, err := ds.RecordConversionEvent(context.Background(), &model.ConversionEvent{
		Provider:      "clixwall",
		TransactionID: "tx999",
		UserID:        "usr_1",
		ProjectID:     "prj_1",
		Payout:        decimal.NewFromFloat(1.5),
		RawParams:     map[string]string{"network": "clixwall", "tx": "tx999"},
	})
	require.NoError(t, err)
	assert.Contains(t, event.ConversionID, "cnv_")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordConversionEvent_DuplicateKey(t *testing.T) {
	ds, mock := newTestDatasource(t)

	// Two postbacks raced past the exists check; the unique constraint wins
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO conversions")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := ds.RecordConversionEvent(context.Background(), &model.ConversionEvent{
		Provider:      "clixwall",
		TransactionID: "tx999",
		UserID:        "usr_1",
	})
	require.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}

func TestConversionExists(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("clixwall:tx999").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := ds.ConversionExists(context.Background(), "clixwall:tx999")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversionExists_QueryError(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("clixwall:tx999").
		WillReturnError(assert.AnError)

	_, err := ds.ConversionExists(context.Background(), "clixwall:tx999")
	require.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)
}
