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

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harukitakahashi812/creator-platform/database/mocks"
	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/model"
)

func conversionFixture(payout string) *model.ConversionEvent {
	return &model.ConversionEvent{
		Provider:      "clixwall",
		TransactionID: "tx_1001",
		UserID:        "usr_1",
		ProjectID:     "prj_1",
		Payout:        decimal.RequireFromString(payout),
	}
}

func TestRecordConversionFirstArrival(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	m := newTestMarketplace(t, mockDS)
	event := conversionFixture("9")

	mockDS.On("ConversionExists", mock.Anything, "clixwall:tx_1001").Return(false, nil)
	mockDS.On("RecordConversionEvent", mock.Anything, event).Return(event, nil)
	mockDS.On("IncrementFundedAmount", mock.Anything, "prj_1", event.Payout).Return(nil)
	mockDS.On("GetProject", mock.Anything, "prj_1").Return(&model.Project{
		ProjectID:    "prj_1",
		Price:        decimal.RequireFromString("20"),
		FundedAmount: decimal.RequireFromString("21"),
		Status:       model.StatusApproved,
	}, nil)

	receipt, err := m.RecordConversion(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, receipt.Accepted)
	assert.False(t, receipt.Duplicated)
	assert.True(t, receipt.FullyFunded)
	mockDS.AssertExpectations(t)
}

func TestRecordConversionDuplicateIsAccepted(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	m := newTestMarketplace(t, mockDS)
	event := conversionFixture("9")

	mockDS.On("ConversionExists", mock.Anything, "clixwall:tx_1001").Return(true, nil)

	receipt, err := m.RecordConversion(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, receipt.Accepted)
	assert.True(t, receipt.Duplicated)
	mockDS.AssertNotCalled(t, "RecordConversionEvent", mock.Anything, mock.Anything)
	mockDS.AssertNotCalled(t, "IncrementFundedAmount", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordConversionInsertRaceReadsAsDuplicate(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	m := newTestMarketplace(t, mockDS)
	event := conversionFixture("9")

	mockDS.On("ConversionExists", mock.Anything, "clixwall:tx_1001").Return(false, nil)
	mockDS.On("RecordConversionEvent", mock.Anything, event).
		Return(nil, apierror.NewAPIError(apierror.ErrConflict, "conversion already recorded", nil))

	receipt, err := m.RecordConversion(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, receipt.Accepted)
	assert.True(t, receipt.Duplicated)
	mockDS.AssertNotCalled(t, "IncrementFundedAmount", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordConversionZeroPayoutNeverFunds(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	m := newTestMarketplace(t, mockDS)
	event := conversionFixture("0")

	mockDS.On("ConversionExists", mock.Anything, "clixwall:tx_1001").Return(false, nil)
	mockDS.On("RecordConversionEvent", mock.Anything, event).Return(event, nil)

	receipt, err := m.RecordConversion(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, receipt.Accepted)
	assert.False(t, receipt.FullyFunded)
	mockDS.AssertNotCalled(t, "IncrementFundedAmount", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordConversionNoProjectTarget(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	m := newTestMarketplace(t, mockDS)
	event := conversionFixture("5")
	event.ProjectID = ""

	mockDS.On("ConversionExists", mock.Anything, "clixwall:tx_1001").Return(false, nil)
	mockDS.On("RecordConversionEvent", mock.Anything, event).Return(event, nil)

	receipt, err := m.RecordConversion(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, receipt.Accepted)
	mockDS.AssertNotCalled(t, "IncrementFundedAmount", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordConversionIncrementFailureDoesNotFailCallback(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	m := newTestMarketplace(t, mockDS)
	event := conversionFixture("9")

	mockDS.On("ConversionExists", mock.Anything, "clixwall:tx_1001").Return(false, nil)
	mockDS.On("RecordConversionEvent", mock.Anything, event).Return(event, nil)
	mockDS.On("IncrementFundedAmount", mock.Anything, "prj_1", event.Payout).
		Return(apierror.NewAPIError(apierror.ErrInternalServer, "db down", nil))

	receipt, err := m.RecordConversion(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, receipt.Accepted)
	assert.False(t, receipt.FullyFunded)
}

func TestRecordConversionRequiresUserAndTransaction(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	m := newTestMarketplace(t, mockDS)
	event := conversionFixture("9")
	event.UserID = ""

	_, err := m.RecordConversion(context.Background(), event)
	require.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrBadRequest, apiErr.Code)
	mockDS.AssertNotCalled(t, "ConversionExists", mock.Anything, mock.Anything)
}
