package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phamvd/haulbid-BE/internal/bidding"
	"github.com/phamvd/haulbid-BE/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPlaceBid(t *testing.T) {
	vehicleID := uuid.New()

	tests := []struct {
		name              string
		url               string
		body              string
		placeBidTxFunc    func(ctx context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error)
		expectedStatus    int
		expectedErrorCode string
	}{
		{
			name: "admitted",
			url:  fmt.Sprintf("/v1/vehicles/%s/bids", vehicleID),
			body: `{"amount": 80}`,
			placeBidTxFunc: func(ctx context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error) {
				require.Equal(t, vehicleID, arg.VehicleID)
				require.True(t, arg.Amount.Equal(decimal.RequireFromString("80")))

				return db.PlaceBidTxResult{
					Bid: db.Bid{ID: uuid.New(), VehicleID: vehicleID, Amount: arg.Amount},
					Vehicle: db.Vehicle{
						ID:         vehicleID,
						CurrentBid: decimal.NewNullDecimal(arg.Amount),
						TotalBids:  1,
					},
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "rejected_not_lower",
			url:  fmt.Sprintf("/v1/vehicles/%s/bids", vehicleID),
			body: `{"amount": 150}`,
			placeBidTxFunc: func(ctx context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error) {
				return db.PlaceBidTxResult{}, bidding.ErrBidNotLower
			},
			expectedStatus:    http.StatusUnprocessableEntity,
			expectedErrorCode: ErrorCodeNotLower,
		},
		{
			name: "rejected_non_positive",
			url:  fmt.Sprintf("/v1/vehicles/%s/bids", vehicleID),
			body: `{"amount": -5}`,
			placeBidTxFunc: func(ctx context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error) {
				return db.PlaceBidTxResult{}, bidding.ErrBidNotPositive
			},
			expectedStatus:    http.StatusUnprocessableEntity,
			expectedErrorCode: ErrorCodeNonPositive,
		},
		{
			name: "vehicle_not_found",
			url:  fmt.Sprintf("/v1/vehicles/%s/bids", uuid.New()),
			body: `{"amount": 80}`,
			placeBidTxFunc: func(ctx context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error) {
				return db.PlaceBidTxResult{}, db.ErrRecordNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "storage_fault_is_not_a_rejection",
			url:  fmt.Sprintf("/v1/vehicles/%s/bids", vehicleID),
			body: `{"amount": 80}`,
			placeBidTxFunc: func(ctx context.Context, arg db.PlaceBidTxParams) (db.PlaceBidTxResult, error) {
				return db.PlaceBidTxResult{}, errors.New("connection reset by peer")
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "invalid_vehicle_id",
			url:            "/v1/vehicles/not-a-uuid/bids",
			body:           `{"amount": 80}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid_body",
			url:            fmt.Sprintf("/v1/vehicles/%s/bids", vehicleID),
			body:           `{amount}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubStore()
			store.placeBidTxFunc = tc.placeBidTxFunc
			server := newTestServer(t, store)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, tc.url, bytes.NewBufferString(tc.body))
			request.Header.Set("Content-Type", "application/json")
			server.router.ServeHTTP(recorder, request)

			require.Equal(t, tc.expectedStatus, recorder.Code)

			if tc.expectedErrorCode != "" {
				var rejection RejectionResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rejection))
				require.Equal(t, tc.expectedErrorCode, rejection.ErrorCode)
				require.Equal(t, "amount", rejection.Field)
				require.NotEmpty(t, rejection.OriginalValue)
			}
		})
	}
}

func TestListVehicleBids(t *testing.T) {
	store := newStubStore()
	vehicleID := uuid.New()
	store.vehicles[vehicleID] = db.Vehicle{ID: vehicleID}
	store.bids[vehicleID] = []db.Bid{
		{ID: uuid.New(), VehicleID: vehicleID, Amount: decimal.RequireFromString("100")},
		{ID: uuid.New(), VehicleID: vehicleID, Amount: decimal.RequireFromString("50")},
	}
	server := newTestServer(t, store)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/vehicles/%s/bids", vehicleID), nil)
	server.router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Bids []db.Bid `json:"bids"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Bids, 2)
	require.True(t, response.Bids[0].Amount.GreaterThan(response.Bids[1].Amount))
}

func TestListVehicleBidsUnknownVehicle(t *testing.T) {
	server := newTestServer(t, newStubStore())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/vehicles/%s/bids", uuid.New()), nil)
	server.router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusNotFound, recorder.Code)
}
