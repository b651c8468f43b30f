package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	candlev1 "github.com/matyusmilan/xm-forex/internal/domain/candle/v1"
	candleMock "github.com/matyusmilan/xm-forex/internal/domain/candle/v1/mock"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestCandleHandler_List(t *testing.T) {
	openTime := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		name     string
		target   string
		mockFn   func(candles *candleMock.MockHistory)
		assertFn func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:   "defaults to 1m and full history",
			target: "/candles/EURUSD",
			mockFn: func(candles *candleMock.MockHistory) {
				candles.EXPECT().
					Candles("EURUSD", "1m", 0).
					Return([]candlev1.Candle{
						{
							Pair:      "EURUSD",
							Interval:  "1m",
							OpenTime:  openTime,
							Open:      1.1000,
							High:      1.1004,
							Low:       1.0998,
							Close:     1.1002,
							TickCount: 12,
						},
					}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)

				var got []candlev1.Candle
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Len(t, got, 1)
				assert.Equal(t, 1.1004, got[0].High)
				assert.Equal(t, int64(12), got[0].TickCount)
			},
		},
		{
			name:   "explicit interval and limit",
			target: "/candles/EURUSD?interval=5m&limit=2",
			mockFn: func(candles *candleMock.MockHistory) {
				candles.EXPECT().
					Candles("EURUSD", "5m", 2).
					Return([]candlev1.Candle{}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.JSONEq(t, `[]`, rec.Body.String())
			},
		},
		{
			name:   "unsupported interval",
			target: "/candles/EURUSD?interval=2m",
			mockFn: func(candles *candleMock.MockHistory) {
				candles.EXPECT().
					Candles("EURUSD", "2m", 0).
					Return(nil, errors.NewErrorDetails(
						"unsupported interval: 2m", string(errors.GeneralBadRequestError), "interval"))
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)

				var got errorResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, "interval", got.Field)
			},
		},
		{
			name:   "invalid limit",
			target: "/candles/EURUSD?limit=soon",
			mockFn: func(candles *candleMock.MockHistory) {},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)

				var got errorResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, "limit", got.Field)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			router, mocks := newTestRouter(ctrl)
			tc.mockFn(mocks.candles)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
			tc.assertFn(t, rec)
		})
	}
}
