package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	candlev1 "github.com/matyusmilan/xm-forex/internal/domain/candle/v1"
	candleMock "github.com/matyusmilan/xm-forex/internal/domain/candle/v1/mock"
	orderMock "github.com/matyusmilan/xm-forex/internal/domain/order/v1/mock"
	quoteMock "github.com/matyusmilan/xm-forex/internal/domain/quote/v1/mock"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type routerMocks struct {
	store   *orderMock.MockStore
	quotes  *quoteMock.MockReader
	candles *candleMock.MockHistory
}

func newTestRouter(ctrl *gomock.Controller) (chi.Router, routerMocks) {
	mocks := routerMocks{
		store:   orderMock.NewMockStore(ctrl),
		quotes:  quoteMock.NewMockReader(ctrl),
		candles: candleMock.NewMockHistory(ctrl),
	}

	router := NewRouter(Config{
		Store:   mocks.store,
		Quotes:  mocks.quotes,
		Candles: mocks.candles,
		Logger:  logger.NewNop(),
	})

	return router, mocks
}

func TestRouter_HealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(ctrl)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health-check", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message": "OK"}`, rec.Body.String())
}

func TestRouter_RequestID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(ctrl)

	t.Run("echoes the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health-check", nil)
		req.Header.Set(requestIDHeader, "req-42")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
	})

	t.Run("generates one when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health-check", nil))

		assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	})
}

func TestRouter_UnknownRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(ctrl)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLatency_DelaysRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := routerMocks{
		store:   orderMock.NewMockStore(ctrl),
		quotes:  quoteMock.NewMockReader(ctrl),
		candles: candleMock.NewMockHistory(ctrl),
	}
	router := NewRouter(Config{
		Store:      mocks.store,
		Quotes:     mocks.quotes,
		Candles:    mocks.candles,
		Logger:     logger.NewNop(),
		LatencyMin: 10 * time.Millisecond,
		LatencyMax: 10 * time.Millisecond,
	})
	mocks.candles.EXPECT().Candles("EURUSD", "1m", 0).Return([]candlev1.Candle{}, nil)

	start := time.Now()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/candles/EURUSD", nil))

	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLatency_CancelledRequestDoesNotWait(t *testing.T) {
	handler := Latency(time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled request still waiting on simulated latency")
	}
}

func TestRecoverer_ConvertsPanicTo500(t *testing.T) {
	handler := Recoverer(logger.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code": "general_internal_server_error", "message": "internal server error"}`, rec.Body.String())
}
