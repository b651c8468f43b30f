package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	candlev1 "github.com/matyusmilan/xm-forex/internal/domain/candle/v1"
	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:            "xm-forex",
			Environment:     "test",
			LogLevel:        "error",
			ShutdownTimeout: 5 * time.Second,
		},
		Venue: config.VenueConfig{
			Pairs:         []string{"EURUSD:1.1000:0.0004"},
			QueueCapacity: 64,
			TickBuffer:    256,
		},
		Feed: config.FeedConfig{
			Mode:     config.FeedModeSynthetic,
			Interval: 5 * time.Millisecond,
			Seed:     42,
		},
		Candle: config.CandleConfig{
			Intervals: []string{"1m"},
			History:   10,
		},
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	testcases := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{
			name: "unknown feed mode",
			mutate: func(cfg *config.Config) {
				cfg.Feed.Mode = "replay"
			},
		},
		{
			name: "no pairs",
			mutate: func(cfg *config.Config) {
				cfg.Venue.Pairs = nil
			},
		},
		{
			name: "malformed pair entry",
			mutate: func(cfg *config.Config) {
				cfg.Venue.Pairs = []string{"EURUSD"}
			},
		},
		{
			name: "unsupported candle interval",
			mutate: func(cfg *config.Config) {
				cfg.Candle.Intervals = []string{"2m"}
			},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(cfg)

			_, err := New(context.Background(), cfg)
			require.Error(t, err)
		})
	}
}

// TestApp_EndToEnd drives the assembled venue through one order
// lifecycle: create over REST, watch the fill arrive on the stream,
// read the converged state, the latest quote and a candle back.
func TestApp_EndToEnd(t *testing.T) {
	ctx := context.Background()

	app, err := New(ctx, testConfig())
	require.NoError(t, err)
	require.NoError(t, app.Start(ctx))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		app.Stop(stopCtx)
	}()

	server := httptest.NewServer(app.Handler)
	defer server.Close()

	res, err := http.Get(server.URL + "/health-check")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Attach the stream before creating the order so the subscription
	// sees every transition.
	ws, _, err := websocket.DefaultDialer.Dial(wsURL(server.URL)+"/ws/client-1", nil)
	require.NoError(t, err)
	defer ws.Close()

	body := `{"client_id":"client-1","pair":"EURUSD","side":"buy","kind":"market","quantity":50}`
	res, err = http.Post(server.URL+"/orders", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created orderv1.Order
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, orderv1.StatusOpen, created.Status)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))

	var event orderv1.Event
	require.NoError(t, ws.ReadJSON(&event))
	assert.Equal(t, created.ID, event.OrderID)
	assert.Equal(t, orderv1.StatusOpen, event.Status)

	require.NoError(t, ws.ReadJSON(&event))
	assert.Equal(t, created.ID, event.OrderID)
	assert.Equal(t, orderv1.StatusFilled, event.Status)
	assert.Equal(t, 50.0, event.FilledQuantity)

	filled := getOrder(t, server.URL, created.ID)
	assert.Equal(t, orderv1.StatusFilled, filled.Status)
	assert.Equal(t, 50.0, filled.FilledQuantity)

	// The fill required a tick, so the snapshot and the aggregator have
	// one too.
	res, err = http.Get(server.URL + "/quotes/EURUSD")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var quote quotev1.Quote
	require.NoError(t, json.NewDecoder(res.Body).Decode(&quote))
	assert.Equal(t, "EURUSD", quote.Pair)
	assert.Greater(t, quote.Ask, quote.Bid)

	res, err = http.Get(server.URL + "/candles/EURUSD")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var candles []candlev1.Candle
	require.NoError(t, json.NewDecoder(res.Body).Decode(&candles))
	require.NotEmpty(t, candles)
	assert.Equal(t, "EURUSD", candles[0].Pair)
	assert.Equal(t, "1m", candles[0].Interval)
}

func TestApp_StopRejectsNewOrders(t *testing.T) {
	ctx := context.Background()

	app, err := New(ctx, testConfig())
	require.NoError(t, err)
	require.NoError(t, app.Start(ctx))

	server := httptest.NewServer(app.Handler)
	defer server.Close()

	ws, _, err := websocket.DefaultDialer.Dial(wsURL(server.URL)+"/ws/market/EURUSD", nil)
	require.NoError(t, err)
	defer ws.Close()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.Stop(stopCtx)

	body := `{"client_id":"client-1","pair":"EURUSD","side":"buy","kind":"market","quantity":50}`
	res, err := http.Post(server.URL+"/orders", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	// The bus closed, so the stream drains its queue and ends with a
	// normal closure.
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg json.RawMessage
		if err = ws.ReadJSON(&msg); err != nil {
			break
		}
	}
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func getOrder(t *testing.T, baseURL, id string) orderv1.Order {
	t.Helper()

	res, err := http.Get(baseURL + "/orders/" + id)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var order orderv1.Order
	require.NoError(t, json.NewDecoder(res.Body).Decode(&order))
	return order
}

func wsURL(serverURL string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http")
}
