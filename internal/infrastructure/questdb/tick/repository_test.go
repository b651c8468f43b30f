package tick

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	mock "github.com/matyusmilan/xm-forex/pkg/questdb/mock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestTickRepository_Store(t *testing.T) {
	query := `INSERT INTO ticks (timestamp, pair, bid, ask)
			  VALUES ($1, $2, $3, $4)`
	testCases := []struct {
		name     string
		mockFn   func(tickData *Tick, mock *mock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
		tick     *Tick
	}{
		{
			name: "success",
			mockFn: func(tickData *Tick, mock *mock.MockQuestDBClient) {
				mock.EXPECT().Exec(gomock.Any(), query, tickData.Timestamp, tickData.Pair, tickData.Bid, tickData.Ask).Return(nil)
			},
			tick: &Tick{
				Timestamp: time.Now().UTC(),
				Pair:      "EURUSD",
				Bid:       1.0998,
				Ask:       1.1002,
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "error",
			mockFn: func(tickData *Tick, mock *mock.MockQuestDBClient) {
				mock.EXPECT().Exec(gomock.Any(), query, tickData.Timestamp, tickData.Pair, tickData.Bid, tickData.Ask).Return(errors.New("error"))
			},
			tick: &Tick{
				Timestamp: time.Now().UTC(),
				Pair:      "EURUSD",
				Bid:       1.0998,
				Ask:       1.1002,
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mock := mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(tc.tick, mock)

			repo := NewRepository(mock)
			err := repo.Store(context.Background(), tc.tick)
			tc.assertFn(t, err)
		})
	}
}

func TestTickRepository_StoreBatch(t *testing.T) {
	columns := []string{"timestamp", "pair", "bid", "ask"}
	testCases := []struct {
		name     string
		mockFn   func(ticks []*Tick, mock *mock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
		ticks    []*Tick
	}{
		{
			name: "success",
			mockFn: func(ticks []*Tick, mock *mock.MockQuestDBClient) {
				mock.EXPECT().CopyFrom(gomock.Any(), pgx.Identifier{"ticks"}, columns, gomock.Any()).Return(int64(2), nil)
			},
			ticks: []*Tick{
				{
					Timestamp: time.Now().UTC(),
					Pair:      "EURUSD",
					Bid:       1.0998,
					Ask:       1.1002,
				},
				{
					Timestamp: time.Now().UTC(),
					Pair:      "GBPUSD",
					Bid:       1.2697,
					Ask:       1.2703,
				},
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "empty batch skips the copy",
			mockFn: func(ticks []*Tick, mock *mock.MockQuestDBClient) {},
			ticks:  []*Tick{},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "error",
			mockFn: func(ticks []*Tick, mock *mock.MockQuestDBClient) {
				mock.EXPECT().CopyFrom(gomock.Any(), pgx.Identifier{"ticks"}, columns, gomock.Any()).Return(int64(0), errors.New("error"))
			},
			ticks: []*Tick{
				{
					Timestamp: time.Now().UTC(),
					Pair:      "EURUSD",
					Bid:       1.0998,
					Ask:       1.1002,
				},
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mock := mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(tc.ticks, mock)

			repo := NewRepository(mock)
			err := repo.StoreBatch(context.Background(), tc.ticks)
			tc.assertFn(t, err)
		})
	}
}

func TestTickRepository_GetByFilter(t *testing.T) {
	now := time.Now().UTC()
	from := now.Add(-time.Hour)

	testCases := []struct {
		name     string
		filter   Filter
		mockFn   func(mock *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface)
		assertFn func(t *testing.T, ticks []*Tick, err error)
	}{
		{
			name:   "pair with time range and limit",
			filter: Filter{Pair: "EURUSD", From: &from, To: &now, Limit: 50},
			mockFn: func(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface) {
				query := "SELECT timestamp, pair, bid, ask FROM ticks WHERE 1=1 AND pair = $1 AND timestamp >= $2 AND timestamp <= $3 ORDER BY timestamp DESC LIMIT $4"
				mockClient.EXPECT().
					Query(gomock.Any(), query, "EURUSD", from, now, 50).
					Return(mockRows, nil)
				mockRows.EXPECT().Next().Return(true)
				mockRows.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
					*dest[0].(*time.Time) = now
					*dest[1].(*string) = "EURUSD"
					*dest[2].(*float64) = 1.0998
					*dest[3].(*float64) = 1.1002
					return nil
				})
				mockRows.EXPECT().Next().Return(false)
				mockRows.EXPECT().Err().Return(nil)
				mockRows.EXPECT().Close()
			},
			assertFn: func(t *testing.T, ticks []*Tick, err error) {
				assert.NoError(t, err)
				assert.Len(t, ticks, 1)
				assert.Equal(t, "EURUSD", ticks[0].Pair)
				assert.Equal(t, 1.0998, ticks[0].Bid)
				assert.Equal(t, 1.1002, ticks[0].Ask)
			},
		},
		{
			name:   "no filters",
			filter: Filter{},
			mockFn: func(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface) {
				query := "SELECT timestamp, pair, bid, ask FROM ticks WHERE 1=1 ORDER BY timestamp DESC"
				mockClient.EXPECT().
					Query(gomock.Any(), query).
					Return(mockRows, nil)
				mockRows.EXPECT().Next().Return(false)
				mockRows.EXPECT().Err().Return(nil)
				mockRows.EXPECT().Close()
			},
			assertFn: func(t *testing.T, ticks []*Tick, err error) {
				assert.NoError(t, err)
				assert.Empty(t, ticks)
			},
		},
		{
			name:   "query error",
			filter: Filter{Pair: "GBPUSD"},
			mockFn: func(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface) {
				query := "SELECT timestamp, pair, bid, ask FROM ticks WHERE 1=1 AND pair = $1 ORDER BY timestamp DESC"
				mockClient.EXPECT().
					Query(gomock.Any(), query, "GBPUSD").
					Return(nil, errors.New("query failed"))
			},
			assertFn: func(t *testing.T, ticks []*Tick, err error) {
				assert.Error(t, err)
				assert.Nil(t, ticks)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := mock.NewMockQuestDBClient(ctrl)
			mockRows := mock.NewMockRowsInterface(ctrl)

			tc.mockFn(mockClient, mockRows)

			repo := NewRepository(mockClient)
			ticks, err := repo.GetByFilter(context.Background(), tc.filter)
			tc.assertFn(t, ticks, err)
		})
	}
}

func TestTickRepository_GetLatestByPair(t *testing.T) {
	query := `SELECT timestamp, pair, bid, ask
			  FROM ticks
			  WHERE pair = $1
			  ORDER BY timestamp DESC
			  LIMIT 1`
	testCases := []struct {
		name     string
		mockFn   func(mock *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface)
		assertFn func(t *testing.T, err error, tick *Tick)
		pair     string
	}{
		{
			name: "success",
			mockFn: func(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface) {
				mockClient.EXPECT().QueryRow(gomock.Any(), query, "EURUSD").Return(mockRows)
				mockRows.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
					*dest[0].(*time.Time) = time.Now().UTC()
					*dest[1].(*string) = "EURUSD"
					*dest[2].(*float64) = 1.0998
					*dest[3].(*float64) = 1.1002
					return nil
				})
			},
			pair: "EURUSD",
			assertFn: func(t *testing.T, err error, tick *Tick) {
				assert.NoError(t, err)
				assert.Equal(t, "EURUSD", tick.Pair)
				assert.Equal(t, 1.0998, tick.Bid)
				assert.Equal(t, 1.1002, tick.Ask)
			},
		},
		{
			name: "error - no rows",
			mockFn: func(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface) {
				mockClient.EXPECT().QueryRow(gomock.Any(), query, "EURUSD").Return(mockRows)
				mockRows.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
					return pgx.ErrNoRows
				})
			},
			pair: "EURUSD",
			assertFn: func(t *testing.T, err error, tick *Tick) {
				assert.NoError(t, err)
				assert.Nil(t, tick)
			},
		},
		{
			name: "error - query fails",
			mockFn: func(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface) {
				mockClient.EXPECT().QueryRow(gomock.Any(), query, "EURUSD").Return(mockRows)
				mockRows.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
					return errors.New("query failed")
				})
			},
			pair: "EURUSD",
			assertFn: func(t *testing.T, err error, tick *Tick) {
				assert.Error(t, err)
				assert.Nil(t, tick)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := mock.NewMockQuestDBClient(ctrl)
			mockRows := mock.NewMockRowsInterface(ctrl)

			tc.mockFn(mockClient, mockRows)

			repo := NewRepository(mockClient)
			tick, err := repo.GetLatestByPair(context.Background(), tc.pair)
			tc.assertFn(t, err, tick)
		})
	}
}
