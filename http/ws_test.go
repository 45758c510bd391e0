package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smacross/strategy"
)

func dialWS(t *testing.T, svc *Service) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(handleWS(svc)))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebsocketRecompute(t *testing.T) {
	svc := newTestService(t, &fixedProvider{bars: risingBars(30)})
	conn := dialWS(t, svc)

	require.NoError(t, conn.WriteJSON(wsRequest{
		Symbol: "AAPL", Start: "2022-01-01", End: "2022-03-01",
		ShortWindow: 2, LongWindow: 4,
	}))

	var resp struct {
		Type   string          `json:"type"`
		Error  string          `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "result", resp.Type, "unexpected error: %s", resp.Error)

	var result strategy.Result
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "AAPL", result.Symbol)
	assert.Len(t, result.Points, 30)

	// Slider change: same connection, new windows.
	require.NoError(t, conn.WriteJSON(wsRequest{
		Symbol: "AAPL", Start: "2022-01-01", End: "2022-03-01",
		ShortWindow: 5, LongWindow: 10,
	}))
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "result", resp.Type)
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, 5, result.ShortWindow)
	assert.Equal(t, 10, result.LongWindow)
}

func TestWebsocketInvalidWindows(t *testing.T) {
	svc := newTestService(t, &fixedProvider{bars: risingBars(30)})
	conn := dialWS(t, svc)

	require.NoError(t, conn.WriteJSON(wsRequest{
		Symbol: "AAPL", Start: "2022-01-01", End: "2022-03-01",
		ShortWindow: 10, LongWindow: 5,
	}))

	var resp wsResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)
	assert.Contains(t, resp.Error, "short window")
}

func TestWebsocketBadDate(t *testing.T) {
	svc := newTestService(t, &fixedProvider{bars: risingBars(30)})
	conn := dialWS(t, svc)

	require.NoError(t, conn.WriteJSON(wsRequest{
		Symbol: "AAPL", Start: "01/02/2022", End: "2022-03-01",
		ShortWindow: 2, LongWindow: 4,
	}))

	var resp wsResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)
	assert.Contains(t, resp.Error, "YYYY-MM-DD")
}
