package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // the chart page is served from this process
	},
}

// wsRequest is one recompute request from the chart page. Dates arrive
// as YYYY-MM-DD strings from the date inputs.
type wsRequest struct {
	Symbol      string `json:"symbol"`
	Start       string `json:"start"`
	End         string `json:"end"`
	ShortWindow int    `json:"short"`
	LongWindow  int    `json:"long"`
}

type wsResponse struct {
	Type   string      `json:"type"` // "result" or "error"
	Error  string      `json:"error,omitempty"`
	Result interface{} `json:"result,omitempty"`
}

// handleWS serves the interactive recompute loop: every frame from the
// page carries the current widget values, and every reply carries the
// recomputed series. No state is kept between frames beyond the fetch
// cache.
func handleWS(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			svc.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		for {
			var frame wsRequest
			if err := conn.ReadJSON(&frame); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					svc.logger.Warn("websocket read failed", zap.Error(err))
				}
				return
			}

			resp := recompute(r, svc, frame)
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(resp); err != nil {
				svc.logger.Warn("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

func recompute(r *http.Request, svc *Service, frame wsRequest) wsResponse {
	req := Request{
		Symbol:      frame.Symbol,
		ShortWindow: frame.ShortWindow,
		LongWindow:  frame.LongWindow,
	}

	var err error
	if req.Start, err = time.Parse("2006-01-02", frame.Start); err != nil {
		return wsResponse{Type: "error", Error: "start must be YYYY-MM-DD"}
	}
	if req.End, err = time.Parse("2006-01-02", frame.End); err != nil {
		return wsResponse{Type: "error", Error: "end must be YYYY-MM-DD"}
	}

	result, err := svc.Compute(r.Context(), req)
	if err != nil {
		return wsResponse{Type: "error", Error: err.Error()}
	}

	// Marshal through the Point JSON rules (NaN warm-up means as null).
	raw, err := json.Marshal(result)
	if err != nil {
		return wsResponse{Type: "error", Error: err.Error()}
	}
	return wsResponse{Type: "result", Result: json.RawMessage(raw)}
}
