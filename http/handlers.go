package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"smacross/market/providers"
	"smacross/strategy"
)

func RegisterHandlers(mux *http.ServeMux, svc *Service) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/crossover", handleCrossover(svc))
	mux.HandleFunc("GET /api/providers", handleProviders(svc))
	mux.HandleFunc("GET /ws", handleWS(svc))
	mux.HandleFunc("GET /{$}", handleChartPage(svc))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handleCrossover(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseRequest(r, svc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		result, err := svc.Compute(r.Context(), req)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func handleProviders(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"primary": svc.manager.Primary(),
			"status":  svc.manager.Status(r.Context()),
		})
	}
}

// parseRequest reads the request parameters, falling back to the
// configured defaults for anything omitted.
func parseRequest(r *http.Request, svc *Service) (Request, error) {
	defaults := svc.Defaults()
	q := r.URL.Query()

	req := Request{
		Symbol:      defaults.Symbol,
		ShortWindow: defaults.ShortWindow,
		LongWindow:  defaults.LongWindow,
	}
	req.Start, _ = defaults.StartDate()
	req.End, _ = defaults.EndDate()

	if symbol := q.Get("symbol"); symbol != "" {
		req.Symbol = symbol
	}
	if v := q.Get("short"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("short must be an integer")
		}
		req.ShortWindow = n
	}
	if v := q.Get("long"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("long must be an integer")
		}
		req.LongWindow = n
	}
	if v := q.Get("start"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return req, errors.New("start must be YYYY-MM-DD")
		}
		req.Start = d
	}
	if v := q.Get("end"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return req, errors.New("end must be YYYY-MM-DD")
		}
		req.End = d
	}

	return req, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, strategy.ErrInvalidWindows), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, providers.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, providers.ErrAllProvidersFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
