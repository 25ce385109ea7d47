package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"cometstats/internal/domain"
	"cometstats/pkg/httputil"

	"gitlab.com/nevasik7/alerting/logger"
)

// StatsProvider is the cache-aside read path behind the four endpoints
type StatsProvider interface {
	SwapHistory(ctx context.Context, params map[string]string) (json.RawMessage, error)
	Ohlcv(ctx context.Context, params map[string]string) (json.RawMessage, error)
	PoolStats(ctx context.Context, params map[string]string) (json.RawMessage, error)
	BorrowStats(ctx context.Context, params map[string]string) (json.RawMessage, error)
	CheckDependency(ctx context.Context) error
}

type Handler struct {
	Log   logger.Logger
	Stats StatsProvider
}

func NewHandler(log logger.Logger, stats StatsProvider) *Handler {
	if stats == nil {
		panic("stats provider cannot be nil")
	}

	return &Handler{Log: log, Stats: stats}
}

func (h *Handler) SwapHistory(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "SwapHistory", h.Stats.SwapHistory)
}

func (h *Handler) Ohlcv(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Ohlcv", h.Stats.Ohlcv)
}

func (h *Handler) PoolStats(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "PoolStats", h.Stats.PoolStats)
}

func (h *Handler) BorrowStats(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "BorrowStats", h.Stats.BorrowStats)
}

// serve maps the error taxonomy onto HTTP: invalid input names the
// offending field to the caller, collaborator failures stay generic
// and go to the log
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context, map[string]string) (json.RawMessage, error)) {
	body, err := fn(r.Context(), flatten(r.URL.Query()))
	if err != nil {
		var invalid *domain.InvalidInputError
		if errors.As(err, &invalid) {
			if err = httputil.Error(w, r, http.StatusBadRequest, "invalid_input", invalid.Error(), nil); err != nil {
				h.Log.Errorf("%s handler error: %s", name, err.Error())
			}
			return
		}

		h.Log.Errorf("%s failed: %v", name, err)
		if err = httputil.Error(w, r, http.StatusInternalServerError, "internal_error", "internal server error", nil); err != nil {
			h.Log.Errorf("%s handler error: %s", name, err.Error())
		}
		return
	}

	if err = httputil.JSON(w, http.StatusOK, body, nil); err != nil {
		h.Log.Errorf("%s handler error: %s", name, err.Error())
	}
}

// flatten keeps the first value per key; empty values count as absent
func flatten(q url.Values) map[string]string {
	params := make(map[string]string, len(q))
	for k, vs := range q {
		if len(vs) > 0 && vs[0] != "" {
			params[k] = vs[0]
		}
	}
	return params
}
