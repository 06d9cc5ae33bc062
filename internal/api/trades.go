package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/stats"
)

const maxJSONBytes = 1 << 20

// tradeRequest resolves the caller and the account named in the path.
func (h *APIHandler) tradeRequest(r *http.Request) (*auth.User, *journal.TradeBook, error) {
	user, err := auth.UserFrom(r.Context())
	if err != nil {
		return nil, nil, err
	}
	book, ok := h.trades[r.PathValue("account")]
	if !ok {
		return nil, nil, notFound("unknown account " + r.PathValue("account"))
	}
	return user, book, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err := dec.Decode(v); err != nil {
		var me *http.MaxBytesError
		if errors.As(err, &me) {
			return err
		}
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

// ListTradesHandler returns the caller's trades, newest first.
func (h *APIHandler) ListTradesHandler(w http.ResponseWriter, r *http.Request) {
	user, book, err := h.tradeRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	trades, err := book.List(r.Context(), user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	h.writeJSON(w, http.StatusOK, trades)
}

func (h *APIHandler) CreateTradeHandler(w http.ResponseWriter, r *http.Request) {
	user, book, err := h.tradeRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in journal.TradeInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	trade, err := book.Create(r.Context(), user, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, trade)
}

func (h *APIHandler) UpdateTradeHandler(w http.ResponseWriter, r *http.Request) {
	user, book, err := h.tradeRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch journal.TradePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	trade, err := book.Update(r.Context(), user, id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, trade)
}

func (h *APIHandler) DeleteTradeHandler(w http.ResponseWriter, r *http.Request) {
	user, book, err := h.tradeRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := book.Delete(r.Context(), user, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StatisticsHandler returns the summary of the caller's trades in the account.
func (h *APIHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	user, book, err := h.tradeRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := book.Statistics(r.Context(), user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// ChartsHandler returns the gain/risk series, in usd unless ?unit=pips.
func (h *APIHandler) ChartsHandler(w http.ResponseWriter, r *http.Request) {
	user, book, err := h.tradeRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	unit, err := stats.ParseUnit(r.URL.Query().Get("unit"))
	if err != nil {
		h.writeError(w, r, badRequest(err.Error()))
		return
	}
	points, err := book.Charts(r.Context(), user, unit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if points == nil {
		points = []stats.Point{}
	}
	h.writeJSON(w, http.StatusOK, points)
}
