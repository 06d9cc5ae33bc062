package api

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/journal"
)

const defaultMaxUploadBytes = 10 << 20

// Services are the dependencies behind the routes.
type Services struct {
	Auth   auth.Provider
	Trades []*journal.TradeBook
	Ideas  []journal.Ideas
	// Files serves stored chart images; nil when the managed backend does.
	Files          http.Handler
	MaxUploadBytes int64
}

// APIHandler routes journal requests.
type APIHandler struct {
	log            *zap.Logger
	auth           auth.Provider
	trades         map[string]*journal.TradeBook
	ideas          map[string]journal.Ideas
	maxUploadBytes int64
	root           http.Handler
}

// NewAPIHandler creates an APIHandler over svc.
func NewAPIHandler(svc Services, log *zap.Logger) *APIHandler {
	h := &APIHandler{
		log:            log.Named("api"),
		auth:           svc.Auth,
		trades:         make(map[string]*journal.TradeBook, len(svc.Trades)),
		ideas:          make(map[string]journal.Ideas, len(svc.Ideas)),
		maxUploadBytes: svc.MaxUploadBytes,
	}
	if h.maxUploadBytes <= 0 {
		h.maxUploadBytes = defaultMaxUploadBytes
	}
	for _, b := range svc.Trades {
		h.trades[b.Account().Name] = b
	}
	for _, b := range svc.Ideas {
		h.ideas[b.Kind().Name] = b
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/me", h.MeHandler)
	api.HandleFunc("GET /api/accounts/{account}/trades", h.ListTradesHandler)
	api.HandleFunc("POST /api/accounts/{account}/trades", h.CreateTradeHandler)
	api.HandleFunc("PATCH /api/accounts/{account}/trades/{id}", h.UpdateTradeHandler)
	api.HandleFunc("DELETE /api/accounts/{account}/trades/{id}", h.DeleteTradeHandler)
	api.HandleFunc("GET /api/accounts/{account}/statistics", h.StatisticsHandler)
	api.HandleFunc("GET /api/accounts/{account}/charts", h.ChartsHandler)
	api.HandleFunc("GET /api/ideas/{kind}", h.ListIdeasHandler)
	api.HandleFunc("POST /api/ideas/{kind}", h.CreateIdeaHandler)
	api.HandleFunc("PATCH /api/ideas/{kind}/{id}", h.UpdateIdeaHandler)
	api.HandleFunc("DELETE /api/ideas/{kind}/{id}", h.DeleteIdeaHandler)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.HealthHandler)
	mux.Handle("/api/", h.authenticate(api))
	if svc.Files != nil {
		mux.Handle("GET /storage/v1/object/public/", svc.Files)
	}

	h.root = h.logRequests(mux)
	return h
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MeHandler returns the caller's identity.
func (h *APIHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, badRequest("invalid id " + strconv.Quote(r.PathValue("id")))
	}
	return uint(id), nil
}
