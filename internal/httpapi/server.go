// Package httpapi is a small HTTP surface around the payment manager: it starts
// payments by redirecting the payer and verifies them when the payer returns.
package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/eamirgh/gopay"
	"github.com/eamirgh/gopay/payment"
)

// detailParams are copied from the query string onto the invoice.
var detailParams = []string{"mobile", "email", "order_id", "national_code", "allowed_cards"}

// transactionParams are the names providers use for the transaction id on callback.
var transactionParams = []string{"Authority", "trackId", "transaction_id"}

type Server struct {
	newManager func() *gopay.Manager
	publicURL  string
	logger     zerolog.Logger
	metrics    http.Handler
}

// NewServer builds the API. newManager is called once per request since a
// Manager holds the state of a single flow.
func NewServer(newManager func() *gopay.Manager, publicURL string, logger zerolog.Logger, metrics http.Handler) *Server {
	return &Server{
		newManager: newManager,
		publicURL:  strings.TrimRight(publicURL, "/"),
		logger:     logger,
		metrics:    metrics,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/pay/{driver}", s.handlePay)
	r.Get("/callback/{driver}", s.handleCallback)
	r.Post("/callback/{driver}", s.handleCallback)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	drv := chi.URLParam(r, "driver")
	q := r.URL.Query()
	amount, err := strconv.ParseUint(q.Get("amount"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "amount must be a non-negative integer"})
		return
	}

	inv := payment.NewInvoice().
		SetAmount(amount).
		SetDescription(q.Get("description"))
	for _, key := range detailParams {
		if v := q.Get(key); v != "" {
			inv.Detail(key, v)
		}
	}

	m := s.newManager().Via(drv)
	if s.publicURL != "" {
		cb := s.publicURL + "/callback/" + url.PathEscape(drv) + "?" + url.Values{"amount": {q.Get("amount")}}.Encode()
		m.CallbackURL(cb)
	}
	if err := m.Purchase(r.Context(), inv, nil); err != nil {
		s.writeError(w, r, err)
		return
	}
	redirect, err := m.Pay()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := redirect.Render(w, r); err != nil {
		s.logger.Error().Err(err).Str("driver", drv).Msg("render redirect")
	}
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	drv := chi.URLParam(r, "driver")
	amount, err := strconv.ParseUint(r.URL.Query().Get("amount"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "amount must be a non-negative integer"})
		return
	}
	var id string
	for _, key := range transactionParams {
		if id = r.FormValue(key); id != "" {
			break
		}
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing transaction id"})
		return
	}

	receipt, err := s.newManager().Via(drv).Amount(amount).TransactionID(id).Verify(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Logger()

	var purchaseErr *payment.PurchaseFailedError
	var paymentErr *payment.InvalidPaymentError
	switch {
	case errors.Is(err, payment.ErrInvalidConfig):
		log.Warn().Err(err).Msg("driver configuration")
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
	case errors.As(err, &purchaseErr):
		log.Info().Int("code", purchaseErr.Code).Msg(purchaseErr.Message)
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": purchaseErr.Message, "code": purchaseErr.Code})
	case errors.As(err, &paymentErr):
		log.Info().Int("code", paymentErr.Code).Msg(paymentErr.Message)
		writeJSON(w, http.StatusPaymentRequired, map[string]any{"error": paymentErr.Message, "code": paymentErr.Code})
	default:
		log.Error().Err(err).Msg("gateway unavailable")
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "payment gateway unavailable"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
