package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	pricingPath  = "/checkout/cart/pricing"
	importPath   = "/checkout/cart/import"
	sessionsPath = "/checkout/cart/sessions/"
)

// Handler exposes the commerce API endpoints used by the SDK.
type Handler struct {
	catalog  *Catalog
	sessions *SessionStore
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *Metrics
}

// NewHandler constructs a Handler.
func NewHandler(catalog *Catalog, sessions *SessionStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		catalog:  catalog,
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Register binds the sandbox handlers to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(pricingPath, h.handlePricing)
	mux.HandleFunc(importPath, h.handleImport)
	mux.HandleFunc(sessionsPath, h.handleSessionByID)
}

func (h *Handler) handlePricing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var payload pricingRequest
	if !h.decode(w, r, &payload) {
		return
	}

	writeJSON(w, http.StatusOK, h.catalog.Offers(toCartLines(payload.Cart)))
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var payload importRequest
	if !h.decode(w, r, &payload) {
		return
	}

	for _, line := range payload.Cart {
		if _, ok := h.catalog.Get(line.SKU); !ok {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown sku %q", line.SKU))
			return
		}
	}
	if payload.Duration != nil && !h.catalog.offersDuration(*payload.Duration) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("duration %d is not offered", *payload.Duration))
		return
	}

	session := CheckoutSession{
		ID:           uuid.NewString(),
		RetailerSlug: payload.RetailerSlug,
		Cart:         toCartLines(payload.Cart),
		Duration:     payload.Duration,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.sessions.Save(r.Context(), session); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "checkout session imported",
		"session_id", session.ID,
		"retailer", session.RetailerSlug,
		"items", len(session.Cart),
	)
	if h.metrics != nil {
		h.metrics.RecordSessionImported(r.Context(), session.RetailerSlug)
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, sessionsPath), "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "checkout session not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "checkout session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, payload any) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
