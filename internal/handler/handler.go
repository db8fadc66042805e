// Package handler serves the visit counter over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tckz/visit-counter/internal/counter"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-Id"

var allowedMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")

type CountResponse struct {
	Count int64 `json:"count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Option func(h *Handler)

func WithLogger(logger *zap.SugaredLogger) Option {
	return Option(func(h *Handler) {
		h.logger = logger
	})
}

// WithTimeout bounds the store call. Zero leaves it to the request context.
func WithTimeout(d time.Duration) Option {
	return Option(func(h *Handler) {
		h.timeout = d
	})
}

func WithAllowOrigin(origin string) Option {
	return Option(func(h *Handler) {
		h.allowOrigin = origin
	})
}

// Handler increments the counter once per GET or POST and replies with the
// new value. It keeps no state between requests.
type Handler struct {
	counter     counter.Counter
	logger      *zap.SugaredLogger
	timeout     time.Duration
	allowOrigin string
}

var _ http.Handler = (*Handler)(nil)

func New(c counter.Counter, opts ...Option) *Handler {
	h := &Handler{
		counter:     c,
		logger:      zap.NewNop().Sugar(),
		allowOrigin: "*",
	}
	for _, e := range opts {
		e(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID := r.Header.Get(HeaderRequestID)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	logger := h.logger.With(zap.String("requestID", reqID), zap.String("method", r.Method))

	w.Header().Set(HeaderRequestID, reqID)
	w.Header().Set("Access-Control-Allow-Origin", h.allowOrigin)

	switch r.Method {
	case http.MethodGet, http.MethodPost:
	case http.MethodOptions:
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderRequestID)
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		w.Header().Set("Allow", allowedMethods)
		h.writeJSON(logger, w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed: " + r.Method})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	now := time.Now()
	n, err := h.counter.Up(ctx)
	if err != nil {
		logger.Errorf("Up: dur=%s, %v", time.Since(now), err)
		h.writeJSON(logger, w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	logger.Debugf("count=%d, dur=%s", n, time.Since(now))
	h.writeJSON(logger, w, http.StatusOK, CountResponse{Count: n})
}

func (h *Handler) writeJSON(logger *zap.SugaredLogger, w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("json.Marshal: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		logger.Warnf("Write: %v", err)
	}
}
