package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/theirongolddev/quotaclock/internal/logging"
	"github.com/theirongolddev/quotaclock/internal/metrics"
	"github.com/theirongolddev/quotaclock/internal/tracker"
	"github.com/theirongolddev/quotaclock/internal/validate"
)

// AdjustRequest is the body of POST /v1/adjust.
type AdjustRequest struct {
	DeltaMinutes int `json:"delta_minutes"`
}

// SettingsRequest is the body of POST /v1/settings. Fields are taken as typed,
// the same way the settings form submits them.
type SettingsRequest struct {
	TotalHours       string `json:"total_hours"`
	TotalMinutes     string `json:"total_minutes"`
	RemainingHours   string `json:"remaining_hours"`
	RemainingMinutes string `json:"remaining_minutes"`
	ManualReset      bool   `json:"manual_reset"`
	ResetDay         string `json:"reset_day"`
	ResetDate        string `json:"reset_date"`
}

func (r SettingsRequest) raw() validate.Raw {
	return validate.Raw{
		TotalHours:       r.TotalHours,
		TotalMinutes:     r.TotalMinutes,
		RemainingHours:   r.RemainingHours,
		RemainingMinutes: r.RemainingMinutes,
		ManualReset:      r.ManualReset,
		ResetDay:         r.ResetDay,
		ResetDate:        r.ResetDate,
	}
}

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Handler builds the daemon router.
func (s *Service) Handler() http.Handler {
	metrics.Register()

	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
		r.Post("/adjust", s.handleAdjust)
		r.Post("/undo", s.handleUndo)
		r.Post("/settings", s.handleSettings)
		r.Post("/reset", s.handleReset)
	})
	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Status())
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	events := s.Events()
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "since must be an event id")
			return
		}
		kept := events[:0]
		for _, ev := range events {
			if ev.ID > since {
				kept = append(kept, ev)
			}
		}
		events = kept
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleAdjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "body must be {\"delta_minutes\": n}")
		return
	}

	ev, _ := s.mutate(EventAdjust, func(tr *tracker.Tracker) error {
		tr.Adjust(req.DeltaMinutes)
		return nil
	})
	logging.FromContext(r.Context()).Info("quota adjusted",
		zap.Int("delta_minutes", req.DeltaMinutes),
		zap.Int("remaining_minutes", ev.Snapshot.RemainingMinutes),
	)
	writeJSON(w, http.StatusOK, ev)
}

func (s *Service) handleUndo(w http.ResponseWriter, _ *http.Request) {
	ev, err := s.mutate(EventUndo, func(tr *tracker.Tracker) error {
		if !tr.Undo() {
			return errNothingToUndo
		}
		return nil
	})
	if err != nil {
		writeError(w, http.StatusConflict, "nothing_to_undo", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Service) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed settings body")
		return
	}

	ev, err := s.mutate(EventSettings, func(tr *tracker.Tracker) error {
		return tr.Update(req.raw())
	})
	if err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Code:    "validation_failed",
				Message: verr.Error(),
				Field:   verr.Field,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "settings update failed")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Service) handleReset(w http.ResponseWriter, _ *http.Request) {
	ev, _ := s.mutate(EventReset, func(tr *tracker.Tracker) error {
		tr.ResetDefaults()
		return nil
	})
	writeJSON(w, http.StatusOK, ev)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	now := s.cfg.Now()
	s.mu.RLock()
	current := Event{
		Type:      EventSnapshot,
		Timestamp: now,
		Snapshot:  compact(s.tracker.Dashboard(now), now),
	}
	s.mu.RUnlock()
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

var errNothingToUndo = errors.New("nothing to undo")

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// jsonRecoverer turns handler panics into a JSON 500.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger emits one log line per request and puts a request-scoped
// logger into the context.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logging.WithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
