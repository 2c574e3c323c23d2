package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"deskcalc/internal/display"
	"deskcalc/internal/engine"
	"deskcalc/internal/handlers"
	"deskcalc/internal/keymap"
	"deskcalc/internal/observability"
	"deskcalc/internal/session"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator session API on top of a session.Store.
type Handler struct {
	store session.Store
}

func NewHandler(store session.Store) *Handler {
	return &Handler{store: store}
}

// ---------------------------------------------------------------------------
// Handlers — session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	sess, err := h.store.Create(ctx)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "creating session", err, http.StatusInternalServerError, w)
		return
	}

	sessionsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", "created")))

	span.SetAttributes(attribute.String("calculator.session.id", sess.ID))
	span.SetStatus(codes.Ok, "")

	logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("request_id", requestID),
	)

	writeSession(w, http.StatusCreated, sess)
}

// GetSession handles GET /calculator/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	sessionID := chi.URLParam(r, "sessionID")

	ctx, span := tracer.Start(ctx, "calculator.session.get",
		trace.WithAttributes(
			attribute.String("calculator.session.id", sessionID),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	sess, err := h.store.Get(ctx, sessionID)
	if err != nil {
		status, msg := storeStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "get", msg, err, status, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.display", sess.State.Display))
	span.SetStatus(codes.Ok, "")

	writeSession(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /calculator/sessions/{sessionID}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	sessionID := chi.URLParam(r, "sessionID")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(
			attribute.String("calculator.session.id", sessionID),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	if err := h.store.Delete(ctx, sessionID); err != nil {
		status, msg := storeStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "delete", msg, err, status, w)
		return
	}

	sessionsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", "deleted")))

	span.SetStatus(codes.Ok, "")

	logger.Info("session deleted",
		zap.String("session_id", sessionID),
		zap.String("request_id", requestID),
	)

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers — event application
// ---------------------------------------------------------------------------

// ApplyEvent handles POST /calculator/sessions/{sessionID}/events.
func (h *Handler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	sessionID := chi.URLParam(r, "sessionID")

	ctx, span := tracer.Start(ctx, "calculator.session.event",
		trace.WithAttributes(
			attribute.String("calculator.session.id", sessionID),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "event", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	ev, err := req.toEvent()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "event", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.event", engine.EventName(ev)))

	h.applyAndRespond(ctx, span, logger, w, "event", sessionID, []engine.Event{ev})
}

// ApplyKeys handles POST /calculator/sessions/{sessionID}/keys — applies a
// whole key sequence in one store round trip.
func (h *Handler) ApplyKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	sessionID := chi.URLParam(r, "sessionID")

	ctx, span := tracer.Start(ctx, "calculator.session.keys",
		trace.WithAttributes(
			attribute.String("calculator.session.id", sessionID),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "no keys provided", fmt.Errorf("keys array is empty"), http.StatusBadRequest, w)
		return
	}

	evs, err := translateKeys(req.Keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("calculator.keys_count", len(req.Keys)))

	h.applyAndRespond(ctx, span, logger, w, "keys", sessionID, evs)
}

// applyAndRespond is the shared implementation behind the event and keys
// endpoints: one store round trip, metrics, span events, and the session
// response. A divide-by-zero surfaces as the error display state with
// HTTP 200 — the calculator stays interactive, so it is not a request error.
func (h *Handler) applyAndRespond(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, opName, sessionID string, evs []engine.Event) {
	requestID := observability.RequestIDFromContext(ctx)

	start := time.Now()
	before, sess, err := h.store.Apply(ctx, sessionID, evs...)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		status, msg := storeStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, opName, msg, err, status, w)
		return
	}

	for _, ev := range evs {
		eventsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("event", engine.EventName(ev))))
	}
	applyHistogram.Record(ctx, elapsed, metric.WithAttributes(attribute.String("operation", opName)))

	if !before.IsError() && sess.State.IsError() {
		divZeroCounter.Add(ctx, 1)
		span.AddEvent("display.error", trace.WithAttributes(
			attribute.String("display.before", before.Display),
		))
		logger.Warn("calculation entered error state",
			zap.String("session_id", sess.ID),
			zap.String("display_before", before.Display),
			zap.String("request_id", requestID),
		)
	}

	if v, err := strconv.ParseFloat(sess.State.Display, 64); err == nil {
		displayGauge.Record(ctx, v)
	}

	span.AddEvent("events.applied", trace.WithAttributes(
		attribute.Int("events.count", len(evs)),
		attribute.String("display.before", before.Display),
		attribute.String("display.after", sess.State.Display),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.display", sess.State.Display))
	span.SetStatus(codes.Ok, "")

	logger.Info("events applied",
		zap.String("operation", opName),
		zap.String("session_id", sess.ID),
		zap.Int("events", len(evs)),
		zap.String("display", sess.State.Display),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	writeSession(w, http.StatusOK, sess)
}

// ---------------------------------------------------------------------------
// Handler — one-shot evaluation (demonstrates nested spans)
// ---------------------------------------------------------------------------

// Eval handles POST /calculator/eval — folds a key sequence over a fresh
// machine without touching the session store, creating a child span for
// every key. This produces a multi-level trace that is ideal for
// visualising in Jaeger / Grafana Tempo.
func (h *Handler) Eval(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.eval",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req EvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "eval", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "eval", "no keys provided", fmt.Errorf("keys array is empty"), http.StatusBadRequest, w)
		return
	}

	evs, err := translateKeys(req.Keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "eval", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("eval.keys_count", len(req.Keys)))

	logger.Info("starting evaluation",
		zap.Int("keys", len(req.Keys)),
		zap.String("request_id", requestID),
	)

	st := engine.New()
	for i, ev := range evs {
		name := engine.EventName(ev)

		// --- Child span per key ---
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.eval.step.%d.%s", i, name),
			trace.WithAttributes(
				attribute.Int("eval.step.index", i),
				attribute.String("eval.step.key", req.Keys[i]),
				attribute.String("eval.step.event", name),
				attribute.String("eval.step.input", st.Display),
			),
		)

		prev := st
		st = st.Apply(ev)

		eventsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("event", name)))

		if !prev.IsError() && st.IsError() {
			// The machine absorbs the failure into its display state and
			// the fold keeps going, mirroring an interactive session.
			divZeroCounter.Add(ctx, 1)
			stepSpan.RecordError(engine.ErrDivideByZero)
			stepSpan.SetStatus(codes.Error, engine.ErrDivideByZero.Error())
			span.AddEvent("display.error", trace.WithAttributes(
				attribute.Int("eval.step.index", i),
				attribute.String("display.before", prev.Display),
			))
		} else {
			stepSpan.SetStatus(codes.Ok, "")
		}

		stepSpan.SetAttributes(attribute.String("eval.step.result", st.Display))
		stepSpan.End()
	}

	if v, err := strconv.ParseFloat(st.Display, 64); err == nil {
		displayGauge.Record(ctx, v)
	}

	span.AddEvent("eval.complete", trace.WithAttributes(
		attribute.String("final_display", st.Display),
		attribute.Int("total_keys", len(req.Keys)),
	))
	span.SetAttributes(attribute.String("calculator.display", st.Display))
	span.SetStatus(codes.Ok, "")

	logger.Info("evaluation completed",
		zap.Int("keys", len(req.Keys)),
		zap.String("display", st.Display),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, EvalResponse{
		State:    st,
		Rendered: display.Format(st.Display),
	})
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// translateKeys maps key names onto events, rejecting the whole batch on
// the first unknown key so a partial sequence is never applied.
func translateKeys(keys []string) ([]engine.Event, error) {
	evs := make([]engine.Event, len(keys))
	for i, key := range keys {
		ev, ok := keymap.Translate(key)
		if !ok {
			return nil, fmt.Errorf("unknown key %q at index %d", key, i)
		}
		evs[i] = ev
	}
	return evs, nil
}

// storeStatus maps store errors onto HTTP statuses.
func storeStatus(err error) (int, string) {
	if errors.Is(err, session.ErrNotFound) {
		return http.StatusNotFound, "session not found"
	}
	return http.StatusInternalServerError, "session store failure"
}

func writeSession(w http.ResponseWriter, status int, sess session.Session) {
	handlers.WriteJSON(w, status, SessionResponse{
		SessionID: sess.ID,
		State:     sess.State,
		Rendered:  display.Format(sess.State.Display),
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	})
}
