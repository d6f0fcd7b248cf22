package httpapi

import (
	"bytes"
	"io"
	"net/http"

	"github.com/otelscope/otelscope/internal/apierr"
	"github.com/otelscope/otelscope/internal/logger"
	"github.com/otelscope/otelscope/internal/otlp"
)

// ingestHandlers adapts the three OTLP/HTTP signal endpoints onto one
// shared Adapter. Live-tail fanout to websocket clients runs separately,
// off the store's own notifier hub (see websocket.Bridge), so these
// handlers only need the adapter.
type ingestHandlers struct {
	adapter *otlp.Adapter
}

// handleRoot detects the signal type from the request body for clients
// that POST / without a signal-specific path (a workaround the teacher
// carries for a known Gemini CLI bug).
func (h *ingestHandlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("failed to read body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	switch {
	case bytes.Contains(body, []byte(`"resourceSpans"`)):
		h.handleTraces(w, r)
	case bytes.Contains(body, []byte(`"resourceMetrics"`)):
		h.handleMetrics(w, r)
	case bytes.Contains(body, []byte(`"resourceLogs"`)):
		h.handleLogs(w, r)
	default:
		n := len(body)
		if n > 200 {
			n = 200
		}
		logger.Warn("unknown signal type in POST /", "body_preview", string(body[:n]))
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (h *ingestHandlers) handleTraces(w http.ResponseWriter, r *http.Request) {
	decoder, body, _, err := otlp.GetDecoderWithDetection(r.Body, r.Header.Get("Content-Type"))
	if err != nil {
		apierr.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := decoder.DecodeTraces(body)
	if err != nil {
		apierr.WriteError(w, http.StatusBadRequest, "failed to decode traces: "+err.Error())
		return
	}
	if err := h.adapter.IngestTraces(r.Context(), req); err != nil {
		apierr.WriteError(w, http.StatusInternalServerError, "failed to store traces")
		return
	}
	writeOTLPAck(w)
}

func (h *ingestHandlers) handleLogs(w http.ResponseWriter, r *http.Request) {
	decoder, body, _, err := otlp.GetDecoderWithDetection(r.Body, r.Header.Get("Content-Type"))
	if err != nil {
		apierr.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := decoder.DecodeLogs(body)
	if err != nil {
		apierr.WriteError(w, http.StatusBadRequest, "failed to decode logs: "+err.Error())
		return
	}
	if err := h.adapter.IngestLogs(r.Context(), req); err != nil {
		apierr.WriteError(w, http.StatusInternalServerError, "failed to store logs")
		return
	}
	writeOTLPAck(w)
}

func (h *ingestHandlers) handleMetrics(w http.ResponseWriter, r *http.Request) {
	decoder, body, _, err := otlp.GetDecoderWithDetection(r.Body, r.Header.Get("Content-Type"))
	if err != nil {
		apierr.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := decoder.DecodeMetrics(body)
	if err != nil {
		apierr.WriteError(w, http.StatusBadRequest, "failed to decode metrics: "+err.Error())
		return
	}
	if err := h.adapter.IngestMetrics(r.Context(), req); err != nil {
		apierr.WriteError(w, http.StatusInternalServerError, "failed to store metrics")
		return
	}
	writeOTLPAck(w)
}

func writeOTLPAck(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("{}"))
}
