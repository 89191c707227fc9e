package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/metrics"
	"quotation-workers/internal/models"
)

type errorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		resp.Error = stdErr.Message
		resp.Code = string(stdErr.Code)
		if fields, ok := stdErr.Metadata["fields"]; ok {
			resp.Details = fields
		} else if stdErr.Details != "" {
			resp.Details = stdErr.Details
		}
	}
	writeJSON(w, status, resp)
}

// readRequest decodes and validates the body. It writes the error response
// itself and reports false on failure.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (models.QuotationRequest, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body too large"))
		return models.QuotationRequest{}, false
	}
	req, err := s.opts.Validator.ValidateJSON(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return models.QuotationRequest{}, false
	}
	return req, true
}

func (s *Server) submitQuotation(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	if s.opts.Limiter != nil {
		decision, err := s.opts.Limiter.Allow(r.Context(), req.Email)
		if err != nil {
			s.logger.Warn("Rate limiter unavailable", map[string]interface{}{"error": err.Error()})
		}
		if !decision.Allowed {
			metrics.QuotationRateLimited.WithLabelValues(decision.Window).Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(decision.RetryAfter.Round(time.Second).Seconds())))
			writeError(w, http.StatusTooManyRequests, decision.Err())
			return
		}
	}

	result := s.opts.Quotations.Submit(r.Context(), req)
	if result.Success {
		writeJSON(w, http.StatusCreated, result)
		return
	}
	writeJSON(w, submissionStatus(result.Code), result)
}

func submissionStatus(code string) int {
	switch errors.ErrorCode(code) {
	case errors.ErrCodeNotificationSendFailed, errors.ErrCodeDispatchTimeout:
		return http.StatusBadGateway
	case errors.ErrCodeReferenceReservationFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) downloadPDF(w http.ResponseWriter, r *http.Request) {
	if !s.opts.Features.EnablePDFDownload {
		writeError(w, http.StatusNotFound, fmt.Errorf("proposal download is disabled"))
		return
	}
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	d, err := s.opts.Quotations.DownloadPDF(r.Context(), req)
	if err != nil {
		s.logger.Error("Proposal download failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(d.Content)))
	w.Header().Set("X-Reference-Number", d.ReferenceNumber)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.Content)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.opts.Version})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	status := http.StatusOK
	for name, p := range s.opts.Checks {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	writeJSON(w, status, map[string]interface{}{"ready": status == http.StatusOK, "checks": checks})
}
