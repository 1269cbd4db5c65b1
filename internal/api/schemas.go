package api

import (
	"time"

	"github.com/clipforge/clipforge/internal/history"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ClipRecordResponse struct {
	ID           string  `json:"id"`
	SourceURL    string  `json:"source_url"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Status       string  `json:"status"`
	ErrorKind    string  `json:"error_kind,omitempty"`
	Error        string  `json:"error,omitempty"`
	OutputBytes  int64   `json:"output_bytes"`
	ElapsedMs    int64   `json:"elapsed_ms"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ClipRecordsResponse struct {
	Clips []ClipRecordResponse `json:"clips"`
}

func RecordToResponse(r *history.Record) ClipRecordResponse {
	return ClipRecordResponse{
		ID:           r.ID,
		SourceURL:    r.SourceURL,
		StartSeconds: r.StartSeconds,
		EndSeconds:   r.EndSeconds,
		Status:       r.Status,
		ErrorKind:    r.ErrorKind,
		Error:        r.Error,
		OutputBytes:  r.OutputBytes,
		ElapsedMs:    r.ElapsedMs,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}
