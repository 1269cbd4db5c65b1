// Package clip orchestrates the extraction pipeline: validate the request,
// resolve a source encoding, pipe its stream through the transcoder into a
// temporary artifact, read the artifact back and dispose of it.
package clip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/artifact"
	"github.com/clipforge/clipforge/internal/history"
	"github.com/clipforge/clipforge/internal/metrics"
	"github.com/clipforge/clipforge/internal/source"
	"github.com/clipforge/clipforge/internal/transcode"
)

// Request is one clip extraction request. It is parsed and validated once,
// never mutated.
type Request struct {
	URL    string  `json:"url"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Format string  `json:"format,omitempty"`
}

// Validate applies the request rules. All must pass or the request fails
// with InvalidRequest before any remote resource is touched.
func (r Request) Validate() error {
	if r.URL == "" {
		return newError(KindInvalidRequest, "url is required", nil)
	}
	if math.IsNaN(r.Start) || math.IsInf(r.Start, 0) || math.IsNaN(r.End) || math.IsInf(r.End, 0) {
		return newError(KindInvalidRequest, "start and end must be finite numbers", nil)
	}
	if r.Start < 0 {
		return newError(KindInvalidRequest, "start must not be negative", nil)
	}
	if r.End <= r.Start {
		return newError(KindInvalidRequest, "end must be greater than start", nil)
	}
	return nil
}

// Filename derives the suggested download name from the integer-truncated
// clip bounds.
func (r Request) Filename() string {
	return fmt.Sprintf("clip_%d-%d.mp4", int(math.Floor(r.Start)), int(math.Floor(r.End)))
}

// Result is a successfully extracted clip.
type Result struct {
	ID          string
	Data        []byte
	Filename    string
	ContentType string
	Title       string
}

// Resolver picks one encoding from a remote video and opens its stream.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*source.ResolvedStream, error)
}

// Transcoder cuts the requested window out of a byte stream into outPath.
type Transcoder interface {
	Extract(ctx context.Context, in io.Reader, w transcode.Window, outPath string) error
}

// Service drives one extraction per call. Requests share no state; the only
// cross-request resource is the scratch directory, partitioned by unique
// artifact ids.
type Service struct {
	resolver   Resolver
	transcoder Transcoder
	artifacts  *artifact.Manager
	repo       history.Repository // optional; nil disables history
	logger     *slog.Logger
}

func NewService(resolver Resolver, transcoder Transcoder, artifacts *artifact.Manager, repo history.Repository, logger *slog.Logger) *Service {
	return &Service{
		resolver:   resolver,
		transcoder: transcoder,
		artifacts:  artifacts,
		repo:       repo,
		logger:     logger,
	}
}

// Extract runs the full pipeline for one request. Any stage failure
// short-circuits the rest and the temporary artifact, partial or finished,
// is always disposed before return. Nothing is retried.
func (s *Service) Extract(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		metrics.ClipsTotal.WithLabelValues(string(KindInvalidRequest)).Inc()
		return nil, err
	}

	id := uuid.NewString()
	start := time.Now()

	metrics.ClipsInFlight.Inc()
	defer metrics.ClipsInFlight.Dec()

	s.recordStart(ctx, id, req)

	result, err := s.run(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		kind := KindOf(err)
		metrics.ClipsTotal.WithLabelValues(string(kind)).Inc()
		s.recordFailure(id, kind, err, elapsed)
		s.logger.Warn("clip extraction failed",
			"clip_id", id,
			"kind", string(kind),
			"elapsed_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	metrics.ClipsTotal.WithLabelValues("completed").Inc()
	metrics.ClipDuration.Observe(elapsed.Seconds())
	metrics.ClipOutputBytes.Observe(float64(len(result.Data)))
	s.recordSuccess(id, int64(len(result.Data)), elapsed)

	s.logger.Info("clip extracted",
		"clip_id", id,
		"bytes", len(result.Data),
		"elapsed_ms", elapsed.Milliseconds(),
	)

	result.ID = id
	return result, nil
}

func (s *Service) run(ctx context.Context, req Request) (*Result, error) {
	stream, err := s.resolver.Resolve(ctx, req.URL)
	if err != nil {
		if errors.Is(err, source.ErrNoPlayableFormat) {
			return nil, newError(KindNoPlayableFormat, "no playable format for "+req.URL, err)
		}
		// Manifest fetch failures mean the source offers us nothing usable.
		return nil, newError(KindNoPlayableFormat, "cannot resolve source "+req.URL, err)
	}
	defer stream.Body.Close()

	art := s.artifacts.Allocate()
	defer s.artifacts.Dispose(art)

	window := transcode.Window{StartSeconds: req.Start, EndSeconds: req.End}

	transcodeStart := time.Now()
	if err := s.transcoder.Extract(ctx, stream.Body, window, art.Path); err != nil {
		return nil, newError(KindTranscodeFailed, "transcode failed", err)
	}
	metrics.TranscodeDuration.Observe(time.Since(transcodeStart).Seconds())

	data, err := s.artifacts.Finalize(art)
	if err != nil {
		return nil, newError(KindArtifactIOFailed, "cannot read finished clip", err)
	}

	return &Result{
		Data:        data,
		Filename:    req.Filename(),
		ContentType: "video/mp4",
		Title:       stream.Title,
	}, nil
}

// History writes are best-effort; a failing database never fails a clip.
// They run on a background context so a request hitting its time budget
// still gets its terminal record.

func (s *Service) recordStart(ctx context.Context, id string, req Request) {
	if s.repo == nil {
		return
	}
	now := time.Now().UTC()
	err := s.repo.Create(ctx, &history.Record{
		ID:           id,
		SourceURL:    req.URL,
		StartSeconds: req.Start,
		EndSeconds:   req.End,
		Status:       history.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.logger.Warn("cannot record clip start", "clip_id", id, "error", err)
	}
}

func (s *Service) recordSuccess(id string, outputBytes int64, elapsed time.Duration) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Complete(context.Background(), id, outputBytes, elapsed.Milliseconds()); err != nil {
		s.logger.Warn("cannot record clip completion", "clip_id", id, "error", err)
	}
}

func (s *Service) recordFailure(id string, kind Kind, cause error, elapsed time.Duration) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Fail(context.Background(), id, string(kind), cause.Error(), elapsed.Milliseconds()); err != nil {
		s.logger.Warn("cannot record clip failure", "clip_id", id, "error", err)
	}
}
