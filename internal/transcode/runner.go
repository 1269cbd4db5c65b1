// Package transcode runs ffmpeg as a subprocess to cut a precise time window
// from a streamed source and write a progressively playable mp4.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

const (
	maxStderrBytes = 8 * 1024 // 8 KB tail of stderr kept for diagnostics

	// MinDuration is the floor applied to the extraction window so a
	// degenerate zero-length encode instruction is never sent to ffmpeg.
	MinDuration = 0.01
)

// Window is the time slice to extract from the source.
type Window struct {
	StartSeconds float64
	EndSeconds   float64
}

// Duration returns the effective encode duration, floored at MinDuration.
func (w Window) Duration() float64 {
	d := w.EndSeconds - w.StartSeconds
	if d < MinDuration {
		return MinDuration
	}
	return d
}

// Config holds the runner's configuration. The ffmpeg location is explicit
// so tests can substitute any executable.
type Config struct {
	FFmpegPath string // path to ffmpeg binary; empty = auto-detect
	Logger     *slog.Logger
}

// Runner is the production transcoder. One Extract call spawns one ffmpeg
// process; there are no retries.
type Runner struct {
	ffmpeg string
	logger *slog.Logger
}

// NewRunner creates a Runner, resolving the ffmpeg binary path.
func NewRunner(cfg Config) (*Runner, error) {
	ffmpeg, err := resolveFFmpeg(cfg.FFmpegPath)
	if err != nil {
		return nil, fmt.Errorf("cannot locate ffmpeg: %w", err)
	}

	cfg.Logger.Info("transcode runner initialised", "ffmpeg", ffmpeg)

	return &Runner{ffmpeg: ffmpeg, logger: cfg.Logger}, nil
}

// Extract consumes in incrementally through ffmpeg's stdin, seeks to the
// window start, limits output to the window duration and writes a faststart
// mp4 to outPath. The source is never buffered whole; peak memory stays at
// the pipe buffer size regardless of source length.
//
// A non-zero exit or a stream error rejects with the stderr tail attached.
// Cancelling ctx kills the process; the partial output file is the caller's
// to dispose.
func (r *Runner) Extract(ctx context.Context, in io.Reader, w Window, outPath string) error {
	args := []string{
		"-nostats", "-hide_banner", "-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", w.StartSeconds),
		"-i", "pipe:0",
		"-t", fmt.Sprintf("%.3f", w.Duration()),
		// Trimming at arbitrary timestamps needs a re-encode; a stream copy
		// would snap the cut to the nearest keyframe.
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		// Place the moov atom up front so the clip plays progressively.
		"-movflags", "+faststart",
		"-f", "mp4",
		"-y", outPath,
	}

	start := time.Now()

	cmd := exec.CommandContext(ctx, r.ffmpeg, args...)
	cmd.Stdin = in

	var stderrBuf bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderrBuf, limit: maxStderrBytes}
	cmd.Stdout = io.Discard

	r.logger.Info("starting transcode",
		"start_s", w.StartSeconds,
		"duration_s", w.Duration(),
		"output", outPath,
	)

	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		tail := stderrBuf.String()
		r.logger.Warn("transcode failed",
			"exit_code", exitCode,
			"duration_ms", elapsed.Milliseconds(),
			"stderr_tail", truncate(tail, 512),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("transcode aborted: %w", ctxErr)
		}
		return fmt.Errorf("ffmpeg exited %d: %s", exitCode, tail)
	}

	r.logger.Info("transcode complete",
		"duration_ms", elapsed.Milliseconds(),
		"output", outPath,
	)
	return nil
}

// resolveFFmpeg finds a usable ffmpeg binary.
func resolveFFmpeg(preferred string) (string, error) {
	if preferred != "" {
		if p, err := exec.LookPath(preferred); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("configured ffmpeg %q not found", preferred)
	}
	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("no ffmpeg binary found on PATH")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-maxLen:]
}

// limitedWriter is an io.Writer that keeps only the last `limit` bytes.
type limitedWriter struct {
	w     *bytes.Buffer
	limit int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	lw.w.Write(p)
	if lw.w.Len() > lw.limit {
		// Keep only the tail
		b := lw.w.Bytes()
		lw.w.Reset()
		lw.w.Write(b[len(b)-lw.limit:])
	}
	return n, nil
}
