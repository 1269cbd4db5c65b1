// Package source resolves a remote video locator into a single playable
// encoding and an open byte stream for it. The manifest is fetched fresh per
// request; nothing is cached across requests.
package source

import (
	"errors"
	"io"
)

// ErrNoPlayableFormat is returned when the remote manifest yields no usable
// encoding candidate. Not retryable without a different source.
var ErrNoPlayableFormat = errors.New("no playable format available for source")

// EncodingCandidate is one entry from the remote video's manifest.
type EncodingCandidate struct {
	Itag        int    `json:"itag"`
	Container   string `json:"container"` // "mp4", "webm", ...
	MimeType    string `json:"mime_type"`
	HasVideo    bool   `json:"has_video"`
	HasAudio    bool   `json:"has_audio"`
	Segmented   bool   `json:"segmented"` // manifest-described multi-chunk stream
	QualityRank int    `json:"quality_rank"`
	Bitrate     int    `json:"bitrate"` // tiebreaker between equal ranks
	StreamURL   string `json:"-"`
}

// ResolvedStream is the outcome of resolution: the chosen candidate with its
// content opened for reading. The caller owns Body and must close it.
type ResolvedStream struct {
	Candidate     EncodingCandidate
	Title         string
	ContentLength int64
	Body          io.ReadCloser
}
