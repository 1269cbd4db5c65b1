package source

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// YouTubeResolver fetches a video's format manifest and opens the selected
// stream. It is the production implementation of the resolver contract used
// by the clip service.
type YouTubeResolver struct {
	client youtube.Client
	logger *slog.Logger
}

func NewYouTubeResolver(logger *slog.Logger) *YouTubeResolver {
	return &YouTubeResolver{logger: logger}
}

// Resolve fetches the manifest for rawURL, applies the selection policy and
// opens the chosen stream for incremental reading.
func (r *YouTubeResolver) Resolve(ctx context.Context, rawURL string) (*ResolvedStream, error) {
	video, err := r.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}

	candidates := candidatesFromVideo(video)
	r.logger.Debug("manifest fetched",
		"video_id", video.ID,
		"candidates", len(candidates),
	)

	chosen, err := Select(candidates)
	if err != nil {
		return nil, err
	}

	format := formatByItag(video, chosen.Itag)
	if format == nil {
		return nil, ErrNoPlayableFormat
	}

	body, size, err := r.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("open stream for itag %d: %w", chosen.Itag, err)
	}

	r.logger.Info("stream resolved",
		"video_id", video.ID,
		"itag", chosen.Itag,
		"container", chosen.Container,
		"quality_rank", chosen.QualityRank,
		"content_length", size,
	)

	return &ResolvedStream{
		Candidate:     chosen,
		Title:         video.Title,
		ContentLength: size,
		Body:          body,
	}, nil
}

func candidatesFromVideo(video *youtube.Video) []EncodingCandidate {
	candidates := make([]EncodingCandidate, 0, len(video.Formats)+2)
	for _, f := range video.Formats {
		candidates = append(candidates, candidateFromFormat(f))
	}

	// Manifest-described streams are listed so the fallback tier can report
	// honestly on what the source offers, but they carry no direct locator
	// the pipeline can consume.
	if video.HLSManifestURL != "" {
		candidates = append(candidates, EncodingCandidate{
			Container: "m3u8",
			MimeType:  "application/x-mpegURL",
			HasVideo:  true,
			HasAudio:  true,
			Segmented: true,
		})
	}
	if video.DASHManifestURL != "" {
		candidates = append(candidates, EncodingCandidate{
			Container: "mpd",
			MimeType:  "application/dash+xml",
			HasVideo:  true,
			HasAudio:  true,
			Segmented: true,
		})
	}

	return candidates
}

func candidateFromFormat(f youtube.Format) EncodingCandidate {
	mediaType := f.MimeType
	if parsed, _, err := mime.ParseMediaType(f.MimeType); err == nil {
		mediaType = parsed
	}

	kind, container, _ := strings.Cut(mediaType, "/")

	// Ciphered formats expose their URL only after signature decoding, which
	// GetStreamContext performs; either form counts as a retrievable locator.
	locator := f.URL
	if locator == "" {
		locator = f.Cipher
	}

	rank := f.Height
	if rank == 0 && kind == "audio" {
		// Audio-only streams rank below any video stream but are still
		// orderable among themselves.
		rank = f.Bitrate / 1_000_000
	}

	return EncodingCandidate{
		Itag:        f.ItagNo,
		Container:   container,
		MimeType:    mediaType,
		HasVideo:    kind == "video",
		HasAudio:    f.AudioChannels > 0 || kind == "audio",
		Segmented:   false,
		QualityRank: rank,
		Bitrate:     f.Bitrate,
		StreamURL:   locator,
	}
}

func formatByItag(video *youtube.Video, itag int) *youtube.Format {
	for i := range video.Formats {
		if video.Formats[i].ItagNo == itag {
			return &video.Formats[i]
		}
	}
	return nil
}
