package source

// Select picks exactly one candidate from a manifest.
//
// Two-tier policy, in order:
//  1. progressive mp4 carrying both tracks (not segmented), highest quality
//     rank among matches
//  2. best-effort fallback: the single highest-ranked candidate overall,
//     regardless of container or segmentation
//
// The ordering is deliberate: strict matching frequently yields zero
// candidates for some sources, and degrading to "best available" keeps the
// request serviceable at the cost of heavier re-encoding downstream.
// Candidates without a stream locator are never selectable.
func Select(candidates []EncodingCandidate) (EncodingCandidate, error) {
	best := -1
	for i, c := range candidates {
		if c.StreamURL == "" {
			continue
		}
		if c.Container != "mp4" || !c.HasVideo || !c.HasAudio || c.Segmented {
			continue
		}
		if best < 0 || better(c, candidates[best]) {
			best = i
		}
	}
	if best >= 0 {
		return candidates[best], nil
	}

	for i, c := range candidates {
		if c.StreamURL == "" {
			continue
		}
		if best < 0 || better(c, candidates[best]) {
			best = i
		}
	}
	if best >= 0 {
		return candidates[best], nil
	}

	return EncodingCandidate{}, ErrNoPlayableFormat
}

func better(a, b EncodingCandidate) bool {
	if a.QualityRank != b.QualityRank {
		return a.QualityRank > b.QualityRank
	}
	return a.Bitrate > b.Bitrate
}
