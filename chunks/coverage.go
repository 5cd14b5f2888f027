package chunks

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/modunpack"
)

// Range is a half-open range of byte offsets, [Start, End).
type Range struct {
	Start int
	End   int
}

// Coverage tracks which bytes of a module image have been claimed by a chunk.
type Coverage struct {
	claimed bitmap.Bitmap
	Size    int
}

// NewCoverage creates a new coverage map for an image of `size` bytes with
// nothing claimed.
func NewCoverage(size int) Coverage {
	if size < 0 {
		size = 0
	}
	return Coverage{
		claimed: bitmap.New(size),
		Size:    size,
	}
}

// IsClaimed returns true if the byte at `offset` belongs to a chunk. Offsets
// outside the image are never claimed.
func (cov *Coverage) IsClaimed(offset int) bool {
	if offset < 0 || offset >= cov.Size {
		return false
	}
	return cov.claimed.Get(offset)
}

// Claim marks [start, end) as belonging to a chunk. If any byte in the range
// was already claimed, nothing is marked and it returns ErrOverlappingChunks.
func (cov *Coverage) Claim(start, end int) error {
	if start < 0 || end > cov.Size || start > end {
		msg := fmt.Sprintf("invalid range: [%d, %d) not in [0, %d)", start, end, cov.Size)
		return modunpack.ErrChunkOutOfBounds.WithMessage(msg)
	}

	for i := start; i < end; i++ {
		if cov.claimed.Get(i) {
			msg := fmt.Sprintf("byte %d of [%d, %d) is already claimed", i, start, end)
			return modunpack.ErrOverlappingChunks.WithMessage(msg)
		}
	}

	for i := start; i < end; i++ {
		cov.claimed.Set(i, true)
	}
	return nil
}

// Unclaimed returns the runs of bytes that don't belong to any chunk, in
// ascending order. Container readers use this to find header fields and
// uncompressed data between chunks.
func (cov *Coverage) Unclaimed() []Range {
	var gaps []Range
	runStart := -1

	for i := 0; i < cov.Size; i++ {
		if cov.claimed.Get(i) {
			if runStart >= 0 {
				// Hit a claimed byte, so this is the end of the current gap.
				gaps = append(gaps, Range{Start: runStart, End: i})
				runStart = -1
			}
			continue
		}
		if runStart < 0 {
			runStart = i
		}
	}

	if runStart >= 0 {
		gaps = append(gaps, Range{Start: runStart, End: cov.Size})
	}
	return gaps
}
