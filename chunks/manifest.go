package chunks

import (
	"fmt"
	"io"

	"github.com/dargueta/modunpack"
	"github.com/dargueta/modunpack/utilities/compression"
	"github.com/gocarina/gocsv"
	"github.com/hashicorp/go-multierror"
)

// Chunk gives the location of one compressed region inside a module image,
// as extracted by a container reader.
type Chunk struct {
	Name   string             `csv:"name"`
	Method compression.Method `csv:"method"`
	Offset int                `csv:"offset"`

	// CompressedLength is the size of the packed region declared by the
	// container. 0 means the container doesn't say, and the region runs to the
	// end of the image.
	CompressedLength int     `csv:"compressed_length"`
	DecompressedSize int     `csv:"decompressed_size"`
	EscapeByte       HexByte `csv:"escape_byte"`
}

// Params returns the decoder parameters for this chunk.
func (chunk *Chunk) Params() modunpack.Params {
	return modunpack.Params{
		OutputSize: chunk.DecompressedSize,
		EscapeByte: byte(chunk.EscapeByte),
	}
}

// Region returns the half-open byte range [start, end) the chunk occupies in an
// image of `imageSize` bytes.
func (chunk *Chunk) Region(imageSize int) (int, int, error) {
	if chunk.Offset < 0 || chunk.Offset > imageSize {
		return 0, 0, modunpack.ErrChunkOutOfBounds.WithMessage(
			fmt.Sprintf(
				"chunk %q: offset %d not in [0, %d]", chunk.Name, chunk.Offset, imageSize))
	}
	if chunk.CompressedLength < 0 || chunk.DecompressedSize < 0 {
		return 0, 0, modunpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("chunk %q: lengths must be non-negative", chunk.Name))
	}
	if chunk.CompressedLength == 0 {
		return chunk.Offset, imageSize, nil
	}

	// Compare against the space left rather than computing the end first, so a
	// huge length can't overflow.
	if chunk.CompressedLength > imageSize-chunk.Offset {
		return 0, 0, modunpack.ErrChunkOutOfBounds.WithMessage(
			fmt.Sprintf(
				"chunk %q: %d bytes at offset %d extends past end of %d-byte image",
				chunk.Name,
				chunk.CompressedLength,
				chunk.Offset,
				imageSize,
			)).AtOffset(chunk.Offset)
	}
	return chunk.Offset, chunk.Offset + chunk.CompressedLength, nil
}

// ReadManifest parses a CSV list of chunks. The first row must be a header
// naming the columns, in any order.
func ReadManifest(input io.Reader) ([]Chunk, error) {
	var chunks []Chunk
	if err := gocsv.Unmarshal(input, &chunks); err != nil {
		return nil, modunpack.ErrMalformedManifest.Wrap(err)
	}
	return chunks, nil
}

// WriteManifest writes `chunks` as CSV with a header row.
func WriteManifest(output io.Writer, chunks []Chunk) error {
	return gocsv.Marshal(&chunks, output)
}

// ValidateChunks checks that every chunk lies inside an image of `imageSize`
// bytes, that no two chunks with declared lengths overlap, and that chunk names
// are unique. All problems are reported, not just the first one.
func ValidateChunks(imageSize int, chunks []Chunk) error {
	var result *multierror.Error
	coverage := NewCoverage(imageSize)
	firstUse := make(map[string]int, len(chunks))

	for i := range chunks {
		if previous, exists := firstUse[chunks[i].Name]; exists {
			result = multierror.Append(
				result,
				modunpack.ErrMalformedManifest.WithMessage(
					fmt.Sprintf(
						"chunk %d has the same name as chunk %d: %q",
						i,
						previous,
						chunks[i].Name,
					)))
		} else {
			firstUse[chunks[i].Name] = i
		}

		start, end, err := chunks[i].Region(imageSize)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if chunks[i].CompressedLength == 0 {
			// Open-ended chunks don't have a known extent, so they can't be
			// checked for overlap.
			continue
		}

		err = coverage.Claim(start, end)
		if err != nil {
			result = multierror.Append(
				result, fmt.Errorf("chunk %d (%q): %w", i, chunks[i].Name, err))
		}
	}
	return result.ErrorOrNil()
}
