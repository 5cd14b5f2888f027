package compression

import (
	"fmt"

	"github.com/dargueta/modunpack"
	"github.com/dargueta/modunpack/utilities/bitstream"
)

const (
	lzwResetCode    = 256
	lzwEndCode      = 257
	lzwFirstFree    = 257
	lzwMinCodeWidth = 9
	lzwMaxCodeWidth = 13
	lzwTableSize    = 1 << lzwMaxCodeWidth

	// LZWAlignment is the boundary the enclosing chunk is padded to.
	LZWAlignment = 4
)

// lzwDictionary is the decoder's string table. Codes 0-255 are the literal bytes
// and never stored. Every other entry is "the string for prefix[code] followed
// by suffix[code]". Entries are only ever appended; a reset just rewinds
// nextIndex and lets old entries get overwritten.
type lzwDictionary struct {
	prefix    [lzwTableSize]uint16
	suffix    [lzwTableSize]byte
	nextIndex int
	codeWidth uint
	// scratch holds a string while it's being resolved, last byte first.
	scratch []byte
}

func newLZWDictionary() *lzwDictionary {
	dict := &lzwDictionary{scratch: make([]byte, 0, lzwTableSize)}
	dict.reset()
	return dict
}

func (dict *lzwDictionary) reset() {
	dict.nextIndex = lzwFirstFree
	dict.codeWidth = lzwMinCodeWidth
}

// add stores a new entry at nextIndex and widens the codes once nextIndex hits
// the next power of two. Nothing is stored once the table is full.
func (dict *lzwDictionary) add(prefix int, value byte) {
	if dict.nextIndex >= lzwTableSize {
		return
	}

	dict.prefix[dict.nextIndex] = uint16(prefix)
	dict.suffix[dict.nextIndex] = value
	dict.nextIndex++

	if dict.nextIndex == 1<<dict.codeWidth && dict.codeWidth < lzwMaxCodeWidth {
		dict.codeWidth++
	}
}

// resolve expands `code` into dict.scratch in reverse order and returns the
// string's first byte. The caller must already have checked that code is a
// literal or below nextIndex.
func (dict *lzwDictionary) resolve(code int) byte {
	dict.scratch = dict.scratch[:0]

	// Prefixes always point at lower codes, but bound the walk anyway so a bug
	// can't turn into an infinite loop.
	for code > 0xff && len(dict.scratch) < lzwTableSize {
		dict.scratch = append(dict.scratch, dict.suffix[code])
		code = int(dict.prefix[code])
	}

	first := byte(code)
	dict.scratch = append(dict.scratch, first)
	return first
}

// DecompressLZW expands an LZW stream starting at input[offset] into a buffer of
// at most `outputSize` bytes.
//
// Codes start at 9 bits wide and grow up to 13 as the dictionary fills. Code 256
// resets the dictionary and 257 ends the stream. Decoding also stops when the
// output is full, when the input runs out, or when a code refers to an entry
// that can't exist yet; none of these are errors, but anything short of a full
// buffer is reported as [modunpack.OutcomePartial].
//
// The returned Consumed count is rounded up to a multiple of [LZWAlignment],
// measured from `offset`.
func DecompressLZW(input []byte, offset int, outputSize int) (modunpack.Result, error) {
	if err := checkDecodeArgs(input, offset, outputSize); err != nil {
		return modunpack.Result{}, err
	}

	cursor := bitstream.NewCursor(input, offset)
	dict := newLZWDictionary()
	output := make([]byte, 0, outputSize)
	prevCode := 0

	for len(output) < outputSize {
		code32, err := cursor.ReadBits(dict.codeWidth)
		if err != nil {
			break
		}
		code := int(code32)

		if code == lzwResetCode {
			dict.reset()
			prevCode = 0
			continue
		}
		if code == lzwEndCode || code > dict.nextIndex {
			break
		}

		var first byte
		if code == dict.nextIndex {
			// The code refers to the entry we're about to create: the previous
			// string plus its own first byte.
			first = dict.resolve(prevCode)
			output = appendReversed(output, dict.scratch, outputSize)
			if len(output) < outputSize {
				output = append(output, first)
			}
		} else {
			first = dict.resolve(code)
			output = appendReversed(output, dict.scratch, outputSize)
		}

		if len(output) < outputSize {
			dict.add(prevCode, first)
		}
		prevCode = code
	}

	consumed := modunpack.AlignUp(cursor.Position()-offset, LZWAlignment)
	return modunpack.NewResult(output, consumed, outputSize), nil
}

// appendReversed appends `reversed` to output back to front, stopping once
// output has `limit` bytes.
func appendReversed(output, reversed []byte, limit int) []byte {
	for i := len(reversed) - 1; i >= 0 && len(output) < limit; i-- {
		output = append(output, reversed[i])
	}
	return output
}

// checkDecodeArgs rejects arguments that indicate a bug in the caller rather
// than bad data in the file.
func checkDecodeArgs(input []byte, offset int, outputSize int) error {
	if outputSize < 0 {
		return modunpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("output size must be non-negative, got %d", outputSize))
	}
	if offset < 0 || offset > len(input) {
		return modunpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("offset %d not in [0, %d]", offset, len(input)))
	}
	return nil
}
