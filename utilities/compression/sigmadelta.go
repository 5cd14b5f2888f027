package compression

import (
	"github.com/dargueta/modunpack"
	"github.com/dargueta/modunpack/utilities/bitstream"
)

const (
	sigmaDeltaInitialWidth = 8
	sigmaDeltaMinWidth     = 1
	sigmaDeltaMaxWidth     = 9

	// SigmaDeltaAlignment is the boundary the bit region of a sigma-delta chunk
	// is padded to.
	SigmaDeltaAlignment = 4
)

// sigmaDeltaState is the adaptive part of the decoder: how wide the next delta
// is, and how many more narrow deltas it takes before the width shrinks.
type sigmaDeltaState struct {
	maxRunLength int
	bitWidth     uint
	runCounter   int
}

func newSigmaDeltaState(maxRunLength int) sigmaDeltaState {
	if maxRunLength < 1 {
		maxRunLength = 1
	}
	return sigmaDeltaState{
		maxRunLength: maxRunLength,
		bitWidth:     sigmaDeltaInitialWidth,
		runCounter:   maxRunLength,
	}
}

// widen handles the zero-valued escape code.
func (state *sigmaDeltaState) widen() {
	if state.bitWidth < sigmaDeltaMaxWidth {
		state.bitWidth++
	}
	state.runCounter = state.maxRunLength
}

// update adjusts the width after a nonzero value was decoded. A value with its
// top bit set holds the current width; otherwise the run counter ticks down and
// the width shrinks by one when it runs out.
func (state *sigmaDeltaState) update(value uint32) {
	if value>>(state.bitWidth-1) != 0 {
		state.runCounter = state.maxRunLength
		return
	}

	state.runCounter--
	if state.runCounter <= 0 {
		if state.bitWidth > sigmaDeltaMinWidth {
			state.bitWidth--
		}
		state.runCounter = state.maxRunLength
	}
}

// DecompressSigmaDelta decodes an adaptive-width delta stream starting at
// input[offset].
//
// The first byte is the maximum run length. The bit stream (LSB-first) follows:
// an 8-bit starting value that is emitted as-is, then variable-width codes. The
// low bit of a code is its sign (1 = subtract) and the rest is the magnitude; a
// code of zero emits nothing and widens subsequent codes by one bit, up to 9.
// After `maxRunLength` codes in a row that don't use their top bit, codes
// narrow by one bit, down to 1.
//
// Consumed covers the run length byte plus the bit stream rounded up to a
// multiple of [SigmaDeltaAlignment].
func DecompressSigmaDelta(input []byte, offset int, outputSize int) (modunpack.Result, error) {
	if err := checkDecodeArgs(input, offset, outputSize); err != nil {
		return modunpack.Result{}, err
	}
	if offset >= len(input) {
		return modunpack.NewResult([]byte{}, 0, outputSize), nil
	}

	state := newSigmaDeltaState(int(input[offset]))
	streamStart := offset + 1

	// Every output byte costs at least one bit, so there's no point in allocating
	// (or looping) for more than that.
	limit := outputSize
	if maxPossible := (len(input) - streamStart) * 8; limit > maxPossible {
		limit = maxPossible
	}

	cursor := bitstream.NewCursor(input, streamStart)
	output := make([]byte, 0, limit)

	if limit > 0 {
		initial, err := cursor.ReadBits(8)
		if err == nil {
			accumulator := byte(initial)
			output = append(output, accumulator)

			for len(output) < limit {
				value, err := cursor.ReadBits(state.bitWidth)
				if err != nil {
					break
				}
				if value == 0 {
					state.widen()
					continue
				}

				magnitude := byte(value >> 1)
				if value&1 != 0 {
					accumulator -= magnitude
				} else {
					accumulator += magnitude
				}
				output = append(output, accumulator)
				state.update(value)
			}
		}
	}

	consumed := 1 + modunpack.AlignUp(cursor.Position()-streamStart, SigmaDeltaAlignment)
	return modunpack.NewResult(output, consumed, outputSize), nil
}
