package modunpack

// Outcome describes how far a decoder got through a chunk.
type Outcome int

const (
	// OutcomeSuccess means the full requested output was produced.
	OutcomeSuccess Outcome = iota
	// OutcomePartial means the input ran out (or was corrupt) before the requested
	// output size was reached. The data produced so far is still returned, since
	// callers can usually live with a short sample.
	OutcomePartial
	// OutcomeInvalidTree is specific to the Huffman decoder. No output is produced.
	OutcomeInvalidTree
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePartial:
		return "partial"
	case OutcomeInvalidTree:
		return "invalid-tree"
	default:
		return "unknown"
	}
}

// Result is the output of a single decoder invocation.
type Result struct {
	// Data holds the decoded bytes. Its length never exceeds the requested size.
	Data []byte
	// Consumed is the number of input bytes the caller must skip, counted from
	// the offset the decoder was started at. For some container formats this is
	// rounded up to a 4-byte boundary, so it can point past the end of the input
	// if the container's padding was truncated away.
	Consumed int
	Outcome  Outcome
}

// Params carries the decoder-specific arguments for a call through the method
// registry.
//
// OutputSize is the number of bytes (or samples) to produce. EscapeByte is only
// used by the nibble-delta unpacker.
type Params struct {
	OutputSize int
	EscapeByte byte
}

// NewResult builds a [Result], setting Outcome to [OutcomeSuccess] if data is
// exactly `requested` bytes long and [OutcomePartial] otherwise.
func NewResult(data []byte, consumed, requested int) Result {
	outcome := OutcomeSuccess
	if len(data) < requested {
		outcome = OutcomePartial
	}
	return Result{Data: data, Consumed: consumed, Outcome: outcome}
}

// AlignUp rounds n up to the next multiple of `alignment`. Alignments of 0 or 1
// return n unchanged.
func AlignUp(n, alignment int) int {
	if alignment <= 1 {
		return n
	}
	remainder := n % alignment
	if remainder == 0 {
		return n
	}
	return n + alignment - remainder
}
