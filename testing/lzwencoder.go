package testing

const (
	lzwReset     = 256
	lzwEnd       = 257
	lzwTableSize = 8192
	lzwMaxWidth  = 13
)

// LZWCodeWriter writes LZW codes with the same width schedule the decoder
// uses: 9 bits to start, one more each time the decoder's next free index
// reaches a power of two, up to 13.
type LZWCodeWriter struct {
	bits         LSBWriter
	decoderIndex int
	width        uint
}

func NewLZWCodeWriter() *LZWCodeWriter {
	return &LZWCodeWriter{decoderIndex: 257, width: 9}
}

// Width returns the number of bits the next code will be written with.
func (w *LZWCodeWriter) Width() uint {
	return w.width
}

// WriteCode writes a single code and advances the width schedule.
func (w *LZWCodeWriter) WriteCode(code int) {
	w.bits.WriteBits(uint32(code), w.width)
	switch code {
	case lzwReset:
		w.decoderIndex = 257
		w.width = 9
	case lzwEnd:
	default:
		if w.decoderIndex < lzwTableSize {
			w.decoderIndex++
			if w.decoderIndex == 1<<w.width && w.width < lzwMaxWidth {
				w.width++
			}
		}
	}
}

// Bytes returns the packed codes.
func (w *LZWCodeWriter) Bytes() []byte {
	return w.bits.Bytes()
}

// EncodeLZW compresses `data` into a stream the LZW decoder accepts,
// terminated with an end code. When the table fills up it emits a reset code
// and starts over. It exists to generate test inputs; nothing in the module
// needs to produce LZW data.
func EncodeLZW(data []byte) []byte {
	writer := NewLZWCodeWriter()
	if len(data) == 0 {
		writer.WriteCode(lzwEnd)
		return writer.Bytes()
	}

	dictionary := make(map[int]int)
	nextFree := 258
	current := int(data[0])

	for _, b := range data[1:] {
		key := current<<8 | int(b)
		if code, ok := dictionary[key]; ok {
			current = code
			continue
		}

		writer.WriteCode(current)
		if nextFree < lzwTableSize {
			dictionary[key] = nextFree
			nextFree++
		} else {
			writer.WriteCode(lzwReset)
			dictionary = make(map[int]int)
			nextFree = 258
		}
		current = int(b)
	}

	writer.WriteCode(current)
	writer.WriteCode(lzwEnd)
	return writer.Bytes()
}
