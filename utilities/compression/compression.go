package compression

import (
	"bytes"
	"compress/gzip"
	"io"
)

// WriteGzipped compresses decoded chunk data with gzip and writes it to
// `output`.
//
// The returned int64 gives the number of uncompressed bytes written. If an
// error occurred, the value is undefined and should not be used.
func WriteGzipped(data []byte, output io.Writer) (int64, error) {
	// Decoded pattern data is mostly empty cells, so the best compression level
	// costs us very little time.
	gzWriter, err := gzip.NewWriterLevel(output, gzip.BestCompression)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(gzWriter, bytes.NewReader(data))
	if err != nil {
		gzWriter.Close()
		return n, err
	}
	return n, gzWriter.Close()
}

// ReadGzipped reverses [WriteGzipped].
func ReadGzipped(input io.Reader) ([]byte, error) {
	gzReader, err := gzip.NewReader(input)
	if err != nil {
		return nil, err
	}
	defer gzReader.Close()

	// Output files may be padded after the gzip member.
	gzReader.Multistream(false)
	return io.ReadAll(gzReader)
}
