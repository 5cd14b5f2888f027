package compression

import (
	"fmt"
	"strings"

	"github.com/dargueta/modunpack"
	"github.com/noxer/bytewriter"
)

type Method int

const (
	MethodLZW Method = iota + 1
	MethodHuffman
	MethodSigmaDelta
	MethodNibbleDelta
)

var methodNames = map[Method]string{
	MethodLZW:         "lzw",
	MethodHuffman:     "huffman",
	MethodSigmaDelta:  "sigma-delta",
	MethodNibbleDelta: "nibble-delta",
}

func (m Method) String() string {
	name, ok := methodNames[m]
	if !ok {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return name
}

// ParseMethod converts a method name as returned by [Method.String] back into a
// [Method]. Matching is case-insensitive.
func ParseMethod(name string) (Method, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for method, methodName := range methodNames {
		if methodName == normalized {
			return method, nil
		}
	}
	return 0, modunpack.ErrUnknownMethod.WithMessage(fmt.Sprintf("%q", name))
}

// Aligned returns true if chunks packed with this method are padded to a 4-byte
// boundary, so that the Consumed count of a decode tells the caller where the
// next chunk starts. For the other methods, callers must skip ahead by the
// chunk length declared by the container.
func (m Method) Aligned() bool {
	return m == MethodLZW || m == MethodSigmaDelta
}

// MarshalCSV implements gocsv's TypeMarshaller.
func (m Method) MarshalCSV() (string, error) {
	if _, ok := methodNames[m]; !ok {
		return "", modunpack.ErrUnknownMethod.WithMessage(fmt.Sprintf("%d", int(m)))
	}
	return m.String(), nil
}

// UnmarshalCSV implements gocsv's TypeUnmarshaller.
func (m *Method) UnmarshalCSV(value string) error {
	parsed, err := ParseMethod(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// Registry

type DecompressionFn = func(input []byte, offset int, params modunpack.Params) (modunpack.Result, error)

type DecompressorLUT map[Method]DecompressionFn

var Decompressors = DecompressorLUT{
	MethodLZW: func(input []byte, offset int, params modunpack.Params) (modunpack.Result, error) {
		return DecompressLZW(input, offset, params.OutputSize)
	},
	MethodHuffman: func(input []byte, offset int, params modunpack.Params) (modunpack.Result, error) {
		return DecompressHuffman(input, offset, params.OutputSize)
	},
	MethodSigmaDelta: func(input []byte, offset int, params modunpack.Params) (modunpack.Result, error) {
		return DecompressSigmaDelta(input, offset, params.OutputSize)
	},
	MethodNibbleDelta: decompressNibbleDelta,
}

// decompressNibbleDelta adapts [UnpackNibbleDelta] to the registry. Consumed is
// the number of packed bytes actually read, which is informational only; this
// format isn't aligned.
func decompressNibbleDelta(input []byte, offset int, params modunpack.Params) (modunpack.Result, error) {
	if err := checkDecodeArgs(input, offset, params.OutputSize); err != nil {
		return modunpack.Result{}, err
	}
	output, consumed := unpackNibbleDelta(input[offset:], params.OutputSize, params.EscapeByte)
	return modunpack.NewResult(output, consumed, params.OutputSize), nil
}

// Decompress decodes a chunk that starts at input[offset] using `method`.
func Decompress(
	method Method, input []byte, offset int, params modunpack.Params,
) (modunpack.Result, error) {
	decompress, ok := Decompressors[method]
	if !ok {
		return modunpack.Result{}, modunpack.ErrUnknownMethod.WithMessage(method.String())
	}
	return decompress(input, offset, params)
}

// DecompressInto decodes up to len(dst) bytes into `dst`, ignoring
// params.OutputSize. The returned int is the number of bytes written. If the
// chunk is short, the remainder of `dst` is left untouched.
func DecompressInto(
	dst []byte, method Method, input []byte, offset int, params modunpack.Params,
) (int, modunpack.Result, error) {
	params.OutputSize = len(dst)
	result, err := Decompress(method, input, offset, params)
	if err != nil {
		return 0, result, err
	}

	writer := bytewriter.New(dst)
	n, err := writer.Write(result.Data)
	if err != nil {
		return n, result, fmt.Errorf("failed to write to output: %w", err)
	}
	return n, result, nil
}
