package chunks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dargueta/modunpack"
)

// HexByte is a byte that is written to CSV files in hexadecimal. When reading,
// any base strconv.ParseUint recognizes is accepted, and an empty cell is 0.
type HexByte byte

// MarshalCSV implements gocsv's TypeMarshaller.
func (b HexByte) MarshalCSV() (string, error) {
	return fmt.Sprintf("0x%02x", byte(b)), nil
}

// UnmarshalCSV implements gocsv's TypeUnmarshaller.
func (b *HexByte) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*b = 0
		return nil
	}

	parsed, err := strconv.ParseUint(value, 0, 8)
	if err != nil {
		return modunpack.ErrMalformedManifest.Wrap(err)
	}
	*b = HexByte(parsed)
	return nil
}
