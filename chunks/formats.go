package chunks

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/dargueta/modunpack"
	"github.com/dargueta/modunpack/utilities/compression"
	"github.com/gocarina/gocsv"
)

// Format describes one kind of compressed chunk found in module files, and the
// defaults a container reader needs to decode it.
type Format struct {
	Name   string             `csv:"name"`
	Slug   string             `csv:"slug"`
	Method compression.Method `csv:"method"`

	// Alignment gives the boundary the chunk is padded to. A decoder's Consumed
	// count already includes this padding; it's here for container readers that
	// need to skip a chunk without decoding it.
	Alignment int `csv:"alignment"`

	// EscapeByte is the default escape byte for nibble-delta chunks. Formats that
	// store their own escape byte override it.
	EscapeByte HexByte `csv:"escape_byte"`
	Notes      string  `csv:"notes"`
}

// Params returns decoder parameters for a chunk of this format.
func (f *Format) Params(outputSize int) modunpack.Params {
	return modunpack.Params{OutputSize: outputSize, EscapeByte: byte(f.EscapeByte)}
}

////////////////////////////////////////////////////////////////////////////////

//go:embed formats.csv
var formatsRawCSV string
var formats map[string]Format

// GetFormat returns the predefined format with the given slug.
func GetFormat(slug string) (Format, error) {
	format, ok := formats[slug]
	if ok {
		return format, nil
	}

	return Format{}, modunpack.ErrUnknownFormat.WithMessage(
		fmt.Sprintf("no predefined chunk format exists with slug %q", slug))
}

// Formats returns all predefined formats, sorted by slug.
func Formats() []Format {
	all := make([]Format, 0, len(formats))
	for _, format := range formats {
		all = append(all, format)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Slug < all[j].Slug })
	return all
}

func init() {
	csvReader := csv.NewReader(strings.NewReader(formatsRawCSV))
	csvReader.Comma = '|'

	var rows []Format
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		panic(fmt.Errorf("failed to decode chunk format table: %w", err))
	}

	formats = make(map[string]Format)
	for i, row := range rows {
		_, exists := formats[row.Slug]
		if exists {
			message := fmt.Errorf(
				"duplicate definition for format %q found on row %d", row.Slug, i+1)
			panic(message)
		}
		formats[row.Slug] = row
	}
}
