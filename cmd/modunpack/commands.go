package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dargueta/modunpack"
	"github.com/dargueta/modunpack/chunks"
	"github.com/dargueta/modunpack/utilities/compression"
	"github.com/urfave/cli/v2"
)

func decodeChunk(context *cli.Context) error {
	if context.Args().Len() != 2 {
		return cli.Exit("expected an input file and an output file", 1)
	}
	inputPath := context.Args().Get(0)
	outputPath := context.Args().Get(1)

	chunk := chunks.Chunk{
		Name:             filepath.Base(inputPath),
		Offset:           context.Int("offset"),
		CompressedLength: context.Int("length"),
		DecompressedSize: context.Int("size"),
	}

	if slug := context.String("format"); slug != "" {
		format, err := chunks.GetFormat(slug)
		if err != nil {
			return err
		}
		chunk.Method = format.Method
		chunk.EscapeByte = format.EscapeByte
	}

	if name := context.String("method"); name != "" {
		method, err := compression.ParseMethod(name)
		if err != nil {
			return err
		}
		chunk.Method = method
	} else if chunk.Method == 0 {
		return cli.Exit("either --method or --format is required", 1)
	}

	if escape := context.String("escape"); escape != "" {
		value, err := strconv.ParseUint(escape, 0, 8)
		if err != nil {
			return fmt.Errorf("invalid escape byte %q: %w", escape, err)
		}
		chunk.EscapeByte = chunks.HexByte(value)
	}

	image, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	result, err := chunks.DecodeChunk(image, chunk)
	if err != nil {
		return err
	}

	err = os.WriteFile(outputPath, result.Data, 0o644)
	if err != nil {
		return err
	}

	fmt.Printf(
		"%s: decoded %d of %d bytes (%s), consumed %d input bytes\n",
		chunk.Method,
		len(result.Data),
		chunk.DecompressedSize,
		result.Outcome,
		result.Consumed,
	)
	return nil
}

func unpackManifest(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return cli.Exit("expected exactly one input file", 1)
	}
	verbose := context.Bool("verbose")

	image, err := os.ReadFile(context.Args().First())
	if err != nil {
		return err
	}

	manifestFile, err := os.Open(context.String("manifest"))
	if err != nil {
		return err
	}
	defer manifestFile.Close()

	manifest, err := chunks.ReadManifest(manifestFile)
	if err != nil {
		return err
	}
	err = chunks.ValidateChunks(len(image), manifest)
	if err != nil {
		return err
	}

	outputDir := context.String("output-dir")
	err = os.MkdirAll(outputDir, 0o755)
	if err != nil {
		return err
	}

	results, decodeErr := chunks.UnpackAll(image, manifest, context.Int("workers"))

	partial := 0
	for i, result := range results {
		if result.Outcome == modunpack.OutcomeInvalidTree {
			continue
		}
		if result.Outcome == modunpack.OutcomePartial {
			partial++
		}

		outputPath, err := writeChunk(
			outputDir, manifest[i].Name, result.Data, context.Bool("gzip"))
		if err != nil {
			return err
		}
		if verbose {
			log.Printf(
				"%s: %d bytes (%s) -> %s", manifest[i].Name, len(result.Data), result.Outcome, outputPath)
		}
	}

	fmt.Printf("Unpacked %d chunks, %d partial.\n", len(results), partial)

	// Chunks that failed outright are reported last so the good ones still get
	// written.
	return decodeErr
}

func writeChunk(outputDir, name string, data []byte, gzipped bool) (string, error) {
	fileName := sanitizeFileName(name) + ".bin"
	if gzipped {
		fileName += ".gz"
	}
	outputPath := filepath.Join(outputDir, fileName)

	outFile, err := os.Create(outputPath)
	if err != nil {
		return outputPath, err
	}
	defer outFile.Close()

	if gzipped {
		_, err = compression.WriteGzipped(data, outFile)
	} else {
		_, err = outFile.Write(data)
	}
	if err != nil {
		return outputPath, fmt.Errorf("failed to write %q: %w", outputPath, err)
	}
	return outputPath, outFile.Close()
}

// sanitizeFileName replaces path separators in chunk names so a manifest can't
// write outside the output directory.
func sanitizeFileName(name string) string {
	name = strings.Map(
		func(r rune) rune {
			if r == '/' || r == '\\' || r == os.PathSeparator {
				return '_'
			}
			return r
		},
		name,
	)
	if name == "" || name == "." || name == ".." {
		return "chunk"
	}
	return name
}

func listFormats(context *cli.Context) error {
	for _, format := range chunks.Formats() {
		fmt.Printf(
			"%-18s %-13s align=%d escape=0x%02x  %s\n",
			format.Slug,
			format.Method,
			format.Alignment,
			byte(format.EscapeByte),
			format.Name,
		)
	}
	return nil
}
