package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	cli := cli.App{
		Name:  "modunpack",
		Usage: "Decode compressed chunks from tracker module files",
		Commands: []*cli.Command{
			{
				Name:      "decode",
				Usage:     "Decode a single chunk",
				Action:    decodeChunk,
				ArgsUsage: "INPUT_FILE  OUTPUT_FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Take the method and escape byte from a predefined format (see `formats`)",
					},
					&cli.StringFlag{
						Name:    "method",
						Aliases: []string{"m"},
						Usage:   "Compression method: lzw, huffman, sigma-delta, or nibble-delta",
					},
					&cli.IntFlag{
						Name:    "offset",
						Aliases: []string{"o"},
						Usage:   "Byte offset of the chunk in the input file",
					},
					&cli.IntFlag{
						Name:     "size",
						Aliases:  []string{"s"},
						Usage:    "Number of bytes (samples, for Huffman) to decode",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "length",
						Usage: "Packed length of the chunk. 0 means it runs to the end of the file",
					},
					&cli.StringFlag{
						Name:  "escape",
						Usage: "Escape byte for nibble-delta chunks, e.g. 0xfe",
					},
				},
			},
			{
				Name:      "unpack",
				Usage:     "Decode every chunk listed in a CSV manifest",
				Action:    unpackManifest,
				ArgsUsage: "INPUT_FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "manifest",
						Usage:    "CSV file listing the chunks to decode",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Usage:   "Directory to write decoded chunks to",
						Value:   ".",
						EnvVars: []string{"MODUNPACK_OUTPUT_DIR"},
					},
					&cli.BoolFlag{
						Name:  "gzip",
						Usage: "Compress each decoded chunk with gzip",
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Number of chunks to decode at once. 0 uses one per CPU",
						EnvVars: []string{"MODUNPACK_WORKERS"},
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Log each chunk as it's written",
					},
				},
			},
			{
				Name:   "formats",
				Usage:  "List the predefined chunk formats",
				Action: listFormats,
			},
		},
	}

	err := cli.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}
