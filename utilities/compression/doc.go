// Package compression decodes the compressed chunks found inside tracker module
// files.
//
// Several module formats don't store their pattern or sample data as raw
// bytes. Instead each chunk is packed with a small, format-specific scheme that
// the format's original player decoded by hand. There is no reference encoder
// for any of them, so the decoders here reproduce the original players' quirks
// bit for bit rather than following any published algorithm:
//
//   - LZW ([DecompressLZW]): variable-width codes from 9 to 13 bits, LSB-first,
//     with a reset code (256) and an end code (257). The chunk is padded to a
//     multiple of 4 bytes.
//   - Huffman ([DecompressHuffman]): a pre-order tree description followed by
//     sign + path pairs that decode to 8-bit deltas. MSB-first.
//   - Sigma-delta ([DecompressSigmaDelta]): deltas whose bit width adapts to the
//     signal, LSB-first, padded to a multiple of 4 bytes.
//   - Nibble-delta ([UnpackNibbleDelta]): literal bytes interleaved with
//     escape-introduced runs of 4-bit deltas.
//
// Every decoder takes the whole input slice and an offset rather than a
// sub-slice, returns the bytes it produced along with how far the caller
// should advance, and treats running out of input as a short result rather
// than an error. None of them read outside the input or loop without making
// progress, no matter what the input is.
//
// The decoders can also be looked up by [Method] through [Decompressors], which
// is how the chunks package and the command line tool drive them.

package compression
