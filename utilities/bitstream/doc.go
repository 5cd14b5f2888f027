// Package bitstream reads bit fields out of byte slices taken from untrusted
// module files.
//
// Tracker formats don't agree on bit order, so there are two cursors:
//
//   - [Cursor] packs codes least-significant-bit first. Each byte pulled from the
//     input is ORed into an accumulator above the bits already held, and reads
//     take the low bits of the accumulator. LZW and sigma-delta chunks use this.
//   - [MSBCursor] hands out one bit at a time starting from the top bit of each
//     byte. Multi-bit reads are sequential single-bit reads, high bit first.
//     Huffman chunks use this.
//
// Neither cursor ever reads outside its slice. Running off the end returns
// [modunpack.ErrExhausted], which decoders treat as "stop here and return what
// you have".
package bitstream
