package modunpack_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dargueta/modunpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeErrorWithMessage(t *testing.T) {
	newErr := modunpack.ErrInvalidTree.WithMessage("root has one child")
	assert.Equal(
		t, "Invalid Huffman tree: root has one child", newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, modunpack.ErrInvalidTree)
	assert.NotErrorIs(t, newErr, modunpack.ErrExhausted)
}

func TestDecodeErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := modunpack.ErrMalformedManifest.Wrap(originalErr)
	expectedMessage := "Malformed chunk manifest: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, modunpack.ErrMalformedManifest, "sentinel not set as parent")

	_, ok := modunpack.ErrorOffset(newErr)
	assert.False(t, ok, "offset shouldn't be set")
}

func TestDecodeErrorAtOffset(t *testing.T) {
	newErr := modunpack.ErrInvalidTree.WithMessage("root has one child").AtOffset(12)
	assert.Equal(t, "Invalid Huffman tree: root has one child (at offset 12)", newErr.Error())
	assert.ErrorIs(t, newErr, modunpack.ErrInvalidTree)

	offset, ok := modunpack.ErrorOffset(newErr)
	require.True(t, ok)
	assert.Equal(t, 12, offset)

	// Further messages keep the offset, and so does wrapping by other code.
	annotated := fmt.Errorf("chunk 3: %w", newErr.WithMessage("in sample bank"))
	offset, ok = modunpack.ErrorOffset(annotated)
	require.True(t, ok)
	assert.Equal(t, 12, offset)
	assert.ErrorIs(t, annotated, modunpack.ErrInvalidTree)

	// An offset inside an error gathered by Wrap is still found.
	outer := modunpack.ErrMalformedManifest.Wrap(modunpack.ErrExhausted.AtOffset(40))
	offset, ok = modunpack.ErrorOffset(outer)
	require.True(t, ok)
	assert.Equal(t, 40, offset)
	assert.ErrorIs(t, outer, modunpack.ErrExhausted)

	// The most recent offset wins.
	offset, _ = modunpack.ErrorOffset(newErr.AtOffset(15))
	assert.Equal(t, 15, offset)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", modunpack.OutcomeSuccess.String())
	assert.Equal(t, "partial", modunpack.OutcomePartial.String())
	assert.Equal(t, "invalid-tree", modunpack.OutcomeInvalidTree.String())
	assert.Equal(t, "unknown", modunpack.Outcome(99).String())
}

func TestNewResult(t *testing.T) {
	full := modunpack.NewResult([]byte{1, 2, 3}, 4, 3)
	assert.Equal(t, modunpack.OutcomeSuccess, full.Outcome)
	assert.Equal(t, 4, full.Consumed)

	short := modunpack.NewResult([]byte{1}, 1, 3)
	assert.Equal(t, modunpack.OutcomePartial, short.Outcome)
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		n, alignment, expected int
	}{
		{0, 4, 0},
		{1, 4, 4},
		{3, 4, 4},
		{4, 4, 4},
		{5, 4, 8},
		{7, 1, 7},
		{7, 0, 7},
	}

	for _, test := range tests {
		assert.Equalf(
			t,
			test.expected,
			modunpack.AlignUp(test.n, test.alignment),
			"AlignUp(%d, %d)",
			test.n,
			test.alignment,
		)
	}
}
