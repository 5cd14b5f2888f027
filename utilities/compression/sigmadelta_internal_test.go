package compression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigmaDeltaState__WidthBounds(t *testing.T) {
	state := newSigmaDeltaState(0)
	assert.Equal(t, 1, state.maxRunLength, "run length wasn't clamped")
	assert.EqualValues(t, 8, state.bitWidth)

	for i := 0; i < 5; i++ {
		state.widen()
	}
	assert.EqualValues(t, sigmaDeltaMaxWidth, state.bitWidth)

	// Small values never have their top bit set above width 1, so every update
	// narrows the width until it bottoms out.
	for i := 0; i < 20; i++ {
		state.update(1)
		assert.GreaterOrEqual(t, state.bitWidth, uint(sigmaDeltaMinWidth))
		assert.LessOrEqual(t, state.bitWidth, uint(sigmaDeltaMaxWidth))
	}
	assert.EqualValues(t, sigmaDeltaMinWidth, state.bitWidth)
}

func TestSigmaDeltaState__RunCounter(t *testing.T) {
	state := newSigmaDeltaState(3)

	state.update(0x02)
	state.update(0x02)
	assert.EqualValues(t, 8, state.bitWidth, "width shrank too early")
	assert.Equal(t, 1, state.runCounter)

	// Top bit set: width held, counter restarted.
	state.update(0x80)
	assert.EqualValues(t, 8, state.bitWidth)
	assert.Equal(t, 3, state.runCounter)

	state.update(0x02)
	state.update(0x02)
	state.update(0x02)
	assert.EqualValues(t, 7, state.bitWidth)
	assert.Equal(t, 3, state.runCounter)

	state.widen()
	assert.EqualValues(t, 8, state.bitWidth)
	assert.Equal(t, 3, state.runCounter)
}
