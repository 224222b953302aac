package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortHeaderRoundTrip(t *testing.T) {
	hd := newShortHeader(4, 42)
	assert.False(t, hd.isLong())
	assert.True(t, hd.isWhite())
	assert.Equal(t, uint64(4), hd.shortWords())
	assert.Equal(t, uint16(42), hd.tag())
	assert.Equal(t, uint64(4), hd.words())
}

func TestLongHeaderRoundTrip(t *testing.T) {
	hd := newLongHeader(160)
	assert.True(t, hd.isLong())
	assert.True(t, hd.isWhite())
	assert.Equal(t, uint64(160), hd.longBytes())
	assert.Equal(t, uint64(20), hd.longWords())
	assert.Equal(t, uint64(20), hd.words())
}

func TestHeaderMarkedUnmarked(t *testing.T) {
	hd := newShortHeader(2, 7)
	black := hd.marked(colorBlack)
	assert.True(t, black.isBlack())
	assert.False(t, black.isWhite())
	// color bits are independent of size/tag payload.
	assert.Equal(t, uint64(2), black.shortWords())
	assert.Equal(t, uint16(7), black.tag())

	white := black.unmarked()
	assert.True(t, white.isWhite())

	gray := hd.marked(colorGray)
	assert.True(t, gray.isGray())
}

func TestHeaderReservedColorDetected(t *testing.T) {
	hd := newShortHeader(2, 7).marked(colorReserved)
	assert.True(t, hd.isReserved())
	assert.False(t, hd.isWhite())
	assert.False(t, hd.isGray())
	assert.False(t, hd.isBlack())
}
