package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJmptblRoundTrip(t *testing.T) {
	// spec.md 8 scenario 4: 3 offsets, sz=4 -> 2-byte count + 3*4 bytes = 14.
	offsets := []uint32{10, 20, 4294967290}
	val := ArgJmptbl(offsets)

	data, ok := Pack(J32, val)
	require.True(t, ok)
	assert.Len(t, data, 14)

	consumed, got, ok := Unpack(J32, data)
	require.True(t, ok)
	assert.Equal(t, 14, consumed)
	assert.Equal(t, offsets, got.JmptblVal)
}

func TestBytesRejectsTruncatedPayload(t *testing.T) {
	// spec.md 8 scenario 5: declared length 4 but only 1 payload byte present.
	data := []byte{0x04, 0x00, 0xAB}
	_, _, ok := Unpack(B16, data)
	assert.False(t, ok)
}

func TestBytesRoundTrip(t *testing.T) {
	for _, t32 := range []ArgType{B16, B32} {
		val := ArgBytes([]byte{1, 2, 3, 4, 5})
		data, ok := Pack(t32, val)
		require.True(t, ok)

		consumed, got, ok := Unpack(t32, data)
		require.True(t, ok)
		assert.Equal(t, len(data), consumed)
		assert.Equal(t, val.BytesVal, got.BytesVal)
	}
}

func TestIntRoundTripAllSizes(t *testing.T) {
	cases := []struct {
		typ ArgType
		val int32
	}{
		{I8, -12}, {I8, 100},
		{I16, -1000}, {I16, 30000},
		{I32, -100000}, {I32, 100000},
	}
	for _, c := range cases {
		data, ok := Pack(c.typ, ArgInt(c.val))
		require.True(t, ok)
		consumed, got, ok := Unpack(c.typ, data)
		require.True(t, ok)
		assert.Equal(t, len(data), consumed)
		assert.Equal(t, c.val, got.IntVal)
	}
}

func TestUintRoundTripAllSizes(t *testing.T) {
	cases := []struct {
		typ ArgType
		val uint32
	}{
		{U8, 200}, {U16, 60000}, {U32, 4000000000},
	}
	for _, c := range cases {
		data, ok := Pack(c.typ, ArgUint(c.val))
		require.True(t, ok)
		consumed, got, ok := Unpack(c.typ, data)
		require.True(t, ok)
		assert.Equal(t, len(data), consumed)
		assert.Equal(t, c.val, got.UintVal)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	data, ok := Pack(F32, ArgFloat(3.25))
	require.True(t, ok)
	assert.Len(t, data, 4)

	consumed, got, ok := Unpack(F32, data)
	require.True(t, ok)
	assert.Equal(t, 4, consumed)
	assert.Equal(t, float32(3.25), got.FloatVal)
}

func TestMagicRoundTrip(t *testing.T) {
	for _, typ := range []ArgType{{KindMagic, 1}, M16} {
		data, ok := Pack(typ, ArgMagic(7))
		require.True(t, ok)
		consumed, got, ok := Unpack(typ, data)
		require.True(t, ok)
		assert.Equal(t, len(data), consumed)
		assert.Equal(t, uint32(7), got.MagicVal)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	data16, ok := Pack(ArgType{KindOffset, 2}, ArgOffset(0xABCD))
	require.True(t, ok)
	_, got16, ok := Unpack(ArgType{KindOffset, 2}, data16)
	require.True(t, ok)
	assert.Equal(t, uint32(0xABCD), got16.OffsetVal)

	data32, ok := Pack(O32, ArgOffset(0xDEADBEEF))
	require.True(t, ok)
	_, got32, ok := Unpack(O32, data32)
	require.True(t, ok)
	assert.Equal(t, uint32(0xDEADBEEF), got32.OffsetVal)
}

func TestPackRejectsKindMismatch(t *testing.T) {
	_, ok := Pack(I32, ArgUint(5))
	assert.False(t, ok)
}

func TestPackRejectsUnsupportedSize(t *testing.T) {
	_, ok := Pack(ArgType{KindInt, 8}, ArgInt(5))
	assert.False(t, ok)
}

func TestUnpackRejectsTruncatedFixedWidth(t *testing.T) {
	_, _, ok := Unpack(I32, []byte{1, 2})
	assert.False(t, ok)
}

func TestJmptblRejectsTruncatedOffsets(t *testing.T) {
	// count says 2 offsets but only 1 is present.
	data := []byte{0x02, 0x00, 0x0A, 0x00, 0x00, 0x00}
	_, _, ok := Unpack(J32, data)
	assert.False(t, ok)
}

func TestOpcodeTableLookup(t *testing.T) {
	op, ok := OpByName("HALT")
	require.True(t, ok)
	assert.Equal(t, "HALT", op.String())

	_, ok = OpByName("NOT_A_REAL_OPCODE")
	assert.False(t, ok)
}

func TestMagicTableLookup(t *testing.T) {
	name, ok := MagicName(0)
	require.True(t, ok)
	assert.Equal(t, "NOP", name)

	idx, ok := MagicIndex("HALT")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = MagicName(-1)
	assert.False(t, ok)
	_, ok = MagicName(len(Magic))
	assert.False(t, ok)
}
