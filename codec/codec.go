package codec

import (
	"encoding/binary"
	"math"
)

// Unpack decodes one argument of type t from the front of data, returning
// the number of bytes consumed and the parsed value. It is total: a slice
// too short to hold the declared length/count, or an unsupported size for
// t.Kind, reports ok = false rather than panicking (spec.md 4.6, 7).
func Unpack(t ArgType, data []byte) (consumed int, val ArgVal, ok bool) {
	switch t.Kind {
	case KindInt:
		switch t.Size {
		case 1:
			if len(data) < 1 {
				return 0, ArgVal{}, false
			}
			return 1, ArgInt(int32(int8(data[0]))), true
		case 2:
			if len(data) < 2 {
				return 0, ArgVal{}, false
			}
			return 2, ArgInt(int32(int16(binary.LittleEndian.Uint16(data)))), true
		case 4:
			if len(data) < 4 {
				return 0, ArgVal{}, false
			}
			return 4, ArgInt(int32(binary.LittleEndian.Uint32(data))), true
		default:
			return 0, ArgVal{}, false
		}

	case KindUint:
		switch t.Size {
		case 1:
			if len(data) < 1 {
				return 0, ArgVal{}, false
			}
			return 1, ArgUint(uint32(data[0])), true
		case 2:
			if len(data) < 2 {
				return 0, ArgVal{}, false
			}
			return 2, ArgUint(uint32(binary.LittleEndian.Uint16(data))), true
		case 4:
			if len(data) < 4 {
				return 0, ArgVal{}, false
			}
			return 4, ArgUint(binary.LittleEndian.Uint32(data)), true
		default:
			return 0, ArgVal{}, false
		}

	case KindFloat:
		if t.Size != 4 || len(data) < 4 {
			return 0, ArgVal{}, false
		}
		return 4, ArgFloat(math.Float32frombits(binary.LittleEndian.Uint32(data))), true

	case KindBytes:
		sz := int(t.Size)
		var length int
		switch t.Size {
		case 2:
			if len(data) < 2 {
				return 0, ArgVal{}, false
			}
			length = int(binary.LittleEndian.Uint16(data))
		case 4:
			if len(data) < 4 {
				return 0, ArgVal{}, false
			}
			length = int(binary.LittleEndian.Uint32(data))
		default:
			return 0, ArgVal{}, false
		}
		total := sz + length
		if len(data) < total {
			return 0, ArgVal{}, false
		}
		payload := append([]byte(nil), data[sz:total]...)
		return total, ArgBytes(payload), true

	case KindMagic:
		switch t.Size {
		case 1:
			if len(data) < 1 {
				return 0, ArgVal{}, false
			}
			return 1, ArgMagic(uint32(data[0])), true
		case 2:
			if len(data) < 2 {
				return 0, ArgVal{}, false
			}
			return 2, ArgMagic(uint32(binary.LittleEndian.Uint16(data))), true
		default:
			return 0, ArgVal{}, false
		}

	case KindOffset:
		switch t.Size {
		case 2:
			if len(data) < 2 {
				return 0, ArgVal{}, false
			}
			return 2, ArgOffset(uint32(binary.LittleEndian.Uint16(data))), true
		case 4:
			if len(data) < 4 {
				return 0, ArgVal{}, false
			}
			return 4, ArgOffset(binary.LittleEndian.Uint32(data)), true
		default:
			return 0, ArgVal{}, false
		}

	case KindJmptbl:
		sz := int(t.Size)
		if sz != 2 && sz != 4 {
			return 0, ArgVal{}, false
		}
		if len(data) < 2 {
			return 0, ArgVal{}, false
		}
		count := int(binary.LittleEndian.Uint16(data))
		total := 2 + count*sz
		if len(data) < total {
			return 0, ArgVal{}, false
		}
		offsets := make([]uint32, count)
		for i := 0; i < count; i++ {
			off := 2 + i*sz
			switch sz {
			case 2:
				offsets[i] = uint32(binary.LittleEndian.Uint16(data[off:]))
			case 4:
				offsets[i] = binary.LittleEndian.Uint32(data[off:])
			}
		}
		return total, ArgJmptbl(offsets), true

	default:
		return 0, ArgVal{}, false
	}
}

// Pack encodes val back to its wire bytes under argument type t. It fails
// (ok = false) if val's kind doesn't match t's, or t carries an
// unsupported size for its kind.
func Pack(t ArgType, val ArgVal) (data []byte, ok bool) {
	if !val.CheckType(t) {
		return nil, false
	}

	switch t.Kind {
	case KindInt:
		switch t.Size {
		case 1:
			return []byte{byte(int8(val.IntVal))}, true
		case 2:
			b := make([]byte, 2)
			binary.LittleEndian.PutUint16(b, uint16(int16(val.IntVal)))
			return b, true
		case 4:
			b := make([]byte, 4)
			binary.LittleEndian.PutUint32(b, uint32(val.IntVal))
			return b, true
		default:
			return nil, false
		}

	case KindUint:
		switch t.Size {
		case 1:
			return []byte{byte(val.UintVal)}, true
		case 2:
			b := make([]byte, 2)
			binary.LittleEndian.PutUint16(b, uint16(val.UintVal))
			return b, true
		case 4:
			b := make([]byte, 4)
			binary.LittleEndian.PutUint32(b, val.UintVal)
			return b, true
		default:
			return nil, false
		}

	case KindFloat:
		if t.Size != 4 {
			return nil, false
		}
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(val.FloatVal))
		return b, true

	case KindBytes:
		sz := int(t.Size)
		if sz != 2 && sz != 4 {
			return nil, false
		}
		n := len(val.BytesVal)
		b := make([]byte, sz+n)
		switch sz {
		case 2:
			binary.LittleEndian.PutUint16(b, uint16(n))
		case 4:
			binary.LittleEndian.PutUint32(b, uint32(n))
		}
		copy(b[sz:], val.BytesVal)
		return b, true

	case KindMagic:
		switch t.Size {
		case 1:
			return []byte{byte(val.MagicVal)}, true
		case 2:
			b := make([]byte, 2)
			binary.LittleEndian.PutUint16(b, uint16(val.MagicVal))
			return b, true
		default:
			return nil, false
		}

	case KindOffset:
		switch t.Size {
		case 2:
			b := make([]byte, 2)
			binary.LittleEndian.PutUint16(b, uint16(val.OffsetVal))
			return b, true
		case 4:
			b := make([]byte, 4)
			binary.LittleEndian.PutUint32(b, val.OffsetVal)
			return b, true
		default:
			return nil, false
		}

	case KindJmptbl:
		sz := int(t.Size)
		if sz != 2 && sz != 4 {
			return nil, false
		}
		count := len(val.JmptblVal)
		b := make([]byte, 2+count*sz)
		binary.LittleEndian.PutUint16(b, uint16(count))
		for i, o := range val.JmptblVal {
			off := 2 + i*sz
			switch sz {
			case 2:
				binary.LittleEndian.PutUint16(b[off:], uint16(o))
			case 4:
				binary.LittleEndian.PutUint32(b[off:], o)
			}
		}
		return b, true

	default:
		return nil, false
	}
}
