package flat

import "math"

// Every scalar type the format knows about exposes a pair of pure
// functions here: Write<T> serializes a value little-endian into the head
// of a byte window, and Get<T> reads one back. The Builder calls the
// Write side when it appends a value to its buffer; the Verifier and any
// generated reader call the Get side.
//
// These never allocate and never touch anything but the first N bytes of
// the slice they're given — callers are responsible for ensuring the
// slice is long enough, exactly like the rest of this package.

func WriteBool(buf []byte, v bool) {
	if v {
		buf[0] = 1
	} else {
		buf[0] = 0
	}
}

func GetBool(buf []byte) bool { return buf[0] != 0 }

func WriteByte(buf []byte, v byte)   { buf[0] = v }
func GetByte(buf []byte) byte        { return buf[0] }
func WriteUint8(buf []byte, v uint8) { buf[0] = v }
func GetUint8(buf []byte) uint8      { return buf[0] }
func WriteInt8(buf []byte, v int8)   { buf[0] = byte(v) }
func GetInt8(buf []byte) int8        { return int8(buf[0]) }

func WriteUint16(buf []byte, v uint16) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
}

func GetUint16(buf []byte) uint16 {
	return uint16(buf[0]) | uint16(buf[1])<<8
}

func WriteInt16(buf []byte, v int16) { WriteUint16(buf, uint16(v)) }
func GetInt16(buf []byte) int16      { return int16(GetUint16(buf)) }

func WriteUint32(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

func GetUint32(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

func WriteInt32(buf []byte, v int32) { WriteUint32(buf, uint32(v)) }
func GetInt32(buf []byte) int32      { return int32(GetUint32(buf)) }

func WriteUint64(buf []byte, v uint64) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
	buf[4] = byte(v >> 32)
	buf[5] = byte(v >> 40)
	buf[6] = byte(v >> 48)
	buf[7] = byte(v >> 56)
}

func GetUint64(buf []byte) uint64 {
	return uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 | uint64(buf[3])<<24 |
		uint64(buf[4])<<32 | uint64(buf[5])<<40 | uint64(buf[6])<<48 | uint64(buf[7])<<56
}

func WriteInt64(buf []byte, v int64) { WriteUint64(buf, uint64(v)) }
func GetInt64(buf []byte) int64      { return int64(GetUint64(buf)) }

func WriteFloat32(buf []byte, v float32) { WriteUint32(buf, math.Float32bits(v)) }
func GetFloat32(buf []byte) float32      { return math.Float32frombits(GetUint32(buf)) }

func WriteFloat64(buf []byte, v float64) { WriteUint64(buf, math.Float64bits(v)) }
func GetFloat64(buf []byte) float64      { return math.Float64frombits(GetUint64(buf)) }

func WriteUOffsetT(buf []byte, v UOffsetT) { WriteUint32(buf, uint32(v)) }
func GetUOffsetT(buf []byte) UOffsetT      { return UOffsetT(GetUint32(buf)) }

func WriteSOffsetT(buf []byte, v SOffsetT) { WriteUint32(buf, uint32(v)) }
func GetSOffsetT(buf []byte) SOffsetT      { return SOffsetT(GetUint32(buf)) }

func WriteVOffsetT(buf []byte, v VOffsetT) { WriteUint16(buf, uint16(v)) }
func GetVOffsetT(buf []byte) VOffsetT      { return VOffsetT(GetUint16(buf)) }

// byteSliceToString turns a string vector's backing bytes into a Go
// string; the bytes are copied.
func byteSliceToString(b []byte) string {
	return string(b)
}
