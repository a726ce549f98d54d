package pdb

import "encoding/binary"

// reader provides bounds-checked little-endian access to a fully-buffered
// file image. Out-of-range reads yield zero values or empty slices; the
// container format is redundant enough that clamping beats failing.
type reader struct {
	data []byte
}

func (r reader) size() int { return len(r.data) }

func (r reader) has(off, n int) bool {
	return off >= 0 && n >= 0 && off+n <= len(r.data)
}

func (r reader) u8(off int) uint8 {
	if !r.has(off, 1) {
		return 0
	}
	return r.data[off]
}

func (r reader) u16(off int) uint16 {
	if !r.has(off, 2) {
		return 0
	}
	return binary.LittleEndian.Uint16(r.data[off:])
}

func (r reader) u32(off int) uint32 {
	if !r.has(off, 4) {
		return 0
	}
	return binary.LittleEndian.Uint32(r.data[off:])
}

// at returns a read-only view of n bytes at off, or nil when out of range.
func (r reader) at(off, n int) []byte {
	if !r.has(off, n) {
		return nil
	}
	return r.data[off : off+n]
}

// DeviceSQL string tag bytes. Any other tag means a short ASCII string
// whose stored length (tag>>1) counts the tag byte itself.
const (
	stringTagLongASCII = 0x40
	stringTagLongUTF16 = 0x90
)

// deviceString decodes the container's variable-length string encoding
// starting at off. Truncated or malformed strings decode to "".
func (r reader) deviceString(off int) string {
	if off < 0 || off >= len(r.data) {
		return ""
	}
	data := r.data[off:]

	switch tag := data[0]; tag {
	case stringTagLongASCII:
		if len(data) < 4 {
			return ""
		}
		length := int(binary.LittleEndian.Uint16(data[1:]))
		if length < 4 || length-4 > len(data)-4 {
			return ""
		}
		return string(data[4 : 4+length-4])

	case stringTagLongUTF16:
		if len(data) < 4 {
			return ""
		}
		length := int(binary.LittleEndian.Uint16(data[1:]))
		if length < 4 {
			return ""
		}
		charCount := (length - 4) / 2
		out := make([]byte, 0, charCount)
		for i := 0; i < charCount && i*2+1 < len(data)-4; i++ {
			ch := binary.LittleEndian.Uint16(data[4+i*2:])
			if ch == 0 {
				break
			}
			out = appendUTF8(out, ch)
		}
		return string(out)

	default:
		length := int(tag >> 1)
		if length == 0 || length > len(data) {
			return ""
		}
		return string(data[1:length])
	}
}

// appendUTF8 encodes a single UTF-16 code unit as UTF-8. BMP only; the
// source format never carries surrogate pairs across units.
func appendUTF8(dst []byte, ch uint16) []byte {
	switch {
	case ch < 0x80:
		return append(dst, byte(ch))
	case ch < 0x800:
		return append(dst, 0xC0|byte(ch>>6), 0x80|byte(ch&0x3F))
	default:
		return append(dst, 0xE0|byte(ch>>12), 0x80|byte((ch>>6)&0x3F), 0x80|byte(ch&0x3F))
	}
}
