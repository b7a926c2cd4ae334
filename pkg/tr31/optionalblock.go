package tr31

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// OptionalBlock is a tagged, ASCII-encoded side-band attribute carried in the header region,
// e.g. "KS" (DUKPT KSN) or "TS" (ISO-8601 timestamp). Order among optional blocks is
// significant and preserved as read, per the data model.
type OptionalBlock struct {
	ID   string
	Data []byte
}

// minOptionalBlockLen is ID(2) + length(2); the short form's smallest legal encoding.
const minOptionalBlockLen = 4

// maxShortPayload is the largest payload length (in ASCII-hex-encoded character count) the 2-hex
// short form can carry: 0xFF = 255, but that length includes the 4-byte ID+length prefix, so
// the largest raw payload is 255-4 = 251 bytes. At 251 or fewer bytes of payload the short
// form is always used; at 252 or more the extended form is required, per §4.4.
const maxShortPayload = 0xFF - minOptionalBlockLen

// Marshal renders the optional block in its wire TLV form: ID(2) + length(2, hex) + payload,
// or, when the payload is too long for the 2-hex short form, the extended form
// ID(2) + "00" + lenlen(2) + len(lenlen, hex) + payload.
func (o OptionalBlock) Marshal() ([]byte, error) {
	if len(o.ID) != 2 {
		return nil, newErr(ErrInvalidOptionalBlock, "optional block id must be 2 characters, got %q", o.ID)
	}

	total := minOptionalBlockLen + len(o.Data)
	var buf strings.Builder
	buf.WriteString(o.ID)

	if total <= 0xFF {
		fmt.Fprintf(&buf, "%02X", total)
	} else {
		// extended form: length field is "00", followed by lenlen(2) + len(lenlen, hex). The
		// length value counts the whole block: ID, "00", lenlen, the length digits and payload.
		var lenHex string
		for digits := 2; ; digits += 2 {
			lenHex = fmt.Sprintf("%0*X", digits, 6+digits+len(o.Data))
			if len(lenHex) == digits {
				break
			}
		}
		buf.WriteString("00")
		fmt.Fprintf(&buf, "%02X", len(lenHex))
		buf.WriteString(lenHex)
	}
	buf.Write(o.Data)

	return []byte(buf.String()), nil
}

// parseOptionalBlock parses one optional block starting at data[0] and returns it along with
// the number of bytes consumed.
func parseOptionalBlock(data []byte) (OptionalBlock, int, error) {
	if len(data) < minOptionalBlockLen {
		return OptionalBlock{}, 0, newErr(ErrInvalidOptionalBlock, "truncated optional block")
	}

	id := string(data[0:2])
	lenField := string(data[2:4])

	if lenField == "00" {
		// extended form: next 2 chars are lenlen (hex digit count), then lenlen hex digits.
		if len(data) < 6 {
			return OptionalBlock{}, 0, newErr(ErrInvalidOptionalBlock, "truncated extended-length optional block")
		}
		lenLenRaw, err := hex.DecodeString(string(data[4:6]))
		if err != nil || len(lenLenRaw) != 1 {
			return OptionalBlock{}, 0, wrapErr(ErrInvalidOptionalBlock, err, "invalid extended length-length in block %q", id)
		}
		lenLen := int(lenLenRaw[0])
		if len(data) < 6+lenLen {
			return OptionalBlock{}, 0, newErr(ErrInvalidOptionalBlock, "truncated extended length digits in block %q", id)
		}
		totalHex := string(data[6 : 6+lenLen])
		if len(totalHex)%2 != 0 {
			totalHex = "0" + totalHex
		}
		totalRaw, err := hex.DecodeString(totalHex)
		if err != nil {
			return OptionalBlock{}, 0, wrapErr(ErrInvalidOptionalBlock, err, "non-hex extended length in block %q", id)
		}
		total := 0
		for _, b := range totalRaw {
			total = total<<8 | int(b)
		}
		prefixLen := 6 + lenLen
		if total < prefixLen || len(data) < total {
			return OptionalBlock{}, 0, newErr(ErrInvalidOptionalBlock, "declared length %d inconsistent for block %q", total, id)
		}

		return OptionalBlock{ID: id, Data: append([]byte(nil), data[prefixLen:total]...)}, total, nil
	}

	totalRaw, err := hex.DecodeString(lenField)
	if err != nil || len(totalRaw) != 1 {
		return OptionalBlock{}, 0, wrapErr(ErrInvalidOptionalBlock, err, "non-hex length in block %q", id)
	}
	total := int(totalRaw[0])
	if total < minOptionalBlockLen || len(data) < total {
		return OptionalBlock{}, 0, newErr(ErrInvalidOptionalBlock, "declared length %d inconsistent for block %q", total, id)
	}

	return OptionalBlock{ID: id, Data: append([]byte(nil), data[minOptionalBlockLen:total]...)}, total, nil
}

// marshalOptionalBlocks renders a sequence of optional blocks and appends a trailing "PB"
// padding block (filled with ASCII '0') so the combined length is a multiple of blockSize,
// per invariant 6. No padding block is added if the region is already aligned.
func marshalOptionalBlocks(blocks []OptionalBlock, blockSize int) ([]byte, int, error) {
	var buf strings.Builder
	for _, ob := range blocks {
		raw, err := ob.Marshal()
		if err != nil {
			return nil, 0, err
		}
		buf.Write(raw)
	}

	count := len(blocks)
	total := buf.Len()
	if total%blockSize != 0 {
		padNeeded := blockSize - (total % blockSize)
		// a PB block's overhead is itself 4 bytes; if padding is smaller than that minimum,
		// round up to another full block so the PB block can actually be encoded.
		for padNeeded < minOptionalBlockLen {
			padNeeded += blockSize
		}
		pb := OptionalBlock{ID: "PB", Data: []byte(strings.Repeat("0", padNeeded-minOptionalBlockLen))}
		raw, err := pb.Marshal()
		if err != nil {
			return nil, 0, err
		}
		buf.Write(raw)
		count++
	}

	return []byte(buf.String()), count, nil
}

// parseOptionalBlocks parses count optional blocks from the start of data, returning them and
// the number of bytes consumed.
func parseOptionalBlocks(data []byte, count int) ([]OptionalBlock, int, error) {
	blocks := make([]OptionalBlock, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		if offset >= len(data) {
			return nil, 0, newErr(ErrInvalidOptionalBlock, "truncated optional block region: expected %d blocks, found %d", count, i)
		}
		ob, n, err := parseOptionalBlock(data[offset:])
		if err != nil {
			return nil, 0, err
		}
		blocks = append(blocks, ob)
		offset += n
	}

	return blocks, offset, nil
}
