package itch

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel errors for the two fatal decode conditions (§7). Wrap them
// with fmt.Errorf("...: %w", ...) to retain the offending byte offset;
// callers should use errors.Is against these, or errors.As against
// *DecodeError for the offset.
var (
	ErrTruncatedStream = errors.New("itch: truncated stream")
	ErrMalformedRecord = errors.New("itch: malformed record")
)

// DecodeError reports a fatal decode failure together with the byte
// offset of the record that caused it, per §7's propagation rule.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("itch: offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder turns a byte stream of ITCH 5.0 records into a sequence of
// Events. It is allocation-light and holds no state beyond the current
// record and the stream offset.
type Decoder struct {
	r              *bufio.Reader
	offset         int64
	lengthPrefixed bool
	buf            []byte // reused scratch buffer for the current payload
}

// NewDecoder wraps r. When lengthPrefixed is true, the decoder expects
// each record to carry a leading 2-byte big-endian length (some live
// feeds prepend this) and validates it equals 1+payload (§6); the
// default transport has no such prefix.
func NewDecoder(r io.Reader, lengthPrefixed bool) *Decoder {
	return &Decoder{
		r:              bufio.NewReaderSize(r, 64*1024),
		lengthPrefixed: lengthPrefixed,
	}
}

// Offset returns the number of bytes consumed from the stream so far,
// for progress reporting.
func (d *Decoder) Offset() int64 { return d.offset }

// Next decodes and returns the next event. It returns io.EOF, and only
// io.EOF, when the stream ends cleanly between records. Any other
// error is a *DecodeError wrapping ErrTruncatedStream or
// ErrMalformedRecord.
func (d *Decoder) Next() (Event, error) {
	startOffset := d.offset

	if d.lengthPrefixed {
		var lenBuf [2]byte
		if err := d.readFull(lenBuf[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, d.fail(startOffset, ErrTruncatedStream)
		}
		frameLen := binary.BigEndian.Uint16(lenBuf[:])
		return d.decodeRecord(startOffset, int(frameLen))
	}

	tagByte, err := d.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, d.fail(startOffset, ErrTruncatedStream)
	}
	d.offset++
	return d.decodeBody(startOffset, Tag(tagByte))
}

// decodeRecord handles the length-prefixed transport: it reads the tag
// byte itself, validates the declared frame length against the table,
// then decodes the body.
func (d *Decoder) decodeRecord(startOffset int64, frameLen int) (Event, error) {
	tagByte, err := d.r.ReadByte()
	if err != nil {
		return nil, d.fail(startOffset, ErrTruncatedStream)
	}
	d.offset++
	tag := Tag(tagByte)

	n, known := payloadLen[tag]
	if !known {
		return nil, d.fail(startOffset, fmt.Errorf("%w: unknown tag %q", ErrMalformedRecord, tag))
	}
	if frameLen != 1+n {
		return nil, d.fail(startOffset, fmt.Errorf("%w: declared frame length %d does not match tag %q payload %d", ErrMalformedRecord, frameLen, tag, n))
	}
	return d.readPayload(startOffset, tag, n)
}

func (d *Decoder) decodeBody(startOffset int64, tag Tag) (Event, error) {
	n, known := payloadLen[tag]
	if !known {
		return nil, d.fail(startOffset, fmt.Errorf("%w: unknown tag %q", ErrMalformedRecord, tag))
	}
	return d.readPayload(startOffset, tag, n)
}

func (d *Decoder) readPayload(startOffset int64, tag Tag, n int) (Event, error) {
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
	}
	payload := d.buf[:n]
	if err := d.readFull(payload); err != nil {
		return nil, d.fail(startOffset, ErrTruncatedStream)
	}

	if ignoredTags[tag] {
		return Ignored{base: base{startOffset}, MsgTag: tag}, nil
	}

	ev, err := parsePayload(startOffset, tag, payload)
	if err != nil {
		return nil, d.fail(startOffset, err)
	}
	return ev, nil
}

func (d *Decoder) readFull(buf []byte) error {
	n, err := io.ReadFull(d.r, buf)
	d.offset += int64(n)
	return err
}

func (d *Decoder) fail(offset int64, err error) error {
	return &DecodeError{Offset: offset, Err: err}
}

// --- field parsing helpers --------------------------------------------------

func u16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func u32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func u64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }

// u48 reads a 6-byte big-endian timestamp into a uint64, per §4.1.
func u48(b []byte) uint64 {
	return uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 |
		uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])
}

func trimSymbol(b []byte) string {
	return strings.TrimRight(string(b), " ")
}

// parsePayload dispatches on tag to build the typed event for
// everything that is not decoded-by-skipping.
func parsePayload(offset int64, tag Tag, p []byte) (Event, error) {
	b := base{offset}
	switch tag {
	case TagStockDirectory:
		return StockDirectory{
			base:     b,
			Locate:   u16(p[0:2]),
			Tracking: u16(p[2:4]),
			TS:       u48(p[4:10]),
			Symbol:   trimSymbol(p[10:18]),
		}, nil

	case TagAddOrder:
		return AddOrder{
			base:     b,
			Locate:   u16(p[0:2]),
			Tracking: u16(p[2:4]),
			TS:       u48(p[4:10]),
			Ref:      u64(p[10:18]),
			Side:     Side(p[18]),
			Shares:   u32(p[19:23]),
			Symbol:   trimSymbol(p[23:31]),
			Price:    u32(p[31:35]),
		}, nil

	case TagAddOrderMPID:
		return AddOrder{
			base:     b,
			Locate:   u16(p[0:2]),
			Tracking: u16(p[2:4]),
			TS:       u48(p[4:10]),
			Ref:      u64(p[10:18]),
			Side:     Side(p[18]),
			Shares:   u32(p[19:23]),
			Symbol:   trimSymbol(p[23:31]),
			Price:    u32(p[31:35]),
			MPID:     true,
			// bytes [35:39] are the MPID attribution; discarded per §4.1.
		}, nil

	case TagOrderExecuted:
		return OrderExecuted{
			base:        b,
			Locate:      u16(p[0:2]),
			Tracking:    u16(p[2:4]),
			TS:          u48(p[4:10]),
			Ref:         u64(p[10:18]),
			Shares:      u32(p[18:22]),
			MatchNumber: u64(p[22:30]),
		}, nil

	case TagOrderExecutedWithPrice:
		return OrderExecutedWithPrice{
			base:        b,
			Locate:      u16(p[0:2]),
			Tracking:    u16(p[2:4]),
			TS:          u48(p[4:10]),
			Ref:         u64(p[10:18]),
			Shares:      u32(p[18:22]),
			MatchNumber: u64(p[22:30]),
			Printable:   p[30] == 'Y',
			Price:       u32(p[31:35]),
		}, nil

	case TagOrderCancel:
		return OrderCancel{
			base:         b,
			Locate:       u16(p[0:2]),
			Tracking:     u16(p[2:4]),
			TS:           u48(p[4:10]),
			Ref:          u64(p[10:18]),
			CancelShares: u32(p[18:22]),
		}, nil

	case TagOrderDelete:
		return OrderDelete{
			base:     b,
			Locate:   u16(p[0:2]),
			Tracking: u16(p[2:4]),
			TS:       u48(p[4:10]),
			Ref:      u64(p[10:18]),
		}, nil

	case TagOrderReplace:
		return OrderReplace{
			base:     b,
			Locate:   u16(p[0:2]),
			Tracking: u16(p[2:4]),
			TS:       u48(p[4:10]),
			OldRef:   u64(p[10:18]),
			NewRef:   u64(p[18:26]),
			Shares:   u32(p[26:30]),
			Price:    u32(p[30:34]),
		}, nil

	case TagTrade:
		return Trade{
			base:        b,
			Locate:      u16(p[0:2]),
			Tracking:    u16(p[2:4]),
			TS:          u48(p[4:10]),
			Ref:         u64(p[10:18]),
			Side:        Side(p[18]),
			Shares:      u32(p[19:23]),
			Symbol:      trimSymbol(p[23:31]),
			Price:       u32(p[31:35]),
			MatchNumber: u64(p[35:43]),
		}, nil

	case TagCrossTrade:
		return CrossTrade{
			base:        b,
			Locate:      u16(p[0:2]),
			Tracking:    u16(p[2:4]),
			TS:          u48(p[4:10]),
			Shares:      u64(p[10:18]),
			Symbol:      trimSymbol(p[18:26]),
			Price:       u32(p[26:30]),
			MatchNumber: u64(p[30:38]),
			CrossType:   p[38],
		}, nil
	}

	return nil, fmt.Errorf("%w: unhandled tag %q", ErrMalformedRecord, tag)
}
