// Package itchtest provides minimal ITCH 5.0 message encoders for
// building byte streams in tests outside the itch package itself
// (§10). The production decode path never encodes; this exists solely
// so integration tests elsewhere in the module can assemble a
// synthetic feed without a real capture file.
package itchtest

import (
	"encoding/binary"

	"github.com/ludics1828/itch-order-book/internal/itch"
)

func putU16(buf []byte, v uint16) { binary.BigEndian.PutUint16(buf, v) }
func putU32(buf []byte, v uint32) { binary.BigEndian.PutUint32(buf, v) }
func putU64(buf []byte, v uint64) { binary.BigEndian.PutUint64(buf, v) }

func putU48(buf []byte, v uint64) {
	buf[0] = byte(v >> 40)
	buf[1] = byte(v >> 32)
	buf[2] = byte(v >> 24)
	buf[3] = byte(v >> 16)
	buf[4] = byte(v >> 8)
	buf[5] = byte(v)
}

func padSymbol(s string) [8]byte {
	var out [8]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[:], s)
	return out
}

// StockDirectory encodes an 'R' record assigning locate to symbol.
func StockDirectory(locate, tracking uint16, ts uint64, symbol string) []byte {
	buf := make([]byte, 1+38)
	buf[0] = byte(itch.TagStockDirectory)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	sym := padSymbol(symbol)
	copy(buf[11:19], sym[:])
	return buf
}

// AddOrder encodes an 'A' record.
func AddOrder(locate, tracking uint16, ts, ref uint64, side itch.Side, shares uint32, symbol string, price uint32) []byte {
	buf := make([]byte, 1+35)
	buf[0] = byte(itch.TagAddOrder)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], ref)
	buf[19] = byte(side)
	putU32(buf[20:24], shares)
	sym := padSymbol(symbol)
	copy(buf[24:32], sym[:])
	putU32(buf[32:36], price)
	return buf
}

// OrderExecuted encodes an 'E' record.
func OrderExecuted(locate, tracking uint16, ts, ref uint64, shares uint32, match uint64) []byte {
	buf := make([]byte, 1+30)
	buf[0] = byte(itch.TagOrderExecuted)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], ref)
	putU32(buf[19:23], shares)
	putU64(buf[23:31], match)
	return buf
}

// OrderExecutedWithPrice encodes a 'C' record.
func OrderExecutedWithPrice(locate, tracking uint16, ts, ref uint64, shares uint32, match uint64, printable bool, price uint32) []byte {
	buf := make([]byte, 1+35)
	buf[0] = byte(itch.TagOrderExecutedWithPrice)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], ref)
	putU32(buf[19:23], shares)
	putU64(buf[23:31], match)
	if printable {
		buf[31] = 'Y'
	} else {
		buf[31] = 'N'
	}
	putU32(buf[32:36], price)
	return buf
}

// OrderCancel encodes an 'X' record.
func OrderCancel(locate, tracking uint16, ts, ref uint64, cancelShares uint32) []byte {
	buf := make([]byte, 1+22)
	buf[0] = byte(itch.TagOrderCancel)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], ref)
	putU32(buf[19:23], cancelShares)
	return buf
}

// OrderDelete encodes a 'D' record.
func OrderDelete(locate, tracking uint16, ts, ref uint64) []byte {
	buf := make([]byte, 1+18)
	buf[0] = byte(itch.TagOrderDelete)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], ref)
	return buf
}

// OrderReplace encodes a 'U' record.
func OrderReplace(locate, tracking uint16, ts, oldRef, newRef uint64, shares uint32, price uint32) []byte {
	buf := make([]byte, 1+34)
	buf[0] = byte(itch.TagOrderReplace)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], oldRef)
	putU64(buf[19:27], newRef)
	putU32(buf[27:31], shares)
	putU32(buf[31:35], price)
	return buf
}

// Trade encodes a 'P' record.
func Trade(locate, tracking uint16, ts, ref uint64, side itch.Side, shares uint32, symbol string, price uint32, match uint64) []byte {
	buf := make([]byte, 1+43)
	buf[0] = byte(itch.TagTrade)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], ref)
	buf[19] = byte(side)
	putU32(buf[20:24], shares)
	sym := padSymbol(symbol)
	copy(buf[24:32], sym[:])
	putU32(buf[32:36], price)
	putU64(buf[36:44], match)
	return buf
}

// CrossTrade encodes a 'Q' record.
func CrossTrade(locate, tracking uint16, ts, shares uint64, symbol string, price uint32, match uint64, crossType byte) []byte {
	buf := make([]byte, 1+39)
	buf[0] = byte(itch.TagCrossTrade)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], shares)
	sym := padSymbol(symbol)
	copy(buf[19:27], sym[:])
	putU32(buf[27:31], price)
	putU64(buf[31:39], match)
	buf[39] = crossType
	return buf
}

// Ignored encodes a skip-only record for tag, with a zeroed payload.
func Ignored(tag itch.Tag, payloadLen int) []byte {
	buf := make([]byte, 1+payloadLen)
	buf[0] = byte(tag)
	return buf
}
