package itch

import "encoding/binary"

// Minimal ITCH 5.0 encoders used only by this package's tests, so that
// decode(encode(msg)) round-trip properties (§8) can be exercised
// without a production encoder (the engine only ever reads real feeds).

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

func encodeStockDirectory(locate, tracking uint16, ts uint64, symbol string) []byte {
	buf := make([]byte, 1+payloadLen[TagStockDirectory])
	buf[0] = byte(TagStockDirectory)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	sym := padSymbol(symbol)
	copy(buf[11:19], sym[:])
	return buf
}

func encodeAddOrder(locate, tracking uint16, ts, ref uint64, side Side, shares uint32, symbol string, price uint32) []byte {
	buf := make([]byte, 1+payloadLen[TagAddOrder])
	buf[0] = byte(TagAddOrder)
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

func encodeOrderExecuted(locate, tracking uint16, ts, ref uint64, shares uint32, match uint64) []byte {
	buf := make([]byte, 1+payloadLen[TagOrderExecuted])
	buf[0] = byte(TagOrderExecuted)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], ref)
	putU32(buf[19:23], shares)
	putU64(buf[23:31], match)
	return buf
}

func encodeOrderExecutedWithPrice(locate, tracking uint16, ts, ref uint64, shares uint32, match uint64, printable bool, price uint32) []byte {
	buf := make([]byte, 1+payloadLen[TagOrderExecutedWithPrice])
	buf[0] = byte(TagOrderExecutedWithPrice)
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

func encodeOrderCancel(locate, tracking uint16, ts, ref uint64, cancelShares uint32) []byte {
	buf := make([]byte, 1+payloadLen[TagOrderCancel])
	buf[0] = byte(TagOrderCancel)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], ref)
	putU32(buf[19:23], cancelShares)
	return buf
}

func encodeOrderDelete(locate, tracking uint16, ts, ref uint64) []byte {
	buf := make([]byte, 1+payloadLen[TagOrderDelete])
	buf[0] = byte(TagOrderDelete)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], ref)
	return buf
}

func encodeOrderReplace(locate, tracking uint16, ts, oldRef, newRef uint64, shares uint32, price uint32) []byte {
	buf := make([]byte, 1+payloadLen[TagOrderReplace])
	buf[0] = byte(TagOrderReplace)
	putU16(buf[1:3], locate)
	putU16(buf[3:5], tracking)
	putU48(buf[5:11], ts)
	putU64(buf[11:19], oldRef)
	putU64(buf[19:27], newRef)
	putU32(buf[27:31], shares)
	putU32(buf[31:35], price)
	return buf
}

func encodeTrade(locate, tracking uint16, ts, ref uint64, side Side, shares uint32, symbol string, price uint32, match uint64) []byte {
	buf := make([]byte, 1+payloadLen[TagTrade])
	buf[0] = byte(TagTrade)
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

func encodeCrossTrade(locate, tracking uint16, ts, shares uint64, symbol string, price uint32, match uint64, crossType byte) []byte {
	buf := make([]byte, 1+payloadLen[TagCrossTrade])
	buf[0] = byte(TagCrossTrade)
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

func encodeIgnored(tag Tag) []byte {
	n := payloadLen[tag]
	buf := make([]byte, 1+n)
	buf[0] = byte(tag)
	return buf
}
