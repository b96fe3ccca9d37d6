// Package itch decodes NASDAQ TotalView-ITCH 5.0 binary market data
// messages into typed events.
//
// The wire format is a flat sequence of records: a one-byte message
// type tag followed by a fixed-length payload whose length is
// determined entirely by the tag. All multi-byte integers are
// big-endian; fixed-width ASCII fields are right-space-padded.
package itch

// Side is the buy/sell indicator carried on order and trade messages.
// Its values are the wire bytes themselves, so no translation table is
// needed between the decoded event and the ITCH spec.
type Side byte

const (
	Buy  Side = 'B'
	Sell Side = 'S'
)

// Tag identifies an ITCH 5.0 message type by its leading byte.
type Tag byte

const (
	TagSystemEvent            Tag = 'S'
	TagStockDirectory         Tag = 'R'
	TagStockTradingAction     Tag = 'H'
	TagRegSHO                 Tag = 'Y'
	TagMarketParticipantPos   Tag = 'L'
	TagMWCBDecline            Tag = 'V'
	TagMWCBStatus             Tag = 'W'
	TagIPOQuoting             Tag = 'K'
	TagLULDCollar             Tag = 'J'
	TagOperationalHalt        Tag = 'h'
	TagAddOrder               Tag = 'A'
	TagAddOrderMPID           Tag = 'F'
	TagOrderExecuted          Tag = 'E'
	TagOrderExecutedWithPrice Tag = 'C'
	TagOrderCancel            Tag = 'X'
	TagOrderDelete            Tag = 'D'
	TagOrderReplace           Tag = 'U'
	TagTrade                  Tag = 'P'
	TagCrossTrade             Tag = 'Q'
	TagBrokenTrade            Tag = 'B'
	TagNOII                   Tag = 'I'
)

// payloadLen is the number of bytes following the tag byte, keyed by
// tag. The decoder consults this table to know exactly how many bytes
// to read for every record; an unrecognized tag has no entry and is
// MalformedRecord, since the length cannot otherwise be inferred.
var payloadLen = map[Tag]int{
	TagSystemEvent:            11,
	TagStockDirectory:         38,
	TagStockTradingAction:     24,
	TagRegSHO:                 19,
	TagMarketParticipantPos:   25,
	TagMWCBDecline:            34,
	TagMWCBStatus:             11,
	TagIPOQuoting:             27,
	TagLULDCollar:             34,
	TagOperationalHalt:        20,
	TagAddOrder:               35,
	TagAddOrderMPID:           39,
	TagOrderExecuted:          30,
	TagOrderExecutedWithPrice: 35,
	TagOrderCancel:            22,
	TagOrderDelete:            18,
	TagOrderReplace:           34,
	TagTrade:                  43,
	TagCrossTrade:             39,
	TagBrokenTrade:            18,
	TagNOII:                   49,
}

// ignoredTags are decoded only by skipping their payload; they still
// surface as an Ignored event so stream framing stays self-synchronizing.
var ignoredTags = map[Tag]bool{
	TagSystemEvent:          true,
	TagStockTradingAction:   true,
	TagRegSHO:               true,
	TagMarketParticipantPos: true,
	TagMWCBDecline:          true,
	TagMWCBStatus:           true,
	TagIPOQuoting:           true,
	TagLULDCollar:           true,
	TagOperationalHalt:      true,
	TagBrokenTrade:          true,
	TagNOII:                 true,
}

// Event is implemented by every decoded message variant. Offset reports
// the byte position at which the record starts within the stream (its
// tag, or its 2-byte length prefix in the length-prefixed transport),
// for error reporting and progress display.
type Event interface {
	Tag() Tag
	Offset() int64
}

type base struct {
	offset int64
}

func (b base) Offset() int64 { return b.offset }

// Ignored is returned for tags whose payload the decoder skips without
// interpretation (§4.1): S, H, Y, L, V, W, K, J, h, B, I.
type Ignored struct {
	base
	MsgTag Tag
}

func (e Ignored) Tag() Tag { return e.MsgTag }

// StockDirectory is the 'R' message that assigns a stock-locate to a
// symbol for the remainder of the session.
type StockDirectory struct {
	base
	Locate   uint16
	Tracking uint16
	TS       uint64
	Symbol   string // right-trimmed
}

func (e StockDirectory) Tag() Tag { return TagStockDirectory }

// AddOrder is the 'A' message. AddOrderMPID ('F') decodes to the same
// shape; its MPID attribution field is discarded per §4.1.
type AddOrder struct {
	base
	Locate   uint16
	Tracking uint16
	TS       uint64
	Ref      uint64
	Side     Side
	Shares   uint32
	Symbol   string
	Price    uint32
	MPID     bool // true if decoded from an 'F' record
}

func (e AddOrder) Tag() Tag {
	if e.MPID {
		return TagAddOrderMPID
	}
	return TagAddOrder
}

// OrderExecuted is the 'E' message: execution at the order's resting price.
type OrderExecuted struct {
	base
	Locate      uint16
	Tracking    uint16
	TS          uint64
	Ref         uint64
	Shares      uint32
	MatchNumber uint64
}

func (e OrderExecuted) Tag() Tag { return TagOrderExecuted }

// OrderExecutedWithPrice is the 'C' message: execution at a possibly
// different price than the resting order, with a printable flag.
type OrderExecutedWithPrice struct {
	base
	Locate      uint16
	Tracking    uint16
	TS          uint64
	Ref         uint64
	Shares      uint32
	MatchNumber uint64
	Printable   bool
	Price       uint32
}

func (e OrderExecutedWithPrice) Tag() Tag { return TagOrderExecutedWithPrice }

// OrderCancel is the 'X' message: a partial cancellation of resting shares.
type OrderCancel struct {
	base
	Locate       uint16
	Tracking     uint16
	TS           uint64
	Ref          uint64
	CancelShares uint32
}

func (e OrderCancel) Tag() Tag { return TagOrderCancel }

// OrderDelete is the 'D' message: full removal of a resting order.
type OrderDelete struct {
	base
	Locate   uint16
	Tracking uint16
	TS       uint64
	Ref      uint64
}

func (e OrderDelete) Tag() Tag { return TagOrderDelete }

// OrderReplace is the 'U' message: atomic cancel-and-replace.
type OrderReplace struct {
	base
	Locate    uint16
	Tracking  uint16
	TS        uint64
	OldRef    uint64
	NewRef    uint64
	Shares    uint32
	Price     uint32
}

func (e OrderReplace) Tag() Tag { return TagOrderReplace }

// Trade is the 'P' message: a non-cross execution print that does not
// reference a resting order managed by this book.
type Trade struct {
	base
	Locate      uint16
	Tracking    uint16
	TS          uint64
	Ref         uint64
	Side        Side
	Shares      uint32
	Symbol      string
	Price       uint32
	MatchNumber uint64
}

func (e Trade) Tag() Tag { return TagTrade }

// CrossTrade is the 'Q' message: an auction cross print.
type CrossTrade struct {
	base
	Locate      uint16
	Tracking    uint16
	TS          uint64
	Shares      uint64
	Symbol      string
	Price       uint32
	MatchNumber uint64
	CrossType   byte
}

func (e CrossTrade) Tag() Tag { return TagCrossTrade }
