package common

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Writer accumulates the canonical binary encoding of wire types. Every
// federation peer must produce byte-identical output for the same value, so
// encoding never depends on map iteration order or host endianness: integers
// are fixed-width big-endian and variable-length byte strings carry an
// explicit varint length prefix.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte { return w.buf }

// PutUint8 appends a single byte.
func (w *Writer) PutUint8(v uint8) { w.buf = append(w.buf, v) }

// PutUint16 appends v as 2 big-endian bytes.
func (w *Writer) PutUint16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutUint64 appends v as 8 big-endian bytes.
func (w *Writer) PutUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutVarBytes appends a varint length prefix followed by b.
func (w *Writer) PutVarBytes(b []byte) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(b)))
	w.buf = append(w.buf, tmp[:n]...)
	w.buf = append(w.buf, b...)
}

// PutFixed appends b verbatim, with no length prefix. Used for fields whose
// length is already fixed by their Go type (e.g. Account, EventID).
func (w *Writer) PutFixed(b []byte) { w.buf = append(w.buf, b...) }

// Reader consumes a canonical binary encoding produced by Writer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps b for sequential decoding.
func NewReader(b []byte) *Reader { return &Reader{buf: b} }

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, r.Remaining())
	}
	return nil
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// Uint16 reads 2 big-endian bytes.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// Uint64 reads 8 big-endian bytes.
func (r *Reader) Uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// VarBytes reads a varint length prefix followed by that many bytes.
func (r *Reader) VarBytes() ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: varint length: %v", ErrDecode, err)
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, nil
}

// Fixed reads exactly n bytes with no length prefix.
func (r *Reader) Fixed(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadByte implements io.ByteReader so *Reader can be passed directly to
// binary.ReadUvarint.
func (r *Reader) ReadByte() (byte, error) {
	if r.Remaining() < 1 {
		return 0, io.EOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// Encode writes a to w as a fixed 8-byte big-endian integer.
func (a Amount) Encode(w *Writer) { w.PutUint64(uint64(a)) }

// DecodeAmount reads an Amount written by Amount.Encode.
func DecodeAmount(r *Reader) (Amount, error) {
	v, err := r.Uint64()
	return Amount(v), err
}

// Encode writes a as its raw 32 bytes.
func (a Account) Encode(w *Writer) { w.PutFixed(a[:]) }

// DecodeAccount reads an Account written by Account.Encode.
func DecodeAccount(r *Reader) (Account, error) {
	b, err := r.Fixed(AccountSize)
	if err != nil {
		return Account{}, err
	}
	return AccountFromBytes(b)
}

// Encode writes p as 2 big-endian bytes.
func (p PeerID) Encode(w *Writer) { w.PutUint16(uint16(p)) }

// DecodePeerID reads a PeerID written by PeerID.Encode.
func DecodePeerID(r *Reader) (PeerID, error) {
	v, err := r.Uint16()
	return PeerID(v), err
}

// Encode writes o as its TxID followed by an 8-byte big-endian index.
func (o OutPoint) Encode(w *Writer) {
	w.PutFixed(o.TxID[:])
	w.PutUint64(o.OutIdx)
}

// DecodeOutPoint reads an OutPoint written by OutPoint.Encode.
func DecodeOutPoint(r *Reader) (OutPoint, error) {
	txid, err := r.Fixed(32)
	if err != nil {
		return OutPoint{}, err
	}
	idx, err := r.Uint64()
	if err != nil {
		return OutPoint{}, err
	}
	var o OutPoint
	copy(o.TxID[:], txid)
	o.OutIdx = idx
	return o, nil
}

// Encode writes e as its 32-byte id followed by its varint-length-prefixed
// raw JSON payload.
func (e Event) Encode(w *Writer) {
	w.PutFixed(e.id[:])
	w.PutVarBytes(e.rawJSON)
}

// DecodeEvent reads an Event written by Event.Encode. It rejects payloads
// that don't parse as JSON and payloads whose recomputed EventID (the
// sha256 digest of the raw JSON, the same scheme DefaultEventBuilder uses)
// doesn't match the id on the wire, since share validity is keyed off the
// EventId's canonical byte representation.
func DecodeEvent(r *Reader) (Event, error) {
	id, err := r.Fixed(EventIDSize)
	if err != nil {
		return Event{}, err
	}
	payload, err := r.VarBytes()
	if err != nil {
		return Event{}, err
	}
	if !json.Valid(payload) {
		return Event{}, fmt.Errorf("%w: event payload is not valid JSON", ErrDecode)
	}
	var eid EventID
	copy(eid[:], id)
	if want := EventID(sha256.Sum256(payload)); want != eid {
		return Event{}, fmt.Errorf("%w: event id %s does not match payload digest %s", ErrDecode, eid, want)
	}
	return NewEvent(eid, payload), nil
}

// Encode writes s as its raw bytes.
func (s SignatureShare) Encode(w *Writer) { w.PutFixed(s[:]) }

// DecodeSignatureShare reads a SignatureShare written by
// SignatureShare.Encode.
func DecodeSignatureShare(r *Reader) (SignatureShare, error) {
	b, err := r.Fixed(SignatureShareSize)
	if err != nil {
		return SignatureShare{}, err
	}
	var s SignatureShare
	copy(s[:], b)
	return s, nil
}

// Encode writes c as a one-byte kind tag followed by its payload.
func (c ConsensusItem) Encode(w *Writer) {
	w.PutUint8(uint8(c.Kind))
	switch c.Kind {
	case ConsensusItemNote:
		c.Event.Encode(w)
		c.Share.Encode(w)
	}
}

// DecodeConsensusItem reads a ConsensusItem written by
// ConsensusItem.Encode.
func DecodeConsensusItem(r *Reader) (ConsensusItem, error) {
	kind, err := r.Uint8()
	if err != nil {
		return ConsensusItem{}, err
	}
	switch ConsensusItemKind(kind) {
	case ConsensusItemNote:
		ev, err := DecodeEvent(r)
		if err != nil {
			return ConsensusItem{}, err
		}
		share, err := DecodeSignatureShare(r)
		if err != nil {
			return ConsensusItem{}, err
		}
		return ConsensusItem{Kind: ConsensusItemNote, Event: ev, Share: share}, nil
	default:
		return ConsensusItem{}, fmt.Errorf("%w: %d", ErrUnknownConsensusItemKind, kind)
	}
}

// Encode writes i as its amount followed by its account.
func (i Input) Encode(w *Writer) {
	i.Amount.Encode(w)
	i.Account.Encode(w)
}

// DecodeInput reads an Input written by Input.Encode.
func DecodeInput(r *Reader) (Input, error) {
	amt, err := DecodeAmount(r)
	if err != nil {
		return Input{}, err
	}
	acct, err := DecodeAccount(r)
	if err != nil {
		return Input{}, err
	}
	return Input{Amount: amt, Account: acct}, nil
}

// Encode writes o as its amount followed by its account.
func (o Output) Encode(w *Writer) {
	o.Amount.Encode(w)
	o.Account.Encode(w)
}

// DecodeOutput reads an Output written by Output.Encode.
func DecodeOutput(r *Reader) (Output, error) {
	amt, err := DecodeAmount(r)
	if err != nil {
		return Output{}, err
	}
	acct, err := DecodeAccount(r)
	if err != nil {
		return Output{}, err
	}
	return Output{Amount: amt, Account: acct}, nil
}
