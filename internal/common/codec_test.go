package common

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestEvent builds an Event whose id is the correct content digest of
// payload, the way DecodeEvent requires.
func newTestEvent(payload []byte) Event {
	return NewEvent(EventID(sha256.Sum256(payload)), payload)
}

func TestAmountRoundTrip(t *testing.T) {
	w := NewWriter()
	Amount(1234567890).Encode(w)

	r := NewReader(w.Bytes())
	got, err := DecodeAmount(r)
	require.NoError(t, err)
	require.Equal(t, Amount(1234567890), got)
	require.Zero(t, r.Remaining())
}

func TestAccountRoundTrip(t *testing.T) {
	var a Account
	for i := range a {
		a[i] = byte(i)
	}
	w := NewWriter()
	a.Encode(w)

	r := NewReader(w.Bytes())
	got, err := DecodeAccount(r)
	require.NoError(t, err)
	require.True(t, a.Equal(got))
}

func TestAccountFromBytesRejectsWrongLength(t *testing.T) {
	_, err := AccountFromBytes([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrDecode)
}

func TestEventRoundTrip(t *testing.T) {
	payload := []byte(`{"kind":1,"content":"hello"}`)
	ev := newTestEvent(payload)

	w := NewWriter()
	ev.Encode(w)

	r := NewReader(w.Bytes())
	got, err := DecodeEvent(r)
	require.NoError(t, err)
	require.True(t, ev.Equal(got))
	require.Equal(t, payload, got.RawJSON())
}

func TestDecodeEventRejectsMismatchedId(t *testing.T) {
	id := EventID{0xAA}
	payload := []byte(`{"kind":1,"content":"hello"}`)
	ev := NewEvent(id, payload)

	w := NewWriter()
	ev.Encode(w)

	_, err := DecodeEvent(NewReader(w.Bytes()))
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeEventRejectsInvalidJSON(t *testing.T) {
	payload := []byte("not json")
	ev := NewEvent(EventID(sha256.Sum256(payload)), payload)

	w := NewWriter()
	ev.Encode(w)

	_, err := DecodeEvent(NewReader(w.Bytes()))
	require.ErrorIs(t, err, ErrDecode)
}

func TestEventPayloadIsCopiedNotAliased(t *testing.T) {
	payload := []byte(`{"content":"mutate me"}`)
	ev := newTestEvent(payload)
	payload[0] = 'X'
	require.Equal(t, byte('{'), ev.RawJSON()[0])
}

func TestConsensusItemRoundTrip(t *testing.T) {
	item := ConsensusItem{
		Kind:  ConsensusItemNote,
		Event: newTestEvent([]byte(`{}`)),
		Share: SignatureShare{0x02},
	}
	w := NewWriter()
	item.Encode(w)

	r := NewReader(w.Bytes())
	got, err := DecodeConsensusItem(r)
	require.NoError(t, err)
	require.Equal(t, item.Kind, got.Kind)
	require.True(t, item.Event.Equal(got.Event))
	require.Equal(t, item.Share, got.Share)
}

func TestDecodeConsensusItemRejectsUnknownKind(t *testing.T) {
	w := NewWriter()
	w.PutUint8(0xFF)
	_, err := DecodeConsensusItem(NewReader(w.Bytes()))
	require.ErrorIs(t, err, ErrUnknownConsensusItemKind)
}

func TestDecodeTruncatedInput(t *testing.T) {
	_, err := DecodeAmount(NewReader([]byte{1, 2, 3}))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestInputOutputRoundTrip(t *testing.T) {
	acct := Account{0x09}
	in := Input{Amount: 500, Account: acct}
	w := NewWriter()
	in.Encode(w)
	gotIn, err := DecodeInput(NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, in, gotIn)

	out := Output{Amount: 500, Account: acct}
	w2 := NewWriter()
	out.Encode(w2)
	gotOut, err := DecodeOutput(NewReader(w2.Bytes()))
	require.NoError(t, err)
	require.Equal(t, out, gotOut)
}
