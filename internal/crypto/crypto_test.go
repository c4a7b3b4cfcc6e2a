package crypto

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fedimint-nostimint/nostimint/internal/common"
)

func TestSignatureShareVerifiesAgainstOwnerKey(t *testing.T) {
	sk := GenerateSecretKeyShare()
	pk := sk.PublicKeyShare()

	eventID := common.EventID{0x01, 0x02, 0x03}
	share := sk.Sign(eventID)

	ok, err := VerifyShare(pk, eventID, share)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSignatureShareFailsAgainstWrongKey(t *testing.T) {
	sk := GenerateSecretKeyShare()
	other := GenerateSecretKeyShare()
	eventID := common.EventID{0xAA}

	share := sk.Sign(eventID)
	ok, err := VerifyShare(other.PublicKeyShare(), eventID, share)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCombineProducesVerifiableAggregate(t *testing.T) {
	eventID := common.EventID{0x07}

	sk1 := GenerateSecretKeyShare()
	sk2 := GenerateSecretKeyShare()
	sk3 := GenerateSecretKeyShare()

	shares := []common.SignatureShare{sk1.Sign(eventID), sk2.Sign(eventID), sk3.Sign(eventID)}
	agg, err := Combine(shares)
	require.NoError(t, err)

	aggPub := sk1.PublicKeyShare().Add(sk2.PublicKeyShare()).Add(sk3.PublicKeyShare())
	ok, err := VerifyAggregate(aggPub, eventID, agg)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCombineRejectsEmptyInput(t *testing.T) {
	_, err := Combine(nil)
	require.ErrorIs(t, err, ErrNoShares)
}

func TestFaucetAccountIsDeterministic(t *testing.T) {
	a := FaucetAccount()
	b := FaucetAccount()
	require.True(t, a.Equal(b))
	require.False(t, a.IsZero())
}

func TestAccountKeyPairFromSeedIsDeterministic(t *testing.T) {
	seed := []byte("some deterministic seed material")
	k1, err := AccountKeyPairFromSeed(seed)
	require.NoError(t, err)
	k2, err := AccountKeyPairFromSeed(seed)
	require.NoError(t, err)
	require.True(t, k1.Account().Equal(k2.Account()))
}

func TestAccountSignVerifyRoundTrip(t *testing.T) {
	k, err := GenerateAccountKeyPair()
	require.NoError(t, err)

	msg := sha256.Sum256([]byte("sign-note request"))
	sig, err := k.Sign(msg)
	require.NoError(t, err)

	ok, err := VerifyAccountSignature(k.Account(), msg, sig)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAccountKeyPairFromSeedRejectsEmpty(t *testing.T) {
	_, err := AccountKeyPairFromSeed(nil)
	require.ErrorIs(t, err, ErrInvalidAccountSeed)
}
