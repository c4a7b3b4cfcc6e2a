package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/fedimint-nostimint/nostimint/internal/common"
)

var (
	// ErrInvalidAccountSeed is returned when a seed cannot be turned into a
	// valid secp256k1 scalar.
	ErrInvalidAccountSeed = errors.New("crypto: invalid account seed")

	// ErrInvalidAccountKey is returned when a serialized account key is not
	// a valid x-only curve point.
	ErrInvalidAccountKey = errors.New("crypto: invalid account public key")
)

// FaucetSeed is the fixed, publicly known seed every federation derives the
// faucet account from. It is not secret: the faucet exists to let clients
// self-fund during development and testing.
const FaucetSeed = "Money printer go brrr..........."

// AccountKeyPair holds the secret scalar and x-only public key for one
// account, wrapping a secp256k1 private key the way an identity keypair does
// but with a schnorr/BIP-340 x-only public key instead of a full compressed
// point, per spec.md's Account type.
type AccountKeyPair struct {
	priv *btcec.PrivateKey
}

// GenerateAccountKeyPair derives a keypair from a cryptographically secure
// random scalar.
func GenerateAccountKeyPair() (AccountKeyPair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return AccountKeyPair{}, fmt.Errorf("crypto: generate account key: %w", err)
	}
	return AccountKeyPair{priv: priv}, nil
}

// AccountKeyPairFromSeed deterministically derives a keypair from an
// arbitrary-length seed by hashing it down to a 32-byte scalar with
// SHA-256, the same seed-to-scalar shape as
// peermanagement/identity.NewIdentityFromSeed (which uses SHA-512; SHA-256
// suffices here since the scalar only needs 32 bytes and the seed is not
// meant to be secret-stretched).
func AccountKeyPairFromSeed(seed []byte) (AccountKeyPair, error) {
	if len(seed) == 0 {
		return AccountKeyPair{}, ErrInvalidAccountSeed
	}
	sum := sha256.Sum256(seed)
	priv, _ := btcec.PrivKeyFromBytes(sum[:])
	if priv == nil {
		return AccountKeyPair{}, ErrInvalidAccountSeed
	}
	return AccountKeyPair{priv: priv}, nil
}

// FaucetAccountKeyPair derives the federation's well-known faucet account
// from FaucetSeed. Unlike AccountKeyPairFromSeed it does not hash the
// seed: the key is derived directly from the raw 32 ASCII bytes, since
// FaucetSeed is already exactly 32 bytes.
func FaucetAccountKeyPair() AccountKeyPair {
	if len(FaucetSeed) != 32 {
		panic("crypto: FaucetSeed must be exactly 32 bytes")
	}
	priv, _ := btcec.PrivKeyFromBytes([]byte(FaucetSeed))
	return AccountKeyPair{priv: priv}
}

// FaucetAccount returns the x-only public key of the federation's faucet
// account.
func FaucetAccount() common.Account {
	return FaucetAccountKeyPair().Account()
}

// Account returns the x-only public key identifying this keypair's account.
func (k AccountKeyPair) Account() common.Account {
	xonly, _ := schnorr.ParsePubKey(schnorr.SerializePubKey(k.priv.PubKey()))
	var acct common.Account
	copy(acct[:], schnorr.SerializePubKey(xonly))
	return acct
}

// Sign produces a BIP-340 schnorr signature over msg.
func (k AccountKeyPair) Sign(msg [32]byte) ([]byte, error) {
	sig, err := schnorr.Sign(k.priv, msg[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: sign account message: %w", err)
	}
	return sig.Serialize(), nil
}

// VerifyAccountSignature checks a BIP-340 schnorr signature against an
// x-only account public key.
func VerifyAccountSignature(acct common.Account, msg [32]byte, sig []byte) (bool, error) {
	pub, err := schnorr.ParsePubKey(acct[:])
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidAccountKey, err)
	}
	parsedSig, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false, fmt.Errorf("crypto: parse account signature: %w", err)
	}
	return parsedSig.Verify(msg[:], pub), nil
}
