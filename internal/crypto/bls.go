// Package crypto wraps the two curve families nostimint needs: BLS12-381 for
// threshold signature shares and secp256k1 (x-only) for account keys. Both
// wrappers follow sentinel-errors-plus-typed-wrapper conventions:
// fmt.Errorf wrapping, no panics on malformed input.
package crypto

import (
	"errors"
	"fmt"

	"github.com/herumi/bls-eth-go-binary/bls"

	"github.com/fedimint-nostimint/nostimint/internal/common"
)

func init() {
	if err := bls.Init(bls.BLS12_381); err != nil {
		panic(fmt.Errorf("crypto: bls init: %w", err))
	}
	if err := bls.SetETHmode(bls.EthModeDraft07); err != nil {
		panic(fmt.Errorf("crypto: bls eth mode: %w", err))
	}
}

var (
	// ErrInvalidSecretKeyShare is returned when a share's raw bytes do not
	// deserialize into a valid BLS secret key.
	ErrInvalidSecretKeyShare = errors.New("crypto: invalid bls secret key share")

	// ErrInvalidPublicKeyShare is returned when a peer's published public
	// key share does not deserialize.
	ErrInvalidPublicKeyShare = errors.New("crypto: invalid bls public key share")

	// ErrInvalidSignatureShare is returned when a signature share does not
	// deserialize or fails to verify against the claimed peer's public key.
	ErrInvalidSignatureShare = errors.New("crypto: invalid bls signature share")

	// ErrNoShares is returned when an aggregation is attempted with no
	// input shares.
	ErrNoShares = errors.New("crypto: no signature shares to combine")

	// ErrPrivateKeyMismatch is returned by ValidateConfig when a peer's
	// private key share does not correspond to its published public share.
	ErrPrivateKeyMismatch = errors.New("crypto: private key share does not match published public key")
)

// SecretKeyShare is one peer's long-lived BLS12-381 signing key for the
// module's threshold scheme. There is no Lagrange/Shamir reconstruction in
// this module: the federation's "threshold" signature is the aggregate
// (sum) of any quorum of individually-verified shares, the same multisig
// construction as AggregateBLSSigs/VerifyAggregated in the pack, used in
// place of a Shamir-based threshold scheme.
type SecretKeyShare struct {
	sk bls.SecretKey
}

// GenerateSecretKeyShare derives a fresh secret key share from a
// cryptographically secure random source.
func GenerateSecretKeyShare() SecretKeyShare {
	var sk bls.SecretKey
	sk.SetByCSPRNG()
	return SecretKeyShare{sk: sk}
}

// SecretKeyShareFromBytes deserializes a raw BLS secret key.
func SecretKeyShareFromBytes(b []byte) (SecretKeyShare, error) {
	var sk bls.SecretKey
	if err := sk.Deserialize(b); err != nil {
		return SecretKeyShare{}, fmt.Errorf("%w: %v", ErrInvalidSecretKeyShare, err)
	}
	return SecretKeyShare{sk: sk}, nil
}

// Bytes serializes the secret key share.
func (s SecretKeyShare) Bytes() []byte { return s.sk.Serialize() }

// PublicKeyShare returns the public key share corresponding to s.
func (s SecretKeyShare) PublicKeyShare() PublicKeyShare {
	return PublicKeyShare{pk: *s.sk.GetPublicKey()}
}

// Sign produces this peer's signature share over an event's id.
func (s SecretKeyShare) Sign(eventID common.EventID) common.SignatureShare {
	sig := s.sk.SignByte(eventID[:])
	var out common.SignatureShare
	copy(out[:], sig.Serialize())
	return out
}

// PublicKeyShare is the public half of a peer's SecretKeyShare, published in
// the module's consensus configuration so every peer can verify every other
// peer's signature shares.
type PublicKeyShare struct {
	pk bls.PublicKey
}

// PublicKeyShareFromBytes deserializes a compressed BLS public key.
func PublicKeyShareFromBytes(b []byte) (PublicKeyShare, error) {
	var pk bls.PublicKey
	if err := pk.Deserialize(b); err != nil {
		return PublicKeyShare{}, fmt.Errorf("%w: %v", ErrInvalidPublicKeyShare, err)
	}
	return PublicKeyShare{pk: pk}, nil
}

// Bytes serializes the public key share.
func (p PublicKeyShare) Bytes() []byte { return p.pk.Serialize() }

// Add returns the sum p + other, used to build the federation's aggregate
// public key from individual peer shares.
func (p PublicKeyShare) Add(other PublicKeyShare) PublicKeyShare {
	sum := p.pk
	sum.Add(&other.pk)
	return PublicKeyShare{pk: sum}
}

// VerifyShare checks that share is eventID signed under pub.
func VerifyShare(pub PublicKeyShare, eventID common.EventID, share common.SignatureShare) (bool, error) {
	var sig bls.Sign
	if err := sig.Deserialize(share[:]); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSignatureShare, err)
	}
	return sig.VerifyByte(&pub.pk, eventID[:]), nil
}

// Combine aggregates a quorum of already-verified signature shares into a
// single federation signature by summing the BLS points.
func Combine(shares []common.SignatureShare) (common.Signature, error) {
	if len(shares) == 0 {
		return common.Signature{}, ErrNoShares
	}
	var agg bls.Sign
	for i, raw := range shares {
		var s bls.Sign
		if err := s.Deserialize(raw[:]); err != nil {
			return common.Signature{}, fmt.Errorf("%w: share %d: %v", ErrInvalidSignatureShare, i, err)
		}
		if i == 0 {
			agg = s
		} else {
			agg.Add(&s)
		}
	}
	var out common.Signature
	copy(out[:], agg.Serialize())
	return out, nil
}

// VerifyAggregate checks a combined Signature against the federation's
// aggregate PublicKeyShare.
func VerifyAggregate(pub PublicKeyShare, eventID common.EventID, sig common.Signature) (bool, error) {
	var s bls.Sign
	if err := s.Deserialize(sig[:]); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSignatureShare, err)
	}
	return s.VerifyByte(&pub.pk, eventID[:]), nil
}
