package hd

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// masterHMACKey is the fixed HMAC key from BIP-32 for master key generation.
var masterHMACKey = []byte("Bitcoin seed")

// NewMaster creates the root of a key tree from a seed. The seed is hashed
// with HMAC-SHA512; the left half becomes the master private key, the right
// half the chain code. The caller keeps ownership of the seed and should
// wipe it when done.
func NewMaster(seed []byte) (*DeterministicKey, error) {
	if len(seed) == 0 {
		return nil, errors.Wrap(ErrInvalidSeed, "empty seed")
	}

	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed)
	i := mac.Sum(nil)
	il, chainCode := i[:32], i[32:]

	priv := new(big.Int).SetBytes(il)
	if priv.Sign() == 0 || priv.Cmp(btcec.S256().N) >= 0 {
		return nil, ErrInvalidSeed
	}
	zeroBytes(il)

	return NewKeyFromPrivate(nil, chainCode, priv, nil)
}

// DeriveChildKey applies one step of BIP-32 child key derivation.
//
// The function is deterministic: the same parent and child number always
// yield the same child. Hardened child numbers require the parent private
// key and fail with ErrHardenedFromPub otherwise. For normal child numbers a
// public-only parent yields a watch-only child derived by point addition.
func DeriveChildKey(parent *DeterministicKey, cn ChildNumber) (*DeterministicKey, error) {
	if parent == nil {
		return nil, errors.New("hd: parent key is required")
	}

	mac := hmac.New(sha512.New, parent.chainCode)
	if cn.IsHardened() {
		if parent.priv == nil {
			return nil, errors.Wrapf(ErrHardenedFromPub, "index %s", cn)
		}
		priv33, err := parent.PrivKeyBytes33()
		if err != nil {
			return nil, err
		}
		mac.Write(priv33)
		defer zeroBytes(priv33)
	} else {
		mac.Write(parent.pub)
	}

	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], cn.Value())
	mac.Write(idx[:])

	i := mac.Sum(nil)
	il, childChain := i[:32], i[32:]

	ilNum := new(big.Int).SetBytes(il)
	zeroBytes(il)
	curve := btcec.S256()
	if ilNum.Sign() == 0 || ilNum.Cmp(curve.N) >= 0 {
		return nil, errors.Wrapf(ErrInvalidDerivedKey, "index %s", cn)
	}

	childPath := append(parent.Path(), cn)

	if parent.priv != nil {
		childPriv := new(big.Int).Add(ilNum, parent.priv)
		childPriv.Mod(childPriv, curve.N)
		if childPriv.Sign() == 0 {
			return nil, errors.Wrapf(ErrInvalidDerivedKey, "index %s", cn)
		}
		return NewKeyFromPrivate(childPath, childChain, childPriv, parent)
	}

	// Watch-only parent: child point = IL*G + parent point.
	parentPub, err := btcec.ParsePubKey(parent.pub)
	if err != nil {
		return nil, errors.Wrap(err, "hd: failed to parse parent public key")
	}
	parentEC := parentPub.ToECDSA()

	ilX, ilY := curve.ScalarBaseMult(ilNum.FillBytes(make([]byte, 32)))
	childX, childY := curve.Add(parentEC.X, parentEC.Y, ilX, ilY)
	if childX.Sign() == 0 && childY.Sign() == 0 {
		return nil, errors.Wrapf(ErrInvalidDerivedKey, "index %s", cn)
	}

	return NewKeyFromBytes(childPath, childChain, serializeCompressed(childX, childY), nil, parent)
}

// serializeCompressed encodes an affine point in 33-byte compressed form.
func serializeCompressed(x, y *big.Int) []byte {
	out := make([]byte, 33)
	if y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	x.FillBytes(out[1:])
	return out
}
