// Package chain renders chain-specific artifacts (addresses) from public
// key material produced by the HD key core.
package chain

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

// BitcoinAdapter derives P2PKH addresses for a fixed network.
type BitcoinAdapter struct {
	params *chaincfg.Params
}

// NewBitcoinAdapter creates an adapter; nil params default to mainnet.
func NewBitcoinAdapter(params *chaincfg.Params) *BitcoinAdapter {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	return &BitcoinAdapter{params: params}
}

// ParamsForNetwork maps a configuration string to chain parameters.
func ParamsForNetwork(network string) (*chaincfg.Params, error) {
	switch network {
	case "", "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, errors.Errorf("chain: unknown network %q", network)
	}
}

// GenerateAddress renders the Base58Check P2PKH address for a compressed
// public key: version byte + RIPEMD160(SHA256(pub)) + 4-byte double-SHA256
// checksum.
func (a *BitcoinAdapter) GenerateAddress(pubKey []byte) (string, error) {
	if len(pubKey) == 0 {
		return "", errors.New("chain: public key is required")
	}

	sha := sha256.Sum256(pubKey)
	ripemd := ripemd160.New()
	if _, err := ripemd.Write(sha[:]); err != nil {
		return "", errors.Wrap(err, "chain: failed to hash public key")
	}
	hash160 := ripemd.Sum(nil)

	payload := make([]byte, 0, 1+len(hash160)+4)
	payload = append(payload, a.params.PubKeyHashAddrID)
	payload = append(payload, hash160...)

	checksum := chainhash.DoubleHashB(payload)[:4]
	payload = append(payload, checksum...)

	return base58.Encode(payload), nil
}
