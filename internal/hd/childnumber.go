package hd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// HardenedBit is the high bit of a child number. Indices with this bit set
// require the parent private key to derive (BIP-32 hardened derivation).
const HardenedBit uint32 = 0x80000000

// ChildNumber is one step in a derivation path: a 31-bit index plus a
// hardened flag, packed into a single uint32 the way BIP-32 serializes it.
type ChildNumber struct {
	i uint32
}

// ZeroChildNumber is the canonical child number reported by a master key.
var ZeroChildNumber = ChildNumber{}

// NewChildNumber builds a child number from a bare index and a hardened flag.
// The index must not already carry the hardened bit.
func NewChildNumber(index uint32, hardened bool) (ChildNumber, error) {
	if index&HardenedBit != 0 {
		return ChildNumber{}, errors.Errorf("hd: index %d has the hardened bit set", index)
	}
	if hardened {
		index |= HardenedBit
	}
	return ChildNumber{i: index}, nil
}

// ChildNumberFromUint32 interprets a packed BIP-32 serialized index.
func ChildNumberFromUint32(v uint32) ChildNumber {
	return ChildNumber{i: v}
}

// Index returns the 31-bit index without the hardened bit.
func (c ChildNumber) Index() uint32 {
	return c.i &^ HardenedBit
}

// IsHardened reports whether the hardened bit is set.
func (c ChildNumber) IsHardened() bool {
	return c.i&HardenedBit != 0
}

// Value returns the packed uint32 used on the wire and in HMAC input.
func (c ChildNumber) Value() uint32 {
	return c.i
}

func (c ChildNumber) String() string {
	if c.IsHardened() {
		return strconv.FormatUint(uint64(c.Index()), 10) + "'"
	}
	return strconv.FormatUint(uint64(c.Index()), 10)
}

// ParsePath parses a BIP-32 derivation path string into child numbers.
// Accepts an optional leading "m" and the ', h and H hardened markers,
// e.g. "m/44'/0'/1" or "44h/0h/1".
func ParsePath(path string) ([]ChildNumber, error) {
	parts := strings.Split(path, "/")
	if len(parts) > 0 && parts[0] == "m" {
		parts = parts[1:]
	}

	out := make([]ChildNumber, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}

		hardened := false
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") || strings.HasSuffix(part, "H") {
			hardened = true
			part = part[:len(part)-1]
		}

		val, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "hd: invalid path component %q", part)
		}

		cn, err := NewChildNumber(uint32(val), hardened)
		if err != nil {
			return nil, err
		}
		out = append(out, cn)
	}
	return out, nil
}

// FormatPath renders a path in the human readable "m/44'/0'/1" form.
func FormatPath(path []ChildNumber) string {
	var b strings.Builder
	b.WriteString("m")
	for _, cn := range path {
		b.WriteString("/")
		b.WriteString(cn.String())
	}
	return b.String()
}
