package hd

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BIP-32 test vector 1.
var vector1Seed, _ = hex.DecodeString("000102030405060708090a0b0c0d0e0f")

type vectorStep struct {
	index     uint32
	hardened  bool
	wantPriv  string
	wantChain string
	wantPub   string
}

var vector1Chain = []vectorStep{
	{0, true,
		"edb2e14f9ee77d26dd93b4ecede8d16ed408ce149b6cd80b0715a2d911a0afea",
		"47fdacbd0f1097043b78c63c20c34ef4ed9a111d980047ad16282c7ae6236141",
		"035a784662a4a20a65bf6aab9ae98a6c068a81c52e4b032c0fb5400c706cfccc56"},
	{1, false,
		"3c6cb8d0f6a264c91ea8b5030fadaa8e538b020f0a387421a12de9319dc93368",
		"2a7857631386ba23dacac34180dd1983734e444fdbf774041578e9b6adb37c19",
		"03501e454bf00751f24b1b489aa925215d66af2234e3891c3b21a52bedb3cd711c"},
	{2, true,
		"cbce0d719ecf7431d88e6a89fa1483e02e35092af60c042b1df2ff59fa424dca",
		"04466b9cc8e161e966409ca52986c584f07e9dc81f735db683c3ff6ec7b1503f",
		"0357bfe1e341d01c69fe5654309956cbea516822fba8a601743a012a7896ee8dc2"},
	{2, false,
		"0f479245fb19a38a1954c5c7c0ebab2f9bdfd96a17563ef28a6a4b1a2a764ef4",
		"cfb71883f01676f587d023cc53a35bc7f88f724b1f8c2892ac1275ac822a3edd",
		"02e8445082a72f29b75ca48748a914df60622a609cacfce8ed0e35804560741d29"},
	{1000000000, false,
		"471b76e389e528d6de6d816857e012c5455051cad6660850e58372a6c3e6e7c8",
		"c783e67b921d2beb8f6b389cc646d7263b4145701dadd2161548a8b078e65e9e",
		"022a471424da5e657499d1ff51cb43c47481a03b1e77f951fe64cec9f5a48f7011"},
}

func TestNewMasterVector1(t *testing.T) {
	master, err := NewMaster(vector1Seed)
	require.NoError(t, err)

	assert.Equal(t, 0, master.Depth())
	assert.Empty(t, master.Path())
	assert.Equal(t, ZeroChildNumber, master.ChildNum())
	assert.Equal(t, "m", master.PathString())

	assert.Equal(t, "e8f32e723decf4051aefac8e2c93c9c5b214313817cdb01a1494b917c8436b35",
		hexPriv(t, master))
	assert.Equal(t, "873dff81c02f525623fd1fe5167eac3a55a049de3d314bb42ee227ffed37d508",
		hex.EncodeToString(master.ChainCode()))
	assert.Equal(t, "0339a36013301597daef41fbe593a02cc513d0b55527ec2df1050e2e8ff49c85c2",
		hex.EncodeToString(master.PubKey()))
	assert.Equal(t, "3442193e1bb70916e914552172cd4e2dbc9df811",
		hex.EncodeToString(master.Identifier()))
	assert.Equal(t, "3442193e", hex.EncodeToString(master.Fingerprint()))
}

func TestDeriveChildKeyVector1(t *testing.T) {
	node, err := NewMaster(vector1Seed)
	require.NoError(t, err)

	for depth, step := range vector1Chain {
		if step.hardened {
			node, err = node.DeriveHardened(step.index)
		} else {
			node, err = node.DeriveSoftened(step.index)
		}
		require.NoError(t, err)

		assert.Equal(t, depth+1, node.Depth())
		assert.Equal(t, step.index, node.ChildNum().Index())
		assert.Equal(t, step.hardened, node.ChildNum().IsHardened())
		assert.Equal(t, step.wantPriv, hexPriv(t, node), "priv at depth %d", depth+1)
		assert.Equal(t, step.wantChain, hex.EncodeToString(node.ChainCode()), "chain code at depth %d", depth+1)
		assert.Equal(t, step.wantPub, hex.EncodeToString(node.PubKey()), "pub at depth %d", depth+1)
	}
}

func TestDeriveChildKeyWatchOnly(t *testing.T) {
	master, err := NewMaster(vector1Seed)
	require.NoError(t, err)

	// A public-only parent must derive the same child public keys for
	// normal indices as a materialized one.
	watch := master.PubOnly()
	for _, index := range []uint32{0, 1, 5, 1000000000} {
		full, err := master.DeriveSoftened(index)
		require.NoError(t, err)
		derived, err := watch.DeriveSoftened(index)
		require.NoError(t, err)

		assert.Equal(t, full.PubKey(), derived.PubKey(), "index %d", index)
		assert.Equal(t, full.ChainCode(), derived.ChainCode(), "index %d", index)
		assert.True(t, derived.IsPubKeyOnly())
	}
}

func TestDeriveChildKeyHardenedFromPub(t *testing.T) {
	master, err := NewMaster(vector1Seed)
	require.NoError(t, err)

	_, err = master.PubOnly().DeriveHardened(0)
	require.ErrorIs(t, err, ErrHardenedFromPub)
}

func TestNewMasterEmptySeed(t *testing.T) {
	_, err := NewMaster(nil)
	require.ErrorIs(t, err, ErrInvalidSeed)
}

func hexPriv(t *testing.T, k *DeterministicKey) string {
	t.Helper()
	b33, err := k.PrivKeyBytes33()
	require.NoError(t, err)
	return hex.EncodeToString(b33[1:])
}
