package hd

import (
	"runtime"
	"unsafe"
)

// zeroBytes overwrites b with zeros using writes the compiler cannot elide.
// Go gives no guarantee that a plain loop over a slice that is about to go
// out of scope survives optimization, so the writes go through an unsafe
// pointer and are followed by a memory barrier.
func zeroBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	base := unsafe.Pointer(&b[0])
	for i := 0; i < len(b); i++ {
		*(*byte)(unsafe.Add(base, i)) = 0
	}
	runtime.KeepAlive(b)
}

// ZeroBytes is the exported form for callers holding raw key material
// outside a DeterministicKey, e.g. seeds and derived AES keys.
func ZeroBytes(b []byte) {
	zeroBytes(b)
}
