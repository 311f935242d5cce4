package spsc

// Sizes used to lay out Ring, checked by sizeof_test.go.
const (
	// sizeOfCacheLine covers the widest common line (128 bytes on Apple
	// Silicon and some other ARM64 parts, versus 64 on x86-64), so padding
	// to it separates the cursors everywhere.
	sizeOfCacheLine = 128

	sizeOfAtomicUint64 = 8
	sizeOfUint64       = 8
)
