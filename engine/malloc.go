package engine

import (
	"errors"
	"runtime"
	"runtime/debug"
	"unsafe"
)

var errOutOfMemory = errors.New("out of memory")

// overLimit reports whether n more bytes would push the process past the soft memory limit.
var overLimit = func(n int64) bool {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	inUse := int64(ms.Sys - ms.HeapReleased)
	return inUse+n > debug.SetMemoryLimit(-1)
}

// makeSlice is make([]T, n) which reports errOutOfMemory instead of growing past the limit.
func makeSlice[T any](n int) (s []T, err error) {
	var zero T
	if n < 0 || overLimit(int64(n)*int64(unsafe.Sizeof(zero))) {
		return nil, errOutOfMemory
	}

	defer func() {
		if recover() != nil {
			s, err = nil, errOutOfMemory
		}
	}()
	return make([]T, n), nil
}
