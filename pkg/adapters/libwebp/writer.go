package libwebp

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

// goWebPWrite is the WebPWriterFunction for still encodes. handle refers to
// the stillWriter of the running WebPEncode call.
//
//export goWebPWrite
func goWebPWrite(data *C.uint8_t, size C.size_t, handle C.uintptr_t) C.int {
	sw, ok := cgo.Handle(handle).Value().(*stillWriter)
	if !ok {
		return 0
	}
	if size == 0 {
		return 1
	}
	if !sw.write(C.GoBytes(unsafe.Pointer(data), C.int(size))) {
		return 0
	}
	return 1
}
