//go:build linux || darwin || freebsd

package libmosq

import (
	"strings"
	"unsafe"
)

// cstr returns a NUL-terminated copy of s for the duration of an engine
// call. The engine copies what it needs before returning.
func cstr(s string) *byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

// cstrOrNil maps the empty string to a NULL pointer, for parameters where
// the engine distinguishes NULL from "".
func cstrOrNil(s string) *byte {
	if s == "" {
		return nil
	}
	return cstr(s)
}

// checkCString rejects strings an engine call would silently truncate.
func checkCString(s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return ErrnoInval
	}
	return nil
}

// goString copies a NUL-terminated engine-owned string into Go memory.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
