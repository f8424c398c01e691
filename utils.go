package vkreplay

import (
	"unsafe"
)

const end = "\x00"

// toBytes views n bytes at ptr as a slice. The memory must stay mapped while
// the slice is in use.
func toBytes(ptr unsafe.Pointer, n int) []byte {
	const m = 0x7fffffff
	return (*[m]byte)(ptr)[:n:n]
}

func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != end[0] {
		return s + end
	}
	return s
}

// safeStrings returns a null terminated copy of list.
func safeStrings(list []string) []string {
	ret := make([]string, len(list))
	for i := range list {
		ret[i] = safeString(list[i])
	}
	return ret
}
