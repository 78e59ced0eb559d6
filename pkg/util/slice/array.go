/*
Package slice contains byte slice helpers.
*/
package slice

// CopyReverse returns a new byte slice containing reversed version of the
// original.
func CopyReverse(b []byte) []byte {
	dest := make([]byte, len(b))
	for i, j := 0, len(b)-1; j >= 0; i, j = i+1, j-1 {
		dest[i] = b[j]
	}
	return dest
}

// Clean wipes the data in b by filling it with zeros. It's used for
// temporary buffers holding secret key material.
func Clean(b []byte) {
	clear(b)
}
