//go:build !amd64 && !arm64 && !386 && !arm && !riscv64 && !loong64 && !mipsle && !mips64le && !wasm && !mips && !mips64 && !ppc64 && !s390x

package byteorder

import (
	"encoding/binary"
	"unsafe"
)

// probe determines the machine's byte order once, at package init, for
// architectures without a hardcoded entry above.
func probe() binary.ByteOrder {
	var x uint16 = 0x0201
	b := (*[2]byte)(unsafe.Pointer(&x))
	if b[0] == 0x02 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

var native = probe()

// Native is the host's runtime-detected byte order.
func Native() binary.ByteOrder { return native }
