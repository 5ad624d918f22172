//go:build mips || mips64 || ppc64 || s390x

package byteorder

import "encoding/binary"

// Native is the host's native byte order on these big-endian ports.
func Native() binary.ByteOrder { return binary.BigEndian }
