//go:build amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || wasm

package byteorder

import "encoding/binary"

// Native is the host's native byte order on these little-endian ports.
func Native() binary.ByteOrder { return binary.LittleEndian }
