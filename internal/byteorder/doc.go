// Package byteorder exposes the host's native byte order.
//
// The wire header (see internal/wire) is encoded in the sender's native
// byte order with no network-order swap: the protocol assumes a
// homogeneous-endianness deployment and trades portability for avoiding a
// swap on every packet. Selection is by build tag for architectures with a
// well-known order, falling back to a one-time runtime probe elsewhere.
package byteorder
