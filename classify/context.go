// Package classify evaluates compiled classification rules against
// per-packet contexts and keeps the registry of named classes.
package classify

import "github.com/jasongoodwin/dora/ast"

// PacketContext supplies the per-packet lookups an expression can
// reference. It is implemented by the packet decode layer; evaluation
// never mutates it and never performs I/O through it.
type PacketContext interface {
	// GetField returns the raw bytes of one of the fixed pkt4.* header
	// fields (MAC, the one-byte hlen/htype/msgtype fields, the four
	// address fields, the 4-byte transaction id).
	GetField(f ast.Field) []byte

	// GetOption returns a top-level DHCP option payload by code. The
	// second return reports presence; a zero-length payload is present.
	GetOption(code uint32) ([]byte, bool)

	// GetRelayOption returns a relay-agent-information sub-option
	// payload by code.
	GetRelayOption(code uint32) ([]byte, bool)

	// IsMember reports whether the client has already been placed in
	// the named class.
	IsMember(name string) bool
}
