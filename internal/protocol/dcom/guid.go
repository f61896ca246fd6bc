package dcom

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// GUID is a 16-byte COM identifier (IID, CLSID, IPID) in its on-wire byte
// order: Data1 as a little-endian uint32, Data2 and Data3 as little-endian
// uint16s, Data4 as eight raw bytes. This differs from the RFC 4122 network
// order used by textual UUIDs, so String and ParseGUID swap the first three
// groups at the boundary.
type GUID [16]byte

// GUIDSize is the marshaled size of a GUID in bytes.
const GUIDSize = 16

// ParseGUID parses a textual GUID such as
// "00000000-0000-0000-c000-000000000046" into wire byte order.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, fmt.Errorf("parse GUID %q: %w", s, err)
	}
	return fromUUID(u), nil
}

// MustParseGUID is ParseGUID for compile-time constants; it panics on
// malformed input.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGUID returns a random GUID, for callers building fresh references.
func NewGUID() GUID {
	return fromUUID(uuid.New())
}

// String formats the GUID in the canonical lowercase hyphenated form.
func (g GUID) String() string {
	return g.uuid().String()
}

// IsZero reports whether the GUID is the all-zero GUID_NULL.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

// PID extracts the process id field a Windows stub manager embeds in the
// IPIDs it allocates. Only meaningful for interface pointer identifiers.
func (g GUID) PID() uint16 {
	return binary.LittleEndian.Uint16(g[4:6])
}

// TID extracts the apartment thread id field of a stub-manager IPID.
// Zero identifies the multi-threaded apartment.
func (g GUID) TID() uint16 {
	return binary.LittleEndian.Uint16(g[6:8])
}

func fromUUID(u uuid.UUID) GUID {
	var g GUID
	// RFC 4122 stores the first three groups big-endian; COM wire order
	// stores them little-endian.
	g[0], g[1], g[2], g[3] = u[3], u[2], u[1], u[0]
	g[4], g[5] = u[5], u[4]
	g[6], g[7] = u[7], u[6]
	copy(g[8:], u[8:])
	return g
}

func (g GUID) uuid() uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = g[3], g[2], g[1], g[0]
	u[4], u[5] = g[5], g[4]
	u[6], u[7] = g[7], g[6]
	copy(u[8:], g[8:])
	return u
}
