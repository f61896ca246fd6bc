// Package dcom implements the DCOM OBJREF marshaling format.
//
// OBJREF is the binary representation a COM/DCOM runtime embeds inside a
// moniker or RPC payload to describe a reference to an interface on an
// object, either remote or behind an in-process handler. This package
// provides a bidirectional codec: parsing a marshaled byte buffer into a
// typed object-reference record, and serializing such a record back into
// the exact byte layout the platform marshaling layer expects.
//
// Reference: [MS-DCOM] Distributed Component Object Model Protocol,
// Section 2.2.18 (OBJREF) and 2.2.19 (DUALSTRINGARRAY).
//
// The codec is stateless and safe for concurrent use on distinct buffers.
// Resolution of interface pointer identifiers to process/apartment metadata
// is delegated to the Resolver interface and never affects parsing.
package dcom
