package dcom

import "errors"

var (
	// ErrBadMagic indicates the buffer does not begin with the OBJREF
	// signature and is not an OBJREF at all.
	ErrBadMagic = errors.New("invalid OBJREF signature")

	// ErrUnsupportedType indicates the OBJREF flags word is zero, combines
	// multiple type bits, or names a type this codec does not support
	// (such as the reserved OBJREF_EXTENDED).
	ErrUnsupportedType = errors.New("unsupported OBJREF type")

	// ErrUnexpectedEOF indicates the buffer ended in the middle of a field,
	// meaning the input is truncated or corrupt.
	ErrUnexpectedEOF = errors.New("unexpected end of OBJREF data")
)
