package dcom

import "fmt"

// =============================================================================
// OBJREF [MS-DCOM] 2.2.18
// =============================================================================

// Magic is the OBJREF signature, the bytes 'M' 'E' 'O' 'W' read as a
// little-endian uint32.
const Magic uint32 = 0x574F454D

// Type is the OBJREF flags word selecting the marshaling form. Exactly one
// bit is ever set; the value is derived from the concrete ObjRef variant and
// never stored independently, so the tag and the payload shape cannot
// disagree.
type Type uint32

const (
	// TypeStandard is OBJREF_STANDARD, a plain remote reference.
	TypeStandard Type = 0x1
	// TypeHandler is OBJREF_HANDLER, a remote reference unmarshaled
	// through an in-process handler class.
	TypeHandler Type = 0x2
	// TypeCustom is OBJREF_CUSTOM, fully custom marshaling by a class.
	TypeCustom Type = 0x4
	// typeExtended is OBJREF_EXTENDED, reserved and not supported.
	typeExtended Type = 0x8
)

func (t Type) String() string {
	switch t {
	case TypeStandard:
		return "standard"
	case TypeHandler:
		return "handler"
	case TypeCustom:
		return "custom"
	default:
		return fmt.Sprintf("unknown(%#x)", uint32(t))
	}
}

// ObjRef is a parsed or caller-built COM object reference. The three
// implementations are StandardObjRef, HandlerObjRef, and CustomObjRef;
// the interface is sealed by the unexported encodeBody method.
type ObjRef interface {
	// IID returns the identifier of the interface being referenced.
	IID() GUID
	// RefType returns the marshaling form of this reference.
	RefType() Type

	encodeBody(w *writer)
}

// StandardObjRef is the OBJREF_STANDARD form: object identity plus the
// endpoints the exporter's resolver listens on.
type StandardObjRef struct {
	InterfaceID GUID
	Std         StdObjRef
	Bindings    DualStringArray
}

// HandlerObjRef is the OBJREF_HANDLER form. Identical to the standard form
// except for the interposed class id of the handler to instantiate in the
// unmarshaling process.
type HandlerObjRef struct {
	InterfaceID GUID
	Std         StdObjRef
	ClassID     GUID
	Bindings    DualStringArray
}

// CustomObjRef is the OBJREF_CUSTOM form: an implementing class id plus
// opaque payloads whose meaning is private to that class.
//
// ObjectData extends to the end of the enclosing buffer; its length is not
// encoded. A custom reference embedded in a larger stream therefore needs an
// outer frame that bounds it, which is a property of the format itself.
type CustomObjRef struct {
	InterfaceID GUID
	ClassID     GUID
	// ExtensionData is the length-prefixed extension block. May be empty.
	ExtensionData []byte
	// ObjectData is everything after the extension block.
	ObjectData []byte
}

func (o *StandardObjRef) IID() GUID     { return o.InterfaceID }
func (o *HandlerObjRef) IID() GUID      { return o.InterfaceID }
func (o *CustomObjRef) IID() GUID       { return o.InterfaceID }
func (o *StandardObjRef) RefType() Type { return TypeStandard }
func (o *HandlerObjRef) RefType() Type  { return TypeHandler }
func (o *CustomObjRef) RefType() Type   { return TypeCustom }

// Parse decodes a marshaled OBJREF.
//
// The 16-byte minimum of magic, flags, and IID is validated here; body
// truncation inside a variant surfaces as an ErrUnexpectedEOF-wrapping error
// from the field that ran out of bytes. Errors never return a partially
// constructed reference.
func Parse(data []byte) (ObjRef, error) {
	r := newReader(data)

	magic, err := r.uint32("OBJREF signature")
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, fmt.Errorf("signature %#08x: %w", magic, ErrBadMagic)
	}

	flags, err := r.uint32("OBJREF flags")
	if err != nil {
		return nil, err
	}

	iid, err := r.guid("OBJREF IID")
	if err != nil {
		return nil, err
	}

	switch Type(flags) {
	case TypeStandard:
		return parseStandard(r, iid)
	case TypeHandler:
		return parseHandler(r, iid)
	case TypeCustom:
		return parseCustom(r, iid)
	default:
		return nil, fmt.Errorf("flags %#08x: %w", flags, ErrUnsupportedType)
	}
}

// Marshal serializes an OBJREF. Serialization of a well-typed reference has
// no failure modes and is deterministic: the same unmutated reference always
// yields byte-identical output.
func Marshal(ref ObjRef) []byte {
	var w writer
	w.uint32(Magic)
	w.uint32(uint32(ref.RefType()))
	w.guid(ref.IID())
	ref.encodeBody(&w)
	return w.buf
}

func parseStandard(r *reader, iid GUID) (*StandardObjRef, error) {
	std, err := parseStdObjRef(r)
	if err != nil {
		return nil, err
	}
	dsa, err := parseDualStringArray(r)
	if err != nil {
		return nil, err
	}
	return &StandardObjRef{InterfaceID: iid, Std: std, Bindings: *dsa}, nil
}

func parseHandler(r *reader, iid GUID) (*HandlerObjRef, error) {
	std, err := parseStdObjRef(r)
	if err != nil {
		return nil, err
	}
	clsid, err := r.guid("OBJREF_HANDLER CLSID")
	if err != nil {
		return nil, err
	}
	dsa, err := parseDualStringArray(r)
	if err != nil {
		return nil, err
	}
	return &HandlerObjRef{InterfaceID: iid, Std: std, ClassID: clsid, Bindings: *dsa}, nil
}

func parseCustom(r *reader, iid GUID) (*CustomObjRef, error) {
	clsid, err := r.guid("OBJREF_CUSTOM CLSID")
	if err != nil {
		return nil, err
	}
	extSize, err := r.uint32("OBJREF_CUSTOM extension size")
	if err != nil {
		return nil, err
	}
	// Reserved size field, ignored by every known unmarshaler.
	if _, err := r.uint32("OBJREF_CUSTOM reserved"); err != nil {
		return nil, err
	}
	ext := []byte{}
	if extSize > 0 {
		if ext, err = r.bytes(int(extSize), "OBJREF_CUSTOM extension data"); err != nil {
			return nil, err
		}
	}
	return &CustomObjRef{
		InterfaceID:   iid,
		ClassID:       clsid,
		ExtensionData: ext,
		ObjectData:    r.rest(),
	}, nil
}

func (o *StandardObjRef) encodeBody(w *writer) {
	o.Std.encode(w)
	o.Bindings.encode(w)
}

func (o *HandlerObjRef) encodeBody(w *writer) {
	o.Std.encode(w)
	w.guid(o.ClassID)
	o.Bindings.encode(w)
}

func (o *CustomObjRef) encodeBody(w *writer) {
	w.guid(o.ClassID)
	w.uint32(uint32(len(o.ExtensionData)))
	w.uint32(0)
	w.bytes(o.ExtensionData)
	w.bytes(o.ObjectData)
}
