package dcom

// ProcessInfo is advisory metadata about the process and apartment hosting a
// marshaled interface pointer. It is derived for display purposes only and
// plays no role in parsing or serialization.
type ProcessInfo struct {
	ProcessID   uint32
	ProcessName string
	ApartmentID uint32
	// ApartmentName is a human-readable apartment label, such as "MTA" or
	// "STA (thread 4242)".
	ApartmentName string
}

// Resolver maps an interface pointer identifier to the process and apartment
// hosting it. Implementations may consult live process tables and can be
// slow; callers must treat a lookup as a possibly blocking call.
//
// A failed resolution (process gone, resolver unavailable) reports ok=false
// and is never an error: the metadata is display-only and its absence must
// not abort handling of the surrounding reference.
type Resolver interface {
	ResolveInterfacePointer(ipid GUID) (info ProcessInfo, ok bool)
}

// ResolveProcess derives host process metadata for the reference via res.
// Only standard and handler references carry an interface pointer id; for
// custom references, or when res is nil, the result is absent.
func ResolveProcess(ref ObjRef, res Resolver) (ProcessInfo, bool) {
	if res == nil {
		return ProcessInfo{}, false
	}
	switch o := ref.(type) {
	case *StandardObjRef:
		return res.ResolveInterfacePointer(o.Std.IPID)
	case *HandlerObjRef:
		return res.ResolveInterfacePointer(o.Std.IPID)
	default:
		return ProcessInfo{}, false
	}
}
