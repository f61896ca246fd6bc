package dcom

// =============================================================================
// STDOBJREF [MS-DCOM] 2.2.18.2
// =============================================================================

// SORFNoPing indicates the object does not participate in the DCOM pinging
// protocol. It is the only flag bit with defined meaning; all other bits are
// reserved and round-trip through this codec unchanged.
const SORFNoPing uint32 = 0x00001000

// StdObjRef is the fixed-layout remote object identity shared by the
// standard and handler OBJREF forms:
//
//	Offset  Size  Field
//	0       4     flags (SORF_*)
//	4       4     cPublicRefs
//	8       8     OXID (object exporter id)
//	16      8     OID (object id within the exporter)
//	24      16    IPID (interface pointer id)
type StdObjRef struct {
	// Flags holds the SORF_* bits. Reserved bits are preserved opaquely.
	Flags uint32
	// PublicRefs is the reference count hint transferred with the
	// marshaled reference. Advisory only, never enforced here.
	PublicRefs uint32
	// OXID identifies the object exporter, the process/apartment context
	// hosting the object.
	OXID uint64
	// OID identifies the object within its exporter.
	OID uint64
	// IPID identifies the specific interface pointer on the object.
	IPID GUID
}

// NoPing reports whether the SORF_NOPING bit is set.
func (s *StdObjRef) NoPing() bool {
	return s.Flags&SORFNoPing != 0
}

func parseStdObjRef(r *reader) (StdObjRef, error) {
	var s StdObjRef
	var err error
	if s.Flags, err = r.uint32("STDOBJREF flags"); err != nil {
		return s, err
	}
	if s.PublicRefs, err = r.uint32("STDOBJREF public refs"); err != nil {
		return s, err
	}
	if s.OXID, err = r.uint64("STDOBJREF OXID"); err != nil {
		return s, err
	}
	if s.OID, err = r.uint64("STDOBJREF OID"); err != nil {
		return s, err
	}
	if s.IPID, err = r.guid("STDOBJREF IPID"); err != nil {
		return s, err
	}
	return s, nil
}

func (s *StdObjRef) encode(w *writer) {
	w.uint32(s.Flags)
	w.uint32(s.PublicRefs)
	w.uint64(s.OXID)
	w.uint64(s.OID)
	w.guid(s.IPID)
}
