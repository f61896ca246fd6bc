package dcom

import "fmt"

// DualStringArray is the DUALSTRINGARRAY structure of [MS-DCOM] 2.2.19.1:
// the set of RPC endpoints and security options through which a marshaled
// object can be reached.
//
// On the wire the two sequences are stored back to back inside a single
// buffer measured in 16-bit words, preceded by the total word count and the
// word offset at which the security sequence begins. Each sequence carries
// its own zero sentinel, so an empty sequence still occupies one word.
type DualStringArray struct {
	StringBindings   []StringBinding
	SecurityBindings []SecurityBinding
}

// parseDualStringArray reads a DUALSTRINGARRAY.
//
// The security offset in the header is authoritative: the security sequence
// is parsed from securityOffset*2 bytes into the word buffer regardless of
// where the string binding sentinel was found. A buffer with padding between
// the two regions still parses correctly as long as the offset is honest.
func parseDualStringArray(r *reader) (*DualStringArray, error) {
	totalWords, err := r.uint16("dual string array length")
	if err != nil {
		return nil, err
	}
	securityOffset, err := r.uint16("dual string array security offset")
	if err != nil {
		return nil, err
	}

	dsa := &DualStringArray{
		StringBindings:   []StringBinding{},
		SecurityBindings: []SecurityBinding{},
	}

	// A zero-length array carries no word buffer at all, not even sentinels.
	if totalWords == 0 {
		return dsa, nil
	}

	words, err := r.bytes(int(totalWords)*2, "dual string array body")
	if err != nil {
		return nil, err
	}
	if int(securityOffset)*2 > len(words) {
		return nil, fmt.Errorf("security offset %d words beyond %d-word buffer: %w",
			securityOffset, totalWords, ErrUnexpectedEOF)
	}

	dsa.StringBindings, err = parseStringBindings(newReader(words))
	if err != nil {
		return nil, err
	}

	dsa.SecurityBindings, err = parseSecurityBindings(newReader(words[securityOffset*2:]))
	if err != nil {
		return nil, err
	}
	return dsa, nil
}

// encode serializes the array.
//
// Two-pass: the string binding region is built first so its word length is
// known, because that length is the security offset and must be emitted in
// the header before any binding data.
func (d *DualStringArray) encode(w *writer) {
	var body writer
	for _, b := range d.StringBindings {
		b.encode(&body)
	}
	body.uint16(0) // string binding sentinel

	securityOffset := body.len() / 2

	for _, b := range d.SecurityBindings {
		b.encode(&body)
	}
	body.uint16(0) // security binding sentinel

	w.uint16(uint16(body.len() / 2))
	w.uint16(uint16(securityOffset))
	w.bytes(body.buf)
}
