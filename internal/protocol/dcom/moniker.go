package dcom

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	monikerPrefix = "objref:"
	monikerSuffix = ":"
)

// Moniker formats a reference as an OBJREF moniker display name,
// "objref:<base64>:", the textual envelope CoGetObject accepts.
func Moniker(ref ObjRef) string {
	return monikerPrefix + base64.StdEncoding.EncodeToString(Marshal(ref)) + monikerSuffix
}

// ParseMoniker strips the objref moniker envelope and parses the embedded
// OBJREF.
func ParseMoniker(s string) (ObjRef, error) {
	body, ok := strings.CutPrefix(s, monikerPrefix)
	if !ok {
		return nil, fmt.Errorf("missing %q prefix", monikerPrefix)
	}
	body, ok = strings.CutSuffix(body, monikerSuffix)
	if !ok {
		return nil, fmt.Errorf("missing %q terminator", monikerSuffix)
	}
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("decode moniker payload: %w", err)
	}
	return Parse(raw)
}
