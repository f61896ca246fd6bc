// Package cmdutil holds the testable plumbing behind the objref commands:
// input sniffing and the YAML reference description format.
package cmdutil

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/kodingen/oleviewdotnet/internal/protocol/dcom"
)

// Input formats accepted by the decode commands.
const (
	FormatAuto    = "auto"
	FormatHex     = "hex"
	FormatBase64  = "base64"
	FormatMoniker = "moniker"
	FormatRaw     = "raw"
)

// DecodeInput parses a reference from textual or raw input.
//
// With FormatAuto the envelope is sniffed: an "objref:" prefix selects the
// moniker form, a valid hex string selects hex, then base64, and finally the
// bytes are tried as a raw OBJREF.
func DecodeInput(data []byte, format string) (dcom.ObjRef, error) {
	switch format {
	case FormatRaw:
		return dcom.Parse(data)
	case FormatHex:
		raw, err := hex.DecodeString(trim(data))
		if err != nil {
			return nil, fmt.Errorf("decode hex input: %w", err)
		}
		return dcom.Parse(raw)
	case FormatBase64:
		raw, err := base64.StdEncoding.DecodeString(trim(data))
		if err != nil {
			return nil, fmt.Errorf("decode base64 input: %w", err)
		}
		return dcom.Parse(raw)
	case FormatMoniker:
		return dcom.ParseMoniker(trim(data))
	case FormatAuto:
		return sniff(data)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

func sniff(data []byte) (dcom.ObjRef, error) {
	text := trim(data)
	if strings.HasPrefix(text, "objref:") {
		return dcom.ParseMoniker(text)
	}
	if raw, err := hex.DecodeString(text); err == nil {
		if ref, err := dcom.Parse(raw); err == nil {
			return ref, nil
		}
	}
	if raw, err := base64.StdEncoding.DecodeString(text); err == nil {
		if ref, err := dcom.Parse(raw); err == nil {
			return ref, nil
		}
	}
	return dcom.Parse(data)
}

// EncodeOutput renders a reference in the requested encoding. The raw
// encoding returns the marshaled bytes unmodified; the others return text.
func EncodeOutput(ref dcom.ObjRef, encoding string) ([]byte, error) {
	switch encoding {
	case FormatRaw:
		return dcom.Marshal(ref), nil
	case FormatHex:
		return []byte(hex.EncodeToString(dcom.Marshal(ref))), nil
	case FormatBase64:
		return []byte(base64.StdEncoding.EncodeToString(dcom.Marshal(ref))), nil
	case FormatMoniker:
		return []byte(dcom.Moniker(ref)), nil
	default:
		return nil, fmt.Errorf("unknown output encoding %q", encoding)
	}
}

func trim(data []byte) string {
	return strings.TrimSpace(string(data))
}
