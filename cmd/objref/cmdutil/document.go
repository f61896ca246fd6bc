package cmdutil

import (
	"encoding/hex"
	"fmt"

	"github.com/kodingen/oleviewdotnet/internal/protocol/dcom"
)

// Document is the YAML description of an object reference, the input of
// `objref encode` and the --yaml output of `objref decode`. Binary payloads
// are hex strings; GUIDs use the canonical hyphenated form.
type Document struct {
	Type string `yaml:"type"` // standard, handler, or custom
	IID  string `yaml:"iid"`

	// Std describes the STDOBJREF of standard and handler references.
	Std *StdDocument `yaml:"std,omitempty"`

	// ClassID is the handler or custom marshaling class.
	ClassID string `yaml:"clsid,omitempty"`

	StringBindings   []StringBindingDocument   `yaml:"string_bindings,omitempty"`
	SecurityBindings []SecurityBindingDocument `yaml:"security_bindings,omitempty"`

	// ExtensionData and ObjectData are the custom form payloads, hex.
	ExtensionData string `yaml:"extension_data,omitempty"`
	ObjectData    string `yaml:"object_data,omitempty"`
}

// StdDocument mirrors StdObjRef.
type StdDocument struct {
	Flags      uint32 `yaml:"flags"`
	PublicRefs uint32 `yaml:"public_refs"`
	OXID       uint64 `yaml:"oxid"`
	OID        uint64 `yaml:"oid"`
	IPID       string `yaml:"ipid"`
}

// StringBindingDocument mirrors StringBinding.
type StringBindingDocument struct {
	TowerProtocol uint16 `yaml:"tower_protocol"`
	Address       string `yaml:"address"`
}

// SecurityBindingDocument mirrors SecurityBinding.
type SecurityBindingDocument struct {
	AuthnService  uint16 `yaml:"authn_service"`
	PrincipalName string `yaml:"principal_name,omitempty"`
}

// Build converts the document into a marshalable reference.
func (d *Document) Build() (dcom.ObjRef, error) {
	iid, err := dcom.ParseGUID(d.IID)
	if err != nil {
		return nil, fmt.Errorf("iid: %w", err)
	}

	switch d.Type {
	case "standard":
		std, err := d.buildStd()
		if err != nil {
			return nil, err
		}
		return &dcom.StandardObjRef{
			InterfaceID: iid,
			Std:         std,
			Bindings:    d.buildBindings(),
		}, nil

	case "handler":
		std, err := d.buildStd()
		if err != nil {
			return nil, err
		}
		clsid, err := dcom.ParseGUID(d.ClassID)
		if err != nil {
			return nil, fmt.Errorf("clsid: %w", err)
		}
		return &dcom.HandlerObjRef{
			InterfaceID: iid,
			Std:         std,
			ClassID:     clsid,
			Bindings:    d.buildBindings(),
		}, nil

	case "custom":
		clsid, err := dcom.ParseGUID(d.ClassID)
		if err != nil {
			return nil, fmt.Errorf("clsid: %w", err)
		}
		ext, err := hexField("extension_data", d.ExtensionData)
		if err != nil {
			return nil, err
		}
		obj, err := hexField("object_data", d.ObjectData)
		if err != nil {
			return nil, err
		}
		return &dcom.CustomObjRef{
			InterfaceID:   iid,
			ClassID:       clsid,
			ExtensionData: ext,
			ObjectData:    obj,
		}, nil

	default:
		return nil, fmt.Errorf("unknown reference type %q", d.Type)
	}
}

func (d *Document) buildStd() (dcom.StdObjRef, error) {
	if d.Std == nil {
		return dcom.StdObjRef{}, fmt.Errorf("%s reference requires a std section", d.Type)
	}
	ipid, err := dcom.ParseGUID(d.Std.IPID)
	if err != nil {
		return dcom.StdObjRef{}, fmt.Errorf("std.ipid: %w", err)
	}
	return dcom.StdObjRef{
		Flags:      d.Std.Flags,
		PublicRefs: d.Std.PublicRefs,
		OXID:       d.Std.OXID,
		OID:        d.Std.OID,
		IPID:       ipid,
	}, nil
}

func (d *Document) buildBindings() dcom.DualStringArray {
	dsa := dcom.DualStringArray{
		StringBindings:   []dcom.StringBinding{},
		SecurityBindings: []dcom.SecurityBinding{},
	}
	for _, b := range d.StringBindings {
		dsa.StringBindings = append(dsa.StringBindings, dcom.StringBinding{
			TowerProtocol:  dcom.TowerProtocol(b.TowerProtocol),
			NetworkAddress: b.Address,
		})
	}
	for _, b := range d.SecurityBindings {
		dsa.SecurityBindings = append(dsa.SecurityBindings, dcom.SecurityBinding{
			AuthnService:  dcom.AuthnService(b.AuthnService),
			PrincipalName: b.PrincipalName,
		})
	}
	return dsa
}

func hexField(name, value string) ([]byte, error) {
	if value == "" {
		return []byte{}, nil
	}
	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return raw, nil
}

// FromRef converts a parsed reference back into its document form.
func FromRef(ref dcom.ObjRef) *Document {
	doc := &Document{IID: ref.IID().String()}

	switch o := ref.(type) {
	case *dcom.StandardObjRef:
		doc.Type = "standard"
		doc.Std = stdDoc(o.Std)
		doc.fillBindings(o.Bindings)
	case *dcom.HandlerObjRef:
		doc.Type = "handler"
		doc.Std = stdDoc(o.Std)
		doc.ClassID = o.ClassID.String()
		doc.fillBindings(o.Bindings)
	case *dcom.CustomObjRef:
		doc.Type = "custom"
		doc.ClassID = o.ClassID.String()
		doc.ExtensionData = hex.EncodeToString(o.ExtensionData)
		doc.ObjectData = hex.EncodeToString(o.ObjectData)
	}
	return doc
}

func stdDoc(s dcom.StdObjRef) *StdDocument {
	return &StdDocument{
		Flags:      s.Flags,
		PublicRefs: s.PublicRefs,
		OXID:       s.OXID,
		OID:        s.OID,
		IPID:       s.IPID.String(),
	}
}

func (d *Document) fillBindings(dsa dcom.DualStringArray) {
	for _, b := range dsa.StringBindings {
		d.StringBindings = append(d.StringBindings, StringBindingDocument{
			TowerProtocol: uint16(b.TowerProtocol),
			Address:       b.NetworkAddress,
		})
	}
	for _, b := range dsa.SecurityBindings {
		d.SecurityBindings = append(d.SecurityBindings, SecurityBindingDocument{
			AuthnService:  uint16(b.AuthnService),
			PrincipalName: b.PrincipalName,
		})
	}
}
