package dcom

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Fixtures
// ============================================================================

var (
	testIID   = MustParseGUID("00000000-0000-0000-c000-000000000046") // IID_IUnknown
	testIPID  = MustParseGUID("deadbeef-1234-5678-9abc-def012345678")
	testCLSID = MustParseGUID("0000031a-0000-0000-c000-000000000046")
)

func sampleStandard() *StandardObjRef {
	return &StandardObjRef{
		InterfaceID: testIID,
		Std: StdObjRef{
			Flags:      SORFNoPing,
			PublicRefs: 5,
			OXID:       0x1122334455667788,
			OID:        0x8877665544332211,
			IPID:       testIPID,
		},
		Bindings: DualStringArray{
			StringBindings: []StringBinding{
				{TowerProtocol: TowerTCP, NetworkAddress: "192.168.1.10"},
				{TowerProtocol: TowerNamedPipe, NetworkAddress: `\\HOST\pipe\epmapper`},
			},
			SecurityBindings: []SecurityBinding{
				{AuthnService: AuthnWinNT, PrincipalName: "DOMAIN\\svc"},
			},
		},
	}
}

// ============================================================================
// Header Validation
// ============================================================================

func TestParseHeader(t *testing.T) {
	t.Run("RejectsBadMagic", func(t *testing.T) {
		data := Marshal(sampleStandard())
		data[0] ^= 0xFF

		_, err := Parse(data)
		require.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("RejectsBadMagicRegardlessOfBody", func(t *testing.T) {
		data := make([]byte, 128)
		binary.LittleEndian.PutUint32(data, 0x12345678)

		_, err := Parse(data)
		require.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("RejectsUnsupportedTypes", func(t *testing.T) {
		for _, flags := range []uint32{0, 3, 5, 8, 0xFFFFFFFF} {
			data := Marshal(sampleStandard())
			binary.LittleEndian.PutUint32(data[4:], flags)

			_, err := Parse(data)
			assert.ErrorIs(t, err, ErrUnsupportedType, "flags %#x", flags)
		}
	})

	t.Run("RejectsTruncatedHeader", func(t *testing.T) {
		data := Marshal(sampleStandard())
		for _, n := range []int{0, 3, 4, 7, 8, 23} {
			_, err := Parse(data[:n])
			assert.ErrorIs(t, err, ErrUnexpectedEOF, "length %d", n)
		}
	})

	t.Run("StartsWithMEOW", func(t *testing.T) {
		data := Marshal(sampleStandard())
		assert.Equal(t, []byte{'M', 'E', 'O', 'W'}, data[:4])
	})
}

// ============================================================================
// Round Trips
// ============================================================================

func TestRoundTripStandard(t *testing.T) {
	original := sampleStandard()

	parsed, err := Parse(Marshal(original))
	require.NoError(t, err)

	std, ok := parsed.(*StandardObjRef)
	require.True(t, ok, "expected *StandardObjRef, got %T", parsed)
	assert.Equal(t, original, std)
	assert.Equal(t, TypeStandard, parsed.RefType())
	assert.Equal(t, testIID, parsed.IID())
	assert.True(t, std.Std.NoPing())
}

func TestRoundTripHandler(t *testing.T) {
	original := &HandlerObjRef{
		InterfaceID: testIID,
		Std: StdObjRef{
			PublicRefs: 1,
			OXID:       42,
			OID:        43,
			IPID:       testIPID,
		},
		ClassID: testCLSID,
		Bindings: DualStringArray{
			StringBindings:   []StringBinding{{TowerProtocol: TowerTCP, NetworkAddress: "10.0.0.2"}},
			SecurityBindings: []SecurityBinding{},
		},
	}

	parsed, err := Parse(Marshal(original))
	require.NoError(t, err)

	handler, ok := parsed.(*HandlerObjRef)
	require.True(t, ok, "expected *HandlerObjRef, got %T", parsed)
	assert.Equal(t, original, handler)
	assert.Equal(t, TypeHandler, parsed.RefType())
}

func TestRoundTripCustom(t *testing.T) {
	t.Run("WithExtensionData", func(t *testing.T) {
		original := &CustomObjRef{
			InterfaceID:   testIID,
			ClassID:       testCLSID,
			ExtensionData: []byte{0x01, 0x02, 0x03},
			ObjectData:    []byte("opaque class payload"),
		}

		parsed, err := Parse(Marshal(original))
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("EmptyExtensionOmitsBytesButKeepsLengthField", func(t *testing.T) {
		original := &CustomObjRef{
			InterfaceID:   testIID,
			ClassID:       testCLSID,
			ExtensionData: []byte{},
			ObjectData:    []byte{0xAA, 0xBB},
		}

		data := Marshal(original)
		// magic + flags + IID + CLSID + ext size + reserved + object data
		assert.Len(t, data, 4+4+16+16+4+4+2)

		parsed, err := Parse(data)
		require.NoError(t, err)
		custom := parsed.(*CustomObjRef)
		assert.Empty(t, custom.ExtensionData)
		assert.Equal(t, []byte{0xAA, 0xBB}, custom.ObjectData)
	})

	t.Run("EmptyObjectData", func(t *testing.T) {
		original := &CustomObjRef{
			InterfaceID:   testIID,
			ClassID:       testCLSID,
			ExtensionData: []byte{},
			ObjectData:    []byte{},
		}

		parsed, err := Parse(Marshal(original))
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})
}

func TestMarshalDeterministic(t *testing.T) {
	ref := sampleStandard()
	assert.Equal(t, Marshal(ref), Marshal(ref))
}

// ============================================================================
// Known Wire Layout
// ============================================================================

// TestStandardWireLayout pins the exact byte count of a known reference:
// one TCP string binding to "10.0.0.1" and no security bindings.
//
//	4  magic
//	4  flags
//	16 IID
//	40 STDOBJREF
//	4  DUALSTRINGARRAY header
//	24 word buffer: tower(1) + address incl NUL(9) + sentinel(1) + sentinel(1)
func TestStandardWireLayout(t *testing.T) {
	ref := &StandardObjRef{
		InterfaceID: testIID,
		Std: StdObjRef{
			PublicRefs: 1,
			OXID:       1,
			OID:        2,
			IPID:       testIPID,
		},
		Bindings: DualStringArray{
			StringBindings:   []StringBinding{{TowerProtocol: TowerTCP, NetworkAddress: "10.0.0.1"}},
			SecurityBindings: []SecurityBinding{},
		},
	}

	data := Marshal(ref)
	require.Len(t, data, 92)

	// DUALSTRINGARRAY header sits right after the 40-byte STDOBJREF.
	dsaOff := 4 + 4 + 16 + 40
	assert.Equal(t, uint16(12), binary.LittleEndian.Uint16(data[dsaOff:]), "total words")
	assert.Equal(t, uint16(11), binary.LittleEndian.Uint16(data[dsaOff+2:]), "security offset words")

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, ref, parsed)
}

func TestTruncatedBodyPropagatesEOF(t *testing.T) {
	data := Marshal(sampleStandard())
	for n := 24; n < len(data); n += 7 {
		_, err := Parse(data[:n])
		assert.ErrorIs(t, err, ErrUnexpectedEOF, "length %d", n)
	}
}
