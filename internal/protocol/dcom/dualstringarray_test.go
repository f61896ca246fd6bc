package dcom

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeDSA(d *DualStringArray) []byte {
	var w writer
	d.encode(&w)
	return w.buf
}

func TestDualStringArrayRoundTrip(t *testing.T) {
	t.Run("BothSequencesPopulated", func(t *testing.T) {
		original := &DualStringArray{
			StringBindings: []StringBinding{
				{TowerProtocol: TowerTCP, NetworkAddress: "10.0.0.1"},
				{TowerProtocol: TowerUDP, NetworkAddress: "fe80::1"},
				{TowerProtocol: TowerLRPC, NetworkAddress: "OLE_ENDPOINT_1"},
			},
			SecurityBindings: []SecurityBinding{
				{AuthnService: AuthnWinNT, PrincipalName: ""},
				{AuthnService: AuthnGSSKerb, PrincipalName: "host/server.example.com"},
			},
		}

		parsed, err := parseDualStringArray(newReader(encodeDSA(original)))
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("EmptySequencesStillCarrySentinels", func(t *testing.T) {
		original := &DualStringArray{
			StringBindings:   []StringBinding{},
			SecurityBindings: []SecurityBinding{},
		}

		data := encodeDSA(original)
		// Header plus one sentinel word per sequence.
		require.Len(t, data, 8)
		assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[0:]))
		assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[2:]))

		parsed, err := parseDualStringArray(newReader(data))
		require.NoError(t, err)
		assert.Empty(t, parsed.StringBindings)
		assert.Empty(t, parsed.SecurityBindings)
	})

	t.Run("ZeroLengthShortFormConsumesOnlyHeader", func(t *testing.T) {
		trailer := []byte{0xDE, 0xAD}
		data := append([]byte{0, 0, 0, 0}, trailer...)

		r := newReader(data)
		parsed, err := parseDualStringArray(r)
		require.NoError(t, err)
		assert.Empty(t, parsed.StringBindings)
		assert.Empty(t, parsed.SecurityBindings)
		assert.Equal(t, trailer, r.rest(), "short form must leave trailing bytes untouched")
	})

	t.Run("UnicodeAddressesSurvive", func(t *testing.T) {
		original := &DualStringArray{
			StringBindings:   []StringBinding{{TowerProtocol: TowerTCP, NetworkAddress: "möbius.example"}},
			SecurityBindings: []SecurityBinding{},
		}

		parsed, err := parseDualStringArray(newReader(encodeDSA(original)))
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})
}

// TestSentinelExclusion verifies that N entries serialize to N+1 on-wire
// records per sequence and parse back to exactly N: sentinels never leak
// into the result.
func TestSentinelExclusion(t *testing.T) {
	original := &DualStringArray{
		StringBindings: []StringBinding{
			{TowerProtocol: TowerTCP, NetworkAddress: "a"},
			{TowerProtocol: TowerTCP, NetworkAddress: "b"},
		},
		SecurityBindings: []SecurityBinding{
			{AuthnService: AuthnWinNT, PrincipalName: "p"},
		},
	}

	data := encodeDSA(original)

	// Each string binding is tower(1) + address incl NUL(2) = 3 words, plus
	// one sentinel word. Security binding is svc(1) + reserved(1) +
	// principal incl NUL(2) = 4 words, plus one sentinel word.
	assert.Equal(t, uint16(3+3+1+4+1), binary.LittleEndian.Uint16(data[0:]), "total words")
	assert.Equal(t, uint16(3+3+1), binary.LittleEndian.Uint16(data[2:]), "security offset")

	parsed, err := parseDualStringArray(newReader(data))
	require.NoError(t, err)
	assert.Len(t, parsed.StringBindings, 2)
	assert.Len(t, parsed.SecurityBindings, 1)
}

// TestSecurityOffsetIsLoadBearing corrupts the security offset by one word
// in each direction and verifies the security sequence no longer parses to
// the original entries, demonstrating that parsing honors the offset rather
// than the position where the string binding sentinel was found.
func TestSecurityOffsetIsLoadBearing(t *testing.T) {
	original := &DualStringArray{
		StringBindings:   []StringBinding{{TowerProtocol: TowerTCP, NetworkAddress: "A"}},
		SecurityBindings: []SecurityBinding{{AuthnService: AuthnWinNT, PrincipalName: "p"}},
	}
	data := encodeDSA(original)
	offset := binary.LittleEndian.Uint16(data[2:])

	t.Run("OffsetTooLarge", func(t *testing.T) {
		corrupted := append([]byte{}, data...)
		binary.LittleEndian.PutUint16(corrupted[2:], offset+1)

		parsed, err := parseDualStringArray(newReader(corrupted))
		if err == nil {
			assert.NotEqual(t, original.SecurityBindings, parsed.SecurityBindings)
		}
	})

	t.Run("OffsetTooSmall", func(t *testing.T) {
		corrupted := append([]byte{}, data...)
		binary.LittleEndian.PutUint16(corrupted[2:], offset-1)

		parsed, err := parseDualStringArray(newReader(corrupted))
		if err == nil {
			assert.NotEqual(t, original.SecurityBindings, parsed.SecurityBindings)
		}
	})

	t.Run("OffsetBeyondBuffer", func(t *testing.T) {
		corrupted := append([]byte{}, data...)
		totalWords := binary.LittleEndian.Uint16(corrupted[0:])
		binary.LittleEndian.PutUint16(corrupted[2:], totalWords+1)

		_, err := parseDualStringArray(newReader(corrupted))
		require.ErrorIs(t, err, ErrUnexpectedEOF)
	})
}

func TestSecurityBindingReservedWord(t *testing.T) {
	data := encodeDSA(&DualStringArray{
		StringBindings:   []StringBinding{},
		SecurityBindings: []SecurityBinding{{AuthnService: AuthnWinNT, PrincipalName: ""}},
	})

	// Word buffer: string sentinel(1), then svc(1), reserved(1), NUL(1),
	// security sentinel(1). The reserved word must be exactly 0xFFFF.
	require.Equal(t, uint16(5), binary.LittleEndian.Uint16(data[0:]))
	reserved := binary.LittleEndian.Uint16(data[4+2*2:])
	assert.Equal(t, uint16(0xFFFF), reserved)
}

func TestUnterminatedStringFailsBounded(t *testing.T) {
	// Tower id plus two address characters, no NUL anywhere before the
	// declared end of the word buffer.
	var w writer
	w.uint16(3) // total words
	w.uint16(3) // security offset (irrelevant, string parse fails first)
	w.uint16(uint16(TowerTCP))
	w.uint16('a')
	w.uint16('b')

	_, err := parseDualStringArray(newReader(w.buf))
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}
