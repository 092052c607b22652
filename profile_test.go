package scnp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilesUniqueAndNonZero(t *testing.T) {
	seen := map[uint16]bool{}
	for _, p := range Profiles() {
		assert.NotZero(t, p.ProductID, p.Name)
		assert.False(t, seen[p.ProductID], "duplicate product id 0x%04x", p.ProductID)
		seen[p.ProductID] = true
		assert.Equal(t, MaxSources, p.NumSources(), p.Name)
	}
	assert.Len(t, seen, 3)
}

func TestLookupProfile(t *testing.T) {
	p, ok := LookupProfile(IDProductNotepad12FX)
	require.True(t, ok)
	assert.Equal(t, "NOTEPAD-12FX", p.Name)
	assert.True(t, p.HasDucker)
	assert.Equal(t, "LINE 7+8", p.Sources[2])

	p, ok = LookupProfile(IDProductNotepad5)
	require.True(t, ok)
	assert.False(t, p.HasDucker)

	_, ok = LookupProfile(0)
	assert.False(t, ok)
	_, ok = LookupProfile(0x9999)
	assert.False(t, ok)
}

func TestProfilesReturnsCopy(t *testing.T) {
	list := Profiles()
	list[0].Name = "changed"
	p, _ := LookupProfile(list[0].ProductID)
	assert.NotEqual(t, "changed", p.Name)
}
