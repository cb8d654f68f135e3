package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeKey(t *testing.T) {
	assert.Equal(t, "Nature:Mountains", CompositeKey("Nature", "Mountains"))
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "Nature", Query("Nature"))
	assert.Equal(t, "Mountains", Query("Nature:Mountains"))
	assert.Equal(t, "Black Holes", Query("Space:Black Holes"))
}

func TestSubcategories(t *testing.T) {
	subs := Subcategories("Seasons")
	assert.Equal(t, []string{"Spring", "Summer", "Autumn", "Winter"}, subs)

	assert.Nil(t, Subcategories("Unknown"))
}

func TestEntriesOrderAndCoverage(t *testing.T) {
	entries := Entries()

	wideCount := 0
	for _, main := range Wide {
		wideCount += len(main.Subcategories)
	}
	require.Len(t, entries, len(Narrow)+wideCount)

	// Narrow categories come first, in declared order, keyed by their name.
	for i, cat := range Narrow {
		assert.Equal(t, cat, entries[i].Key)
		assert.Equal(t, cat, entries[i].Query)
	}

	// Wide subcategories follow, composite-keyed, querying the subcategory.
	i := len(Narrow)
	for _, main := range Wide {
		for _, sub := range main.Subcategories {
			assert.Equal(t, CompositeKey(main.Name, sub), entries[i].Key)
			assert.Equal(t, sub, entries[i].Query)
			i++
		}
	}
}

func TestEntryKeysAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, entry := range Entries() {
		assert.False(t, seen[entry.Key], "duplicate key %s", entry.Key)
		seen[entry.Key] = true
	}
}

func TestNarrowNamesHaveNoSeparator(t *testing.T) {
	for _, cat := range Narrow {
		assert.False(t, strings.Contains(cat, KeySeparator), "category %s", cat)
	}
	for _, main := range Wide {
		assert.False(t, strings.Contains(main.Name, KeySeparator), "main category %s", main.Name)
		for _, sub := range main.Subcategories {
			assert.False(t, strings.Contains(sub, KeySeparator), "subcategory %s", sub)
		}
	}
}
