package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	r, ok := Lookup(Twitter)
	require.True(t, ok)
	assert.Equal(t, 280, r.MaxLength)
	assert.Equal(t, 3, r.HashtagLimit)
	assert.True(t, r.Formatting.EmojiRecommended)

	r, ok = Lookup(Instagram)
	require.True(t, ok)
	assert.Equal(t, 2200, r.MaxLength)
	assert.Equal(t, 30, r.HashtagLimit)

	r, ok = Lookup(Facebook)
	require.True(t, ok)
	assert.Equal(t, 63206, r.MaxLength)
	assert.Equal(t, 5, r.HashtagLimit)
	assert.False(t, r.Formatting.EmojiRecommended)
	assert.Len(t, r.ContentGuidelines, 4)

	_, ok = Lookup("myspace")
	assert.False(t, ok)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	r, _ := Lookup(Twitter)
	r.ContentGuidelines[0] = "changed"
	r.MaxLength = 1

	fresh, _ := Lookup(Twitter)
	assert.Equal(t, "Short and concise", fresh.ContentGuidelines[0])
	assert.Equal(t, 280, fresh.MaxLength)
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []ID{Twitter, Instagram, Facebook}, IDs())

	ids := IDs()
	ids[0] = "x"
	assert.Equal(t, Twitter, IDs()[0])
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 3)
	for i, id := range IDs() {
		assert.Equal(t, id, all[i].ID)
		assert.True(t, Known(id))
	}
	assert.False(t, Known("tiktok"))
}
