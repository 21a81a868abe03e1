package evidence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocate_SnapsToEnclosingSentence(t *testing.T) {
	text := "Bad intro. I believe education matters. Good close."

	excerpt, ok := Locate(text, "believe")

	assert.True(t, ok)
	assert.Equal(t, "I believe education matters.", excerpt)
}

func TestLocate_CaseInsensitive(t *testing.T) {
	text := "Some say otherwise. HOWEVER, the data is clear! Next point."

	excerpt, ok := Locate(text, "however")

	assert.True(t, ok)
	assert.Equal(t, "HOWEVER, the data is clear!", excerpt)
}

func TestLocate_NotFound(t *testing.T) {
	excerpt, ok := Locate("Education matters.", "climate")
	assert.False(t, ok)
	assert.Empty(t, excerpt)
}

func TestLocate_EmptyMarker(t *testing.T) {
	_, ok := Locate("Education matters.", "")
	assert.False(t, ok)
}

func TestLocate_FirstOccurrenceOnly(t *testing.T) {
	text := "Schools teach skills. Schools also build character."

	excerpt, ok := Locate(text, "schools")

	assert.True(t, ok)
	assert.Equal(t, "Schools teach skills.", excerpt)
}

func TestLocate_LongSentenceWalksOutward(t *testing.T) {
	text := "Intro. In many countries around the world the government funds public universities " +
		"so that students from every background can attend without debt. Outro."

	excerpt, ok := Locate(text, "students")

	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(excerpt, "In many countries"))
	assert.True(t, strings.HasSuffix(excerpt, "without debt."))
}

func TestLocate_NewlineIsBoundary(t *testing.T) {
	text := "Heading line\nTechnology changes how we learn\nAnother line"

	excerpt, ok := Locate(text, "technology")

	assert.True(t, ok)
	assert.Equal(t, "Technology changes how we learn", excerpt)
}

func TestLocate_NoTrailingBoundary(t *testing.T) {
	excerpt, ok := Locate("First. Then the final words", "final")
	assert.True(t, ok)
	assert.Equal(t, "Then the final words", excerpt)
}

func TestLocate_NeverCrossesBoundary(t *testing.T) {
	text := "One. Two words here! Three? Four\nFive."
	for _, marker := range []string{"one", "two", "here", "three", "four", "five"} {
		excerpt, ok := Locate(text, marker)
		if !assert.True(t, ok, marker) {
			continue
		}
		assert.True(t, strings.Contains(text, excerpt), marker)
		assert.True(t, Contains(excerpt, marker), marker)
		inner := excerpt[:len(excerpt)-1]
		assert.False(t, strings.ContainsAny(inner, ".!?\n"), "excerpt %q crosses a boundary", excerpt)
	}
}

func TestLocate_Idempotent(t *testing.T) {
	text := "Bad intro. I believe education matters. Good close."

	first, ok1 := Locate(text, "education")
	second, ok2 := Locate(text, "education")

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestQuote(t *testing.T) {
	quoted, ok := Quote("Bad intro. I believe education matters. Good close.", "believe")
	assert.True(t, ok)
	assert.Equal(t, `"I believe education matters."`, quoted)

	_, ok = Quote("Nothing here.", "absent")
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("Discuss the Challenges of education", "challenges"))
	assert.False(t, Contains("Discuss education", "challenges"))
	assert.False(t, Contains("Discuss education", ""))
}
