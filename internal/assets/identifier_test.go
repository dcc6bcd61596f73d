package assets

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var identifierShape = regexp.MustCompile(`^[A-Za-z0-9_-]+_\d{13}_[0-9a-z]{6}$`)

func TestGenerateIdentifierShape(t *testing.T) {
	id := GenerateIdentifier("holiday photo.JPG")
	assert.Regexp(t, identifierShape, id)
	assert.Contains(t, id, "holidayphoto_")
}

func TestGenerateIdentifierDistinctInSameMillisecond(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateIdentifier("same.png")
		assert.False(t, seen[id], "identifier collision: %s", id)
		seen[id] = true
	}
}

func TestGenerateIdentifierSanitizesHostileNames(t *testing.T) {
	id := GenerateIdentifier("../../etc/passwd; rm -rf.png")
	assert.Regexp(t, identifierShape, id)
	assert.NotContains(t, id, "/")
	assert.NotContains(t, id, ";")
	assert.NotContains(t, id, " ")
}

func TestGenerateIdentifierEmptyBaseFallsBack(t *testing.T) {
	id := GenerateIdentifier("日本語.png")
	assert.Regexp(t, identifierShape, id)
	assert.Contains(t, id, "asset_")
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, ".jpg", NormalizeExt("photo.JPG"))
	assert.Equal(t, ".png", NormalizeExt("a.b.png"))
	assert.Equal(t, "", NormalizeExt("noext"))
}
