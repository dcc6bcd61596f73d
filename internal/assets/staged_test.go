package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageMultipart(t *testing.T) {
	scratch := t.TempDir()
	fh := makeFileHeader(t, "pic one.JPG", "image/jpeg", []byte("jpeg content"))

	staged, err := StageMultipart(fh, scratch)
	require.NoError(t, err)

	assert.FileExists(t, staged.Path)
	assert.Equal(t, int64(len("jpeg content")), staged.Size)
	assert.Equal(t, "image/jpeg", staged.ContentType)
	assert.Equal(t, ".jpg", staged.Ext)
	assert.Equal(t, "pic one.JPG", staged.OriginalName)
	assert.Regexp(t, identifierShape, staged.Identifier)

	staged.Discard()
	assert.NoFileExists(t, staged.Path)
	// repeated discard is a no-op
	staged.Discard()
}
