package blender

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRenderWritesImage(t *testing.T) {
	dir := t.TempDir()
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

	result, err := json.Marshal(map[string]any{
		"image_data": base64.StdEncoding.EncodeToString(png),
	})
	require.NoError(t, err)

	path, err := SaveRender(result, dir)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, png, data)
}

func TestSaveRenderNoImageData(t *testing.T) {
	path, err := SaveRender(json.RawMessage(`{"resolution_x": 800}`), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestSaveRenderBadBase64(t *testing.T) {
	_, err := SaveRender(json.RawMessage(`{"image_data": "%%%not-base64%%%"}`), t.TempDir())
	require.Error(t, err)
}
