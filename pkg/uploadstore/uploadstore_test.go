package uploadstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSave(t *testing.T) {
	t.Parallel()

	store, err := New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	url, err := store.Save([]byte("image bytes"), ".jpg")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, URLPrefix+"/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	name := strings.TrimPrefix(url, URLPrefix+"/")
	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), data)
}

func TestStoreSave_UniqueNames(t *testing.T) {
	t.Parallel()

	store, err := New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	first, err := store.Save([]byte("a"), ".jpg")
	require.NoError(t, err)
	second, err := store.Save([]byte("b"), ".jpg")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
