package images

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "/media/")
	file := &File{Name: "picture.png", Content: []byte("content"), ContentType: "image/png"}

	name, err := store.Save(file)
	require.NoError(t, err)
	assert.Equal(t, "recipes/picture.png", name)
	assert.Equal(t, "/media/recipes/picture.png", store.URL(name))

	saved, err := os.ReadFile(filepath.Join(dir, "recipes", "picture.png"))
	require.NoError(t, err)
	assert.Equal(t, file.Content, saved)

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(dir, "recipes", "picture.png"))
	assert.True(t, os.IsNotExist(err))

	//重複刪除不視為錯誤
	assert.NoError(t, store.Remove(name))
}

func TestStoreURLEmpty(t *testing.T) {
	assert.Equal(t, "", NewStore(t.TempDir(), "/media/").URL(""))
}
