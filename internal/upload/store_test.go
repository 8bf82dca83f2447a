package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	return file, header
}

func TestStore_Save(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	file, header := multipartFile(t, "registre-commerce.pdf", "pdf bytes")
	defer file.Close()

	storedName, err := store.Save(file, header)
	require.NoError(t, err)
	assert.NotEqual(t, "registre-commerce.pdf", storedName)
	assert.True(t, strings.HasSuffix(storedName, ".pdf"))

	data, err := os.ReadFile(store.Path(storedName))
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

func TestStore_Save_DistinctNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	file1, header1 := multipartFile(t, "scan.png", "first")
	defer file1.Close()
	file2, header2 := multipartFile(t, "scan.png", "second")
	defer file2.Close()

	name1, err := store.Save(file1, header1)
	require.NoError(t, err)
	name2, err := store.Save(file2, header2)
	require.NoError(t, err)

	assert.NotEqual(t, name1, name2)
}

func TestStore_Remove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	file, header := multipartFile(t, "receipt.jpg", "jpg bytes")
	defer file.Close()

	storedName, err := store.Save(file, header)
	require.NoError(t, err)

	require.NoError(t, store.Remove(storedName))
	_, err = os.Stat(store.Path(storedName))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Remove(storedName))
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
