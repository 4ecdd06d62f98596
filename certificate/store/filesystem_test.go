package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFilesystemUpload(t *testing.T) {
	dir := t.TempDir()
	f, err := NewLocalFilesystem(LocalConfiguration{
		BasePath:  dir,
		PublicURL: "http://localhost:3000/certificates/",
	})
	require.NoError(t, err)

	url, err := f.Upload(context.Background(), "u1.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/certificates/u1.pdf", url)

	data, err := os.ReadFile(filepath.Join(dir, "u1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 test"), data)
}

func TestLocalFilesystemOverwrite(t *testing.T) {
	dir := t.TempDir()
	f, err := NewLocalFilesystem(LocalConfiguration{BasePath: dir, PublicURL: "http://localhost:3000"})
	require.NoError(t, err)

	first, err := f.Upload(context.Background(), "u1.pdf", "application/pdf", []byte("first"))
	require.NoError(t, err)
	second, err := f.Upload(context.Background(), "u1.pdf", "application/pdf", []byte("second"))
	require.NoError(t, err)

	assert.Equal(t, first, second, "the URL only depends on the key")
	data, err := os.ReadFile(filepath.Join(dir, "u1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestLocalFilesystemRejectsTraversal(t *testing.T) {
	f, err := NewLocalFilesystem(LocalConfiguration{BasePath: t.TempDir(), PublicURL: "http://localhost:3000"})
	require.NoError(t, err)

	_, err = f.Upload(context.Background(), "../u1.pdf", "application/pdf", []byte("x"))
	assert.Error(t, err)
}

func TestLocalFilesystemRequiresBasePath(t *testing.T) {
	_, err := NewLocalFilesystem(LocalConfiguration{})
	assert.Error(t, err)
}

func TestNewDriver(t *testing.T) {
	driver, err := NewDriver(Configuration{
		DriverType:         DriverTypeLocal,
		LocalConfiguration: &LocalConfiguration{BasePath: t.TempDir(), PublicURL: "http://localhost:3000"},
	})
	require.NoError(t, err)
	assert.NotNil(t, driver)

	_, err = NewDriver(Configuration{DriverType: DriverTypeAWSS3})
	assert.Error(t, err, "S3 driver without configuration")

	_, err = NewDriver(Configuration{DriverType: "Tape"})
	assert.Error(t, err)
}
