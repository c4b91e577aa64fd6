package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantinhub/kantin-backend/pkg/config"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
)

func newMediaFixture(t *testing.T) (Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "uploads")
	require.NoError(t, err)
	svc, err := NewService(store, config.UploadsConfig{
		Dir:         dir,
		PublicBase:  "uploads",
		MaxUploadMB: 1,
	})
	require.NoError(t, err)
	return svc, dir
}

func TestUploadPhoto(t *testing.T) {
	svc, dir := newMediaFixture(t)

	res, err := svc.UploadPhoto(context.Background(), enums.UserRoleMitra, UploadInput{
		Filename:    "nasi goreng.JPG",
		ContentType: "image/jpeg",
		Size:        1024,
		Body:        strings.NewReader(strings.Repeat("x", 1024)),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(res.URL, ".jpg"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// Stored name is a generated uuid, not the client filename.
	assert.NotContains(t, entries[0].Name(), "nasi")

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Len(t, content, 1024)
}

func TestUploadPhotoRejectsNonImages(t *testing.T) {
	svc, _ := newMediaFixture(t)

	_, err := svc.UploadPhoto(context.Background(), enums.UserRolePengurus, UploadInput{
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        128,
		Body:        strings.NewReader(strings.Repeat("x", 128)),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUploadPhotoSizeCap(t *testing.T) {
	svc, _ := newMediaFixture(t)

	_, err := svc.UploadPhoto(context.Background(), enums.UserRoleMitra, UploadInput{
		Filename:    "big.png",
		ContentType: "image/png",
		Size:        2 * 1024 * 1024,
		Body:        strings.NewReader("irrelevant"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.UploadPhoto(context.Background(), enums.UserRoleMitra, UploadInput{
		Filename:    "empty.png",
		ContentType: "image/png",
		Size:        0,
		Body:        strings.NewReader(""),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUploadPhotoRoleGate(t *testing.T) {
	svc, _ := newMediaFixture(t)

	for _, role := range []enums.UserRole{enums.UserRoleKasir, enums.UserRoleUser} {
		_, err := svc.UploadPhoto(context.Background(), role, UploadInput{
			Filename:    "a.png",
			ContentType: "image/png",
			Size:        10,
			Body:        strings.NewReader("0123456789"),
		})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
	}
}
