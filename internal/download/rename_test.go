package download

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "movie.mkv", "movie.mkv", false},
		{"spaces kept", "My Movie (2020).mkv", "My Movie _2020_.mkv", false},
		{"trimmed", "  movie.mkv  ", "movie.mkv", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"traversal", "../../etc/passwd", "", true},
		{"absolute path", "/etc/passwd", "", true},
		{"nested path", "sub/movie.mkv", "", true},
		{"windows path", `..\..\boot.ini`, "", true},
		{"dot dot only", "..", "", true},
		{"hidden traversal", "a..b.mkv", "", true},
		{"shell chars", "movie;rm -rf.mkv", "movie_rm -rf.mkv", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeFilename(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilename)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyCustomFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "original.mkv")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	final, err := applyCustomFilename(path, "My Movie")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "My Movie.mkv"), final, "extension carried over from the download")

	_, err = os.Stat(final)
	assert.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "original file is gone after the rename")
}

func TestApplyCustomFilename_KeepsOwnExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "original.mkv")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	final, err := applyCustomFilename(path, "episode.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "episode.mp4"), final)
}

func TestApplyCustomFilename_RejectsCollision(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "My Movie.mkv")
	require.NoError(t, os.WriteFile(existing, []byte("finished download"), 0o644))

	path := filepath.Join(dir, "fresh.mkv")
	require.NoError(t, os.WriteFile(path, []byte("new data"), 0o644))

	_, err := applyCustomFilename(path, "My Movie")
	assert.ErrorIs(t, err, ErrInvalidFilename)

	kept, readErr := os.ReadFile(existing)
	require.NoError(t, readErr)
	assert.Equal(t, "finished download", string(kept), "existing file is never clobbered")

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "rejected rename keeps the new download at its original path")
}

func TestApplyCustomFilename_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "original.mkv")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	_, err := applyCustomFilename(path, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidFilename)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "rejected rename leaves the file untouched")
}
