package cleanup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
)

func newTestJanitor(t *testing.T, uploadDir, maxAge string) *Janitor {
	t.Helper()
	cfg := &common.CleanupConfig{
		Enabled:  true,
		Schedule: "*/10 * * * *",
		MaxAge:   maxAge,
	}
	j, err := NewJanitor(cfg, uploadDir, arbor.NewLogger())
	require.NoError(t, err)
	return j
}

func TestSweepRemovesStaleUploads(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "upload_aaaabbbbccccddddeeeeffff00001111")
	require.NoError(t, os.MkdirAll(stale, 0755))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh := filepath.Join(dir, "upload_aaaabbbbccccddddeeeeffff00002222")
	require.NoError(t, os.MkdirAll(fresh, 0755))

	unrelated := filepath.Join(dir, "keep-me")
	require.NoError(t, os.MkdirAll(unrelated, 0755))
	require.NoError(t, os.Chtimes(unrelated, old, old))

	j := newTestJanitor(t, dir, "1h")
	j.sweep()

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale upload dir should be removed")

	_, err = os.Stat(fresh)
	assert.NoError(t, err, "fresh upload dir must survive")

	_, err = os.Stat(unrelated)
	assert.NoError(t, err, "unrelated dirs must survive")
}

func TestSweepMissingUploadDir(t *testing.T) {
	j := newTestJanitor(t, filepath.Join(t.TempDir(), "does-not-exist"), "1h")

	// Must not panic or create the directory.
	j.sweep()
}

func TestNewJanitorInvalidMaxAge(t *testing.T) {
	cfg := &common.CleanupConfig{Schedule: "*/10 * * * *", MaxAge: "soon"}

	_, err := NewJanitor(cfg, t.TempDir(), arbor.NewLogger())
	assert.Error(t, err)
}
