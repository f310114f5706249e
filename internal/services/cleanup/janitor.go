package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
)

// Janitor periodically removes staged upload directories that a crash left
// behind. Uploads are staged under "upload_<document_id>" directories; the
// pipeline removes its own directory on every normal exit path, so anything
// older than MaxAge is garbage.
type Janitor struct {
	uploadDir string
	schedule  string
	maxAge    time.Duration
	cron      *cron.Cron
	logger    arbor.ILogger
}

// NewJanitor creates the stale upload janitor from configuration.
func NewJanitor(cfg *common.CleanupConfig, uploadDir string, logger arbor.ILogger) (*Janitor, error) {
	maxAge, err := time.ParseDuration(cfg.MaxAge)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup max age '%s': %w", cfg.MaxAge, err)
	}

	return &Janitor{
		uploadDir: uploadDir,
		schedule:  cfg.Schedule,
		maxAge:    maxAge,
		cron:      cron.New(),
		logger:    logger,
	}, nil
}

// Start schedules the cleanup job and runs one sweep immediately to clear
// leftovers from a previous run.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.sweep); err != nil {
		return fmt.Errorf("invalid cleanup schedule '%s': %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info().
		Str("schedule", j.schedule).
		Dur("max_age", j.maxAge).
		Str("upload_dir", j.uploadDir).
		Msg("Upload cleanup janitor started")

	go j.sweep()
	return nil
}

// Stop stops the scheduler.
func (j *Janitor) Stop() {
	j.cron.Stop()
	j.logger.Info().Msg("Upload cleanup janitor stopped")
}

// sweep removes staged upload directories older than maxAge.
func (j *Janitor) sweep() {
	entries, err := os.ReadDir(j.uploadDir)
	if err != nil {
		if !os.IsNotExist(err) {
			j.logger.Warn().Err(err).Msg("Failed to read upload directory")
		}
		return
	}

	cutoff := time.Now().Add(-j.maxAge)
	removed := 0

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "upload_") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(j.uploadDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			j.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove stale upload")
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info().Int("removed", removed).Msg("Removed stale upload directories")
	}
}
