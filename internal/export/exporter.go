package export

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"wikidump/app/internal/wiki"
)

// Options controls a single export pass.
type Options struct {
	// OutputDir receives one .text file per exported page. Created if
	// absent.
	OutputDir string

	// Namespace restricts the export to one namespace when non-nil.
	Namespace *int64

	// Limit caps the number of pages when positive.
	Limit int64
}

// Summary reports the outcome of an export pass.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Exporter writes wiki page text to individual files. Failures on a
// single page are logged and counted, never fatal; only setup and query
// errors abort a pass.
type Exporter struct {
	repo   wiki.Repository
	logger *logrus.Logger
}

// New constructs an Exporter around the given repository.
func New(repo wiki.Repository, logger *logrus.Logger) (*Exporter, error) {
	if repo == nil {
		return nil, eris.New("repository is required")
	}

	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &Exporter{repo: repo, logger: logger}, nil
}

// Export runs one pass: create the output directory, stream the page
// rows, and write one file per resolvable page. The returned Summary is
// valid even when err is non-nil and reflects the rows seen so far.
func (e *Exporter) Export(ctx context.Context, opts Options) (Summary, error) {
	var summary Summary

	if opts.OutputDir == "" {
		return summary, eris.New("output directory is required")
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return summary, eris.Wrapf(err, "creating output directory %s", opts.OutputDir)
	}

	log := e.logger.WithFields(logrus.Fields{
		"run_id":     uuid.NewString(),
		"output_dir": opts.OutputDir,
	})
	log.Info("starting export")

	filter := wiki.Filter{Namespace: opts.Namespace, Limit: opts.Limit}

	err := e.repo.ForEachPageText(ctx, filter, func(row wiki.PageText) error {
		summary.Total++

		pageLog := log.WithFields(logrus.Fields{
			"page_id": row.PageID,
			"title":   row.Title,
		})

		path, err := e.writePage(opts.OutputDir, row)
		if err != nil {
			summary.Failed++
			pageLog.WithError(err).Warn("skipping page")
			return nil
		}

		summary.Succeeded++
		pageLog.WithField("file", path).Debug("exported page")
		return nil
	})
	if err != nil {
		return summary, eris.Wrap(err, "streaming pages")
	}

	log.WithFields(logrus.Fields{
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	}).Info("export finished")

	return summary, nil
}

// writePage resolves one row to a file on disk and returns the path
// written. The write goes through an atomic rename so a failure never
// leaves a truncated export behind.
func (e *Exporter) writePage(dir string, row wiki.PageText) (string, error) {
	if !row.RevID.Valid {
		return "", eris.Errorf("revision %d not found", row.Latest)
	}

	if !row.TextID.Valid {
		return "", eris.Errorf("text blob %d not found for revision %d", row.TextRef.Int64, row.RevID.Int64)
	}

	path := filepath.Join(dir, FileName(row.Title))

	if err := atomic.WriteFile(path, bytes.NewReader(row.Text)); err != nil {
		return "", eris.Wrapf(err, "writing %s", path)
	}

	return path, nil
}
