package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/chronoscan/internal/model"
)

// DefaultFilename returns the report filename for target, e.g.
// chronos_report_example.com.txt.
func DefaultFilename(target string, format Format) string {
	return "chronos_report_" + target + format.Extension()
}

// Save writes report to path in the given format.
//
// When the report has no findings it returns ErrNoFindings and creates no
// file. Parent directories are created as needed and the file is written
// with owner-only permissions since it lists potentially sensitive URLs.
func Save(report *model.ScanReport, path string, format Format, opts ...WriterOption) (err error) {
	if !report.HasFindings() {
		return ErrNoFindings
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w, err := NewWriter(format, f, opts...)
	if err != nil {
		return err
	}

	if _, err := w.Write(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
