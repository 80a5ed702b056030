package workspace

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/conneroisu/plategen/internal/errors"
)

// ExportZip writes a zip archive containing the given files to w. Entry
// names are flattened to basenames, so callers exporting files from nested
// session directories get a flat archive.
func ExportZip(w io.Writer, files []string) error {
	zw := zip.NewWriter(w)

	for _, file := range files {
		if err := addEntry(zw, file); err != nil {
			// Best effort: the archive is already partially written, but
			// close it so the underlying writer is not left mid-record.
			_ = zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return errors.NewArchiveError(errors.ErrCodeArchiveFailed, "finalizing archive", err)
	}

	return nil
}

func addEntry(zw *zip.Writer, file string) error {
	src, err := os.Open(file)
	if err != nil {
		return errors.NewArchiveError(errors.ErrCodeArchiveFailed, "reading archive entry", err).WithFile(file)
	}
	defer src.Close()

	entry, err := zw.Create(filepath.Base(file))
	if err != nil {
		return errors.NewArchiveError(errors.ErrCodeArchiveFailed, "creating archive entry", err).WithFile(file)
	}

	if _, err := io.Copy(entry, src); err != nil {
		return errors.NewArchiveError(errors.ErrCodeArchiveFailed, "writing archive entry", err).WithFile(file)
	}

	return nil
}
