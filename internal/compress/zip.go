package compress

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
)

// ErrNoCSV is returned when an archive holds no CSV file.
var ErrNoCSV = errors.New("csv file not found in archive")

// ZipReader streams the cart CSV out of an uploaded ZIP archive.
type ZipReader struct {
	io.ReadCloser
	Name string
}

// NewZipReader loads the upload and opens its first CSV entry. The source is
// always closed.
func NewZipReader(upload io.ReadCloser) (*ZipReader, error) {
	defer upload.Close()

	// zip needs random access, so the archive is held in memory
	raw, err := io.ReadAll(upload)
	if err != nil {
		return nil, err
	}
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}

	entry := firstCSV(archive.File)
	if entry == nil {
		return nil, ErrNoCSV
	}
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	return &ZipReader{ReadCloser: rc, Name: entry.Name}, nil
}

func firstCSV(files []*zip.File) *zip.File {
	for _, f := range files {
		if !f.FileInfo().IsDir() && isCSV(f.Name) {
			return f
		}
	}
	return nil
}

// ZipWriter packs a cart export into a ZIP archive holding a single CSV entry.
type ZipWriter struct {
	io.Writer
	archive *zip.Writer
}

// NewZipWriter starts an archive on w with one entry called entryName.
func NewZipWriter(w io.Writer, entryName string) (*ZipWriter, error) {
	archive := zip.NewWriter(w)
	entry, err := archive.Create(entryName)
	if err != nil {
		return nil, err
	}
	return &ZipWriter{Writer: entry, archive: archive}, nil
}

// Close writes the central directory; the underlying writer stays open.
func (z *ZipWriter) Close() error {
	return z.archive.Close()
}

func isCSV(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csv")
}
