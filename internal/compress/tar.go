package compress

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"time"
)

// TarReader implements io.ReadCloser over the first CSV file of a TAR archive.
type TarReader struct {
	tr  *tar.Reader
	eof bool
}

// NewTarReader positions a TarReader on the first CSV file in the archive.
func NewTarReader(r io.ReadCloser) (*TarReader, error) {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			r.Close()
			return nil, ErrNoCSV
		}
		if err != nil {
			r.Close()
			return nil, err
		}
		if header.Typeflag == tar.TypeReg && isCSV(header.Name) {
			return &TarReader{tr: tr}, nil
		}
	}
}

// Read reads data from the current CSV file.
func (t *TarReader) Read(p []byte) (int, error) {
	if t.eof {
		return 0, io.EOF
	}
	n, err := t.tr.Read(p)
	if errors.Is(err, io.EOF) {
		t.eof = true
	}
	return n, err
}

// Close finishes reading. The underlying body is closed by the HTTP server.
func (t *TarReader) Close() error {
	return nil
}

// TarWriter packs everything written to it into a single-file TAR archive.
// A tar header carries the file size, so content is buffered until Close.
type TarWriter struct {
	w        io.Writer
	fileName string
	buf      bytes.Buffer
}

// NewTarWriter creates a TarWriter producing fileName inside the archive.
func NewTarWriter(w io.Writer, fileName string) *TarWriter {
	return &TarWriter{w: w, fileName: fileName}
}

func (t *TarWriter) Write(p []byte) (int, error) {
	return t.buf.Write(p)
}

// Close writes the archive to the underlying writer.
func (t *TarWriter) Close() error {
	tw := tar.NewWriter(t.w)
	header := &tar.Header{
		Name:    t.fileName,
		Mode:    0o644,
		Size:    int64(t.buf.Len()),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	if _, err := tw.Write(t.buf.Bytes()); err != nil {
		return err
	}
	return tw.Close()
}
