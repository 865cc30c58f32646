package compress

import (
	"fmt"
	"io"
)

// Supported archive types.
const (
	Zip = "zip"
	Tar = "tar"
)

// NewReader returns a reader over the first CSV file of an archive of the given type.
func NewReader(archiveType string, r io.ReadCloser) (io.ReadCloser, error) {
	switch archiveType {
	case Zip:
		zr, err := NewZipReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case Tar:
		tr, err := NewTarReader(r)
		if err != nil {
			return nil, err
		}
		return tr, nil
	}
	return nil, fmt.Errorf("unsupported archive type %q", archiveType)
}

// NewWriter returns a writer packing its input as fileName into an archive of the given type.
func NewWriter(archiveType string, w io.Writer, fileName string) (io.WriteCloser, error) {
	switch archiveType {
	case Zip:
		zw, err := NewZipWriter(w, fileName)
		if err != nil {
			return nil, err
		}
		return zw, nil
	case Tar:
		return NewTarWriter(w, fileName), nil
	}
	return nil, fmt.Errorf("unsupported archive type %q", archiveType)
}

// ContentType is the media type of an archive type.
func ContentType(archiveType string) string {
	if archiveType == Tar {
		return "application/x-tar"
	}
	return "application/zip"
}
