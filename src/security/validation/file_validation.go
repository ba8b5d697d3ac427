package validation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

var allowedUploadContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // some browsers label CSV exports this way
	"text/plain":               true,
}

// ValidateUploadedFile checks the declared content type and sniffs the first
// bytes of the file to reject binary payloads masquerading as CSV. The file
// is rewound before returning so callers can read it from the start.
func ValidateUploadedFile(file multipart.File, header *multipart.FileHeader) error {
	declared := header.Header.Get("Content-Type")
	if declared != "" {
		mediaType := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
		if !allowedUploadContentTypes[mediaType] {
			return fmt.Errorf("unsupported content type %q", mediaType)
		}
	}

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		return fmt.Errorf("unsupported file extension, expected .csv")
	}

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for validation: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind file: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("file is empty")
	}

	sniffed := http.DetectContentType(buf[:n])
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(sniffed, ";")[0]))
	if !allowedUploadContentTypes[mediaType] {
		return fmt.Errorf("file content does not look like CSV (detected %q)", mediaType)
	}

	// NUL bytes never occur in well-formed broker exports.
	if bytes.IndexByte(buf[:n], 0x00) != -1 {
		return fmt.Errorf("file contains binary data")
	}

	return nil
}
