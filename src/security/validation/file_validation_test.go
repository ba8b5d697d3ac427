package validation

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryFile struct {
	*bytes.Reader
}

func (f *memoryFile) Close() error { return nil }

func newUpload(filename, contentType, content string) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: filename,
		Header:   textproto.MIMEHeader{},
	}
	if contentType != "" {
		header.Header.Set("Content-Type", contentType)
	}
	return &memoryFile{bytes.NewReader([]byte(content))}, header
}

func TestValidateUploadedFile(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		content     string
		wantErr     bool
	}{
		{
			name:        "plain CSV accepted",
			filename:    "history.csv",
			contentType: "text/csv",
			content:     "Ticket,Open Time,Type\n1,2024.01.01 09:00:00,buy\n",
		},
		{
			name:        "excel-labelled CSV accepted",
			filename:    "export.csv",
			contentType: "application/vnd.ms-excel",
			content:     "ID,Symbol,Type\n1,EURUSD,Buy\n",
		},
		{
			name:     "missing content type falls back to sniffing",
			filename: "history.csv",
			content:  "Date,Symbol,Order\n2024-01-01,ES1!,buy\n",
		},
		{
			name:        "wrong extension rejected",
			filename:    "history.xlsx",
			contentType: "text/csv",
			content:     "a,b,c\n",
			wantErr:     true,
		},
		{
			name:        "declared binary type rejected",
			filename:    "history.csv",
			contentType: "application/pdf",
			content:     "a,b,c\n",
			wantErr:     true,
		},
		{
			name:        "binary payload rejected",
			filename:    "history.csv",
			contentType: "text/csv",
			content:     "a,b\x00c\n",
			wantErr:     true,
		},
		{
			name:        "empty file rejected",
			filename:    "history.csv",
			contentType: "text/csv",
			content:     "",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, header := newUpload(tt.filename, tt.contentType, tt.content)
			err := ValidateUploadedFile(file, header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			// The file must be rewound so the parser sees it from the start.
			buf := make([]byte, 1)
			n, _ := file.Read(buf)
			require.Equal(t, 1, n)
			assert.Equal(t, tt.content[0], buf[0])
		})
	}
}
