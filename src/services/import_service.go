package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/username/tradefolio/src/logger"
	"github.com/username/tradefolio/src/models"
	"github.com/username/tradefolio/src/parsers"
)

// ErrNoData is returned when the uploaded file has no data rows.
var ErrNoData = errors.New("no data found")

type importService struct{}

func NewImportService() ImportService {
	return &importService{}
}

// ParseTradeHistory detects the broker format from the header row and runs
// the matching parser over the whole payload. The returned candidates are
// not deduplicated against persisted trades; the client applies them row
// by row.
func (s *importService) ParseTradeHistory(r io.Reader) ([]models.CanonicalTrade, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	text := strings.TrimSpace(strings.ReplaceAll(string(raw), "\r\n", "\n"))
	lines := strings.Split(text, "\n")
	if text == "" || len(lines) < 2 {
		return nil, ErrNoData
	}

	kind, err := parsers.DetectFormat(strings.Split(lines[0], ","))
	if err != nil {
		logger.L.Warn("rejected upload with unrecognized header", "header", lines[0])
		return nil, err
	}

	parser, err := parsers.GetParser(kind)
	if err != nil {
		return nil, err
	}

	trades, err := parser.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s export: %w", kind, err)
	}

	logger.L.Info("parsed trade history upload",
		slog.String("format", string(kind)),
		slog.Int("candidates", len(trades)))
	return trades, nil
}
