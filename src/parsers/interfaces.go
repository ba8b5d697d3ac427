package parsers

import (
	"io"

	"github.com/username/tradefolio/src/models"
)

// Parser converts a broker's raw CSV export into canonical trade records.
type Parser interface {
	Parse(r io.Reader) ([]models.CanonicalTrade, error)
}
