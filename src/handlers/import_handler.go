package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/tradefolio/src/config"
	"github.com/username/tradefolio/src/logger"
	"github.com/username/tradefolio/src/parsers"
	"github.com/username/tradefolio/src/security/validation"
	"github.com/username/tradefolio/src/services"
	"github.com/username/tradefolio/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// HandleImport accepts a multipart CSV upload, detects its broker format
// and returns the parsed trade candidates. Nothing is persisted here; the
// client reviews the candidates and applies them one by one through the
// trade endpoints.
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r)
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxUploadSizeBytes)
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		utils.SendJSONError(w, "File too large or malformed form data", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.SendJSONError(w, "Missing 'file' form field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := validation.ValidateUploadedFile(file, header); err != nil {
		logger.L.Warn("rejected upload", "userID", userID, "filename", header.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	candidates, err := h.importService.ParseTradeHistory(file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoData):
			utils.SendJSONError(w, "no data found", http.StatusBadRequest)
		case errors.Is(err, parsers.ErrUnsupportedFormat):
			utils.SendJSONError(w, "unsupported format", http.StatusUnprocessableEntity)
		default:
			logger.L.Error("import failed", "userID", userID, "filename", header.Filename, "error", err)
			utils.SendJSONError(w, "Failed to process file", http.StatusInternalServerError)
		}
		return
	}

	logger.L.Info("import parsed", "userID", userID, "filename", header.Filename, "candidates", len(candidates))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"candidates": candidates,
		"count":      len(candidates),
	})
}
