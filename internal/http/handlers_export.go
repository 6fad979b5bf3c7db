package http

import (
	"net/http"
	"time"

	"ricevute/internal/export"
	applog "ricevute/internal/log"
)

// handleExport streams the whole collection as a four-sheet .xlsx workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	receipts, err := s.store.LoadReceipts(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Load receipts for export failed", applog.FieldError, err)
		InternalServerError("Could not load receipts").Write(w)
		return
	}

	wb, err := export.BuildWorkbook(receipts)
	if err != nil {
		logger.ErrorContext(ctx, "Workbook build failed", applog.FieldError, err,
			applog.FieldOperation, applog.OpExport)
		InternalServerError("Could not build export").Write(w)
		return
	}
	defer wb.Close()

	filename := export.Filename(time.Now())
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := wb.Write(w); err != nil {
		logger.ErrorContext(ctx, "Workbook write failed", applog.FieldError, err,
			applog.FieldOperation, applog.OpExport)
		return
	}

	logger.InfoContext(ctx, "Export generated", "filename", filename, "receipts", len(receipts))
}
