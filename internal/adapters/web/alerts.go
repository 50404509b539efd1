package web

import (
	"errors"
	"net/http"
	"strconv"

	"stockwatch/internal/app"
	"stockwatch/internal/core"

	"github.com/go-chi/chi/v5"
)

// lowStockAlerts handles GET /api/companies/{companyID}/alerts/low-stock.
func (h *Handler) lowStockAlerts(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.Atoi(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, r, "Company not found", core.KindNotFound.String(), http.StatusNotFound)
		return
	}

	req := app.LowStockRequest{CompanyID: companyID}
	if values, present := r.URL.Query()["recent_days"]; present {
		req.RawRecentDays = &values[0]
	}

	report, err := h.svc.LowStockAlerts(r.Context(), req)
	if err != nil {
		writeAlertError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// writeAlertError maps alert query failures to HTTP. Unlike registration, the
// read path includes the underlying diagnostic in details.
func writeAlertError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *core.Error
	if !errors.As(err, &ce) {
		writeErrorDetails(w, r, "Internal server error", core.KindInternal.String(), err.Error(), http.StatusInternalServerError)
		return
	}

	switch ce.Kind {
	case core.KindValidation:
		writeError(w, r, ce.Message, ce.Kind.String(), http.StatusBadRequest)
	case core.KindNotFound:
		writeError(w, r, ce.Message, ce.Kind.String(), http.StatusNotFound)
	case core.KindStore:
		writeErrorDetails(w, r, "Database error", ce.Kind.String(), causeOf(ce), http.StatusInternalServerError)
	default:
		writeErrorDetails(w, r, "Internal server error", ce.Kind.String(), causeOf(ce), http.StatusInternalServerError)
	}
}

func causeOf(ce *core.Error) string {
	if ce.Err != nil {
		return ce.Err.Error()
	}
	return ce.Message
}
