package web

import (
	"errors"
	"net/http"

	"stockwatch/internal/core"
)

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var raw core.RawRegistration
	if !decodeJSON(w, r, &raw) {
		return
	}

	result, err := h.svc.RegisterProduct(r.Context(), raw)
	if err != nil {
		writeRegistrationError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// writeRegistrationError maps registration failures to HTTP. A missing
// warehouse is a 400 because its id came from the request body. Store and
// internal failures never expose the underlying message.
func writeRegistrationError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *core.Error
	if !errors.As(err, &ce) {
		writeError(w, r, "Internal server error", core.KindInternal.String(), http.StatusInternalServerError)
		return
	}

	switch ce.Kind {
	case core.KindValidation, core.KindNotFound:
		writeError(w, r, ce.Message, ce.Kind.String(), http.StatusBadRequest)
	case core.KindConflict:
		writeError(w, r, ce.Message, ce.Kind.String(), http.StatusConflict)
	default:
		writeError(w, r, "Internal server error", ce.Kind.String(), http.StatusInternalServerError)
	}
}
