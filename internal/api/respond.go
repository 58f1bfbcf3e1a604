package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondSuccess writes the {"success": ...} envelope.
func respondSuccess(w http.ResponseWriter, status int, v any) {
	respondJSON(w, status, map[string]any{"success": v})
}

// respondError writes the {"error": ...} envelope.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]any{"error": msg})
}

// serverError logs the full error and returns a generic 500 body.
func (api *Api) serverError(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error(r.Context(), "unexpected failure", "method", r.Method, "path", r.URL.Path, "error", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON parses the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

// validateStruct runs the declarative field rules and converts the first
// violation into a readable message.
func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return fmt.Errorf("invalid field %s (%s)", f.Field(), f.Tag())
	}
	return errors.New("invalid request body")
}
