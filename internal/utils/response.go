package utils

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// WriteJSON is the single point producing client-visible output. Every
// handler response goes through here so the envelope shape stays uniform.
func WriteJSON(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteSuccess emits {success:true, data:...}.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	WriteJSON(w, status, models.APIResponse{Success: true, Data: data})
}

// WriteList emits {success:true, count:n, pagination:..., data:[...]}.
// pagination may be nil for unpaginated lists.
func WriteList(w http.ResponseWriter, count int, pagination *models.Pagination, data interface{}) {
	WriteJSON(w, http.StatusOK, models.APIResponse{
		Success:    true,
		Count:      &count,
		Pagination: pagination,
		Data:       data,
	})
}

// WriteError emits {success:false, error:message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, models.APIResponse{Success: false, Error: message})
}

// WriteValidationError flattens validator field errors into a single
// client-safe message, one clause per failed field.
func WriteValidationError(w http.ResponseWriter, err error) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	WriteError(w, http.StatusBadRequest, strings.Join(msgs, ", "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "please add a " + strings.ToLower(fe.Field())
	case "max":
		return strings.ToLower(fe.Field()) + " can not be more than " + fe.Param() + " characters"
	case "min":
		return strings.ToLower(fe.Field()) + " must be at least " + fe.Param()
	case "email":
		return "please add a valid email"
	case "url":
		return "please use a valid URL with HTTP or HTTPS"
	case "oneof":
		return strings.ToLower(fe.Field()) + " must be one of: " + fe.Param()
	default:
		return strings.ToLower(fe.Field()) + " is invalid"
	}
}
