package v1

import (
	"net/http"

	"github.com/devtrail/bootcamp-api/internal/store"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

// writeStoreError is the single translation point from store faults to the
// client-visible error taxonomy. Anything unrecognized becomes a generic
// 500; internals never leak.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case store.IsNotFound(err):
		utils.WriteError(w, http.StatusNotFound, "resource not found")
	case store.IsDuplicateKey(err):
		utils.WriteError(w, http.StatusBadRequest, "duplicate field value entered")
	default:
		utils.WriteError(w, http.StatusInternalServerError, "server error")
	}
}
