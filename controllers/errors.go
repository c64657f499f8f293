package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pos-console/cart"
	"pos-console/gateway"
)

// writeError maps the error taxonomy onto HTTP statuses: rejected local
// mutations are the client's fault, failed upstream calls are a bad
// gateway, anything else is internal.
func writeError(w http.ResponseWriter, err error) {
	var validation *cart.ValidationError
	if errors.As(err, &validation) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"message": validation.Message,
			"field":   validation.Field,
		})
		return
	}

	var remote *gateway.RemoteError
	if errors.As(err, &remote) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"message": remote.Message})
		return
	}

	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
