// Package respond writes the API's uniform success and failure envelopes.
package respond

import (
	"encoding/json"
	"net/http"
)

type successEnvelope struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Success bool        `json:"success"`
}

type failureEnvelope struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

func JSON(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(successEnvelope{
		Status:  status,
		Data:    data,
		Message: message,
		Success: true,
	})
}

func Error(w http.ResponseWriter, status int, message string, errs ...string) {
	if errs == nil {
		errs = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(failureEnvelope{
		Status:  status,
		Message: message,
		Success: false,
		Errors:  errs,
	})
}
