package common

import (
	"encoding/json"
	"net/http"
)

// Every payload carries the "error" flag so clients can branch on a single
// field regardless of status code.

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type ResultResponse struct {
	Error  bool        `json:"error"`
	Result interface{} `json:"result"`
}

type ListDetails struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type ListResponse struct {
	Error   bool        `json:"error"`
	Details ListDetails `json:"details"`
	Result  interface{} `json:"result"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: true, Message: message})
}

func RespondWithResult(w http.ResponseWriter, code int, result interface{}) {
	RespondWithJSON(w, code, ResultResponse{Result: result})
}

func RespondWithList(w http.ResponseWriter, result interface{}, details ListDetails) {
	RespondWithJSON(w, http.StatusOK, ListResponse{Details: details, Result: result})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": true, "message": "failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
