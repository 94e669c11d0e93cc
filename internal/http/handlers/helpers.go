package handlers

import (
	"encoding/json"
	"math"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// roundMoney applies the presentation rounding policy (2 decimal places).
func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
