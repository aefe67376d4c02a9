// The notifier is the notification sink: it receives a message, logs it as if
// it were delivered, and acknowledges. Delivery is simulated on purpose.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/minibank/minibank-backend/internal/logging"
)

type notificationRequest struct {
	Message string `json:"message"`
}

func main() {
	logging.Init("minibank-notifier", os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	addr := ":" + port

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/notifications/send", handleSend)

	slog.Info("notifier started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleSend(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message must not be blank"})
		return
	}

	slog.Info("notification received",
		"message", req.Message,
		"correlation_id", r.Header.Get("X-Correlation-Id"),
	)

	writeJSON(w, http.StatusOK, map[string]string{"status": "notification logged successfully"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
