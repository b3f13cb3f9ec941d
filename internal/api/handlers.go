package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lotesmx/leadbot/internal/dialog"
	"github.com/lotesmx/leadbot/internal/models"
)

// webhookHandler routes the channel's webhook calls: GET is the
// verification handshake, POST delivers event envelopes.
func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.verifyHandler(w, r)
	case http.MethodPost:
		s.eventsHandler(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		slog.Warn("Server.webhookHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// verifyHandler answers the challenge handshake: the challenge is echoed
// back only when the mode is "subscribe" and the token matches the
// configured secret.
func (s *Server) verifyHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode == "subscribe" && token == s.verifyToken {
		slog.Info("Server.verifyHandler: webhook verified")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(challenge)); err != nil {
			slog.Error("Server.verifyHandler: failed to write challenge", "error", err)
		}
		return
	}

	slog.Warn("Server.verifyHandler: verification rejected", "mode", mode)
	w.WriteHeader(http.StatusForbidden)
}

// eventsHandler ingests an event envelope. Receipt is acknowledged
// immediately, independent of downstream processing: events are handed to
// the sink and processed after the response is on the wire.
func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}

	var envelope models.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		slog.Warn("Server.eventsHandler: failed to decode envelope", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Acknowledge before processing.
	w.WriteHeader(http.StatusOK)

	if envelope.Object != "page" {
		slog.Debug("Server.eventsHandler: ignoring envelope", "object", envelope.Object)
		return
	}

	for _, entry := range envelope.Entry {
		if len(entry.Messaging) == 0 {
			continue
		}
		event := entry.Messaging[0]
		userID := event.Sender.ID
		if userID == "" {
			slog.Warn("Server.eventsHandler: event without sender id")
			continue
		}

		switch {
		case event.Postback != nil && event.Postback.Payload != "":
			slog.Debug("Server.eventsHandler: postback event", "user_id", userID, "payload", event.Postback.Payload)
			s.sink.Enqueue(dialog.PostbackEvent(userID, event.Postback.Payload))
		case event.Message != nil && event.Message.Text != "":
			slog.Debug("Server.eventsHandler: text event", "user_id", userID)
			s.sink.Enqueue(dialog.TextEvent(userID, event.Message.Text))
		default:
			slog.Debug("Server.eventsHandler: ignoring event without payload or text", "user_id", userID)
		}
	}
}

// healthHandler reports liveness.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, statusResponse{Status: "ok"})
}
