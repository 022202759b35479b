package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
	"github.com/eltgood/line-sheet-bridge/internal/biz/usecase"
	"github.com/eltgood/line-sheet-bridge/internal/service"
)

// Server is the HTTP front: the platform webhook plus the notify API.
type Server struct {
	channelSecret string
	events        *service.EventService
	publisher     *usecase.PublisherUsecase
	logger        *slog.Logger

	httpServer *http.Server
	port       int
}

// New creates the HTTP server.
func New(
	channelSecret string,
	events *service.EventService,
	publisher *usecase.PublisherUsecase,
	logger *slog.Logger,
	port int,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		channelSecret: channelSecret,
		events:        events,
		publisher:     publisher,
		logger:        logger,
		port:          port,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)
	mux.HandleFunc("/notify", s.handleNotify)
	mux.HandleFunc("/notify/subject", s.handleNotifySubject)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	s.logger.Info("starting http server", "port", s.port)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

// handleCallback verifies the webhook signature, decodes the batch and
// dispatches it. The platform expects 200 once the signature checks out,
// even when individual handlers logged errors.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cb, err := webhook.ParseRequest(s.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			s.logger.Warn("webhook signature mismatch")
			http.Error(w, "Bad signature", http.StatusBadRequest)
			return
		}
		s.logger.Warn("webhook parse failed", "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	s.events.HandleEvents(r.Context(), decodeEvents(cb.Events))

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type notifyRequest struct {
	GroupID string `json:"group_id"`
	Message string `json:"message"`
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.publisher.Publish(r.Context(), req.GroupID, req.Message); err != nil {
		s.writePublishError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type subjectRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *Server) handleNotifySubject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req subjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rule, err := s.publisher.PublishSubject(r.Context(), req.Subject, req.Message)
	if err != nil {
		s.writePublishError(w, err)
		return
	}
	if rule == nil {
		s.writeError(w, http.StatusNotFound, "no matching rule")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "sent",
		"group_id": rule.TargetGroupID,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("line-sheet-bridge is running"))
}

// writePublishError maps publisher failures onto the single error shape
// used by every notify endpoint.
func (s *Server) writePublishError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrBadRequest) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var de *domain.DeliveryError
	if errors.As(err, &de) {
		s.logger.Error("push failed", "kind", de.Kind, "message", de.Message)
		status := http.StatusBadGateway
		if de.Kind == domain.DeliveryQuotaExceeded {
			status = http.StatusTooManyRequests
		}
		s.writeError(w, status, de.Message)
		return
	}

	s.logger.Error("notify failed", "error", err)
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
