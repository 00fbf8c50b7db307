package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juntosfibro/fibrochat/internal/chat"
	"github.com/juntosfibro/fibrochat/internal/models"
	"github.com/juntosfibro/fibrochat/internal/persona"
	"github.com/juntosfibro/fibrochat/internal/storage"
	"go.uber.org/zap"
)

// Server exposes the chat core over JSON HTTP. Authentication is the
// surrounding application's job; the authenticated admin id arrives in the
// X-User-ID header.
type Server struct {
	dispatcher *chat.Dispatcher
	sessions   storage.SessionStore
	logger     *zap.Logger
}

func New(dispatcher *chat.Dispatcher, sessions storage.SessionStore, logger *zap.Logger) *Server {
	return &Server{
		dispatcher: dispatcher,
		sessions:   sessions,
		logger:     logger,
	}
}

// MaxRequestBody caps a request at five 5 MB attachments in base64 form
// plus message text.
const MaxRequestBody = 35 << 20

// Router builds the gin engine with all chat and session routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), limitRequestBody())

	api := router.Group("/api")
	api.POST("/chat/support", s.handleSupportChat)
	api.POST("/chat/admin", s.handleAdminChat)
	api.GET("/admin/sessions", s.handleListSessions)
	api.GET("/admin/sessions/:id", s.handleGetSession)
	api.DELETE("/admin/sessions/:id", s.handleDeleteSession)

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("Request processed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func limitRequestBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBody)
		c.Next()
	}
}

type supportRequest struct {
	Message string `json:"message"`
}

type adminRequest struct {
	Message   string   `json:"message"`
	Files     []string `json:"files"`
	SessionID string   `json:"session_id"`
}

type chatResponse struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
}

// writeBindError distinguishes an over-limit body from a malformed one.
func (s *Server) writeBindError(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Requisição muito grande"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem vazia"})
}

func (s *Server) handleSupportChat(c *gin.Context) {
	var req supportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeBindError(c, err)
		return
	}

	reply, err := s.dispatcher.Handle(c.Request.Context(), persona.Support, req.Message, nil)
	if err != nil {
		s.writeDispatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatResponse{Text: reply.Text})
}

func (s *Server) handleAdminChat(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeBindError(c, err)
		return
	}

	reply, err := s.dispatcher.Handle(c.Request.Context(), persona.Admin, req.Message, req.Files)
	if err != nil {
		s.writeDispatchError(c, err)
		return
	}

	sessionID := s.persistExchange(c, req, reply)
	c.JSON(http.StatusOK, chatResponse{Text: reply.Text, SessionID: sessionID})
}

// persistExchange appends the user and assistant turns to the admin session,
// creating it from the first real exchange. Persistence is best-effort: a
// storage failure is logged and the reply still goes out.
func (s *Server) persistExchange(c *gin.Context, req adminRequest, reply chat.Reply) string {
	ownerID := c.GetHeader("X-User-ID")
	if ownerID == "" || reply.Intercepted {
		return ""
	}

	ctx := c.Request.Context()
	now := time.Now()
	userText := req.Message
	if userText == "" && len(reply.Attachments) > 0 {
		userText = persona.FilesOnlyPlaceholder
	}
	exchange := []models.ChatTurn{
		{Role: models.RoleUser, Text: userText, Attachments: reply.Attachments, Timestamp: now},
		{Role: models.RoleAssistant, Text: reply.Text, Timestamp: now},
	}

	if req.SessionID == "" {
		id, err := s.sessions.Create(ctx, ownerID, models.SessionTitle(userText), exchange)
		if err != nil {
			s.logger.Error("Failed to create session", zap.Error(err), zap.String("owner_id", ownerID))
			return ""
		}
		return id
	}

	session, err := s.sessions.Load(ctx, req.SessionID)
	if err != nil {
		s.logger.Error("Failed to load session",
			zap.Error(err),
			zap.String("session_id", req.SessionID))
		return req.SessionID
	}
	if session.OwnerID != ownerID {
		s.logger.Warn("Session owner mismatch, exchange not persisted",
			zap.String("session_id", req.SessionID),
			zap.String("owner_id", ownerID))
		return ""
	}
	turns := append(session.Turns, exchange...)
	if err := s.sessions.Replace(ctx, req.SessionID, turns, now); err != nil {
		s.logger.Error("Failed to update session",
			zap.Error(err),
			zap.String("session_id", req.SessionID))
	}
	return req.SessionID
}

func (s *Server) handleListSessions(c *gin.Context) {
	summaries, err := s.sessions.List(c.Request.Context(), c.GetHeader("X-User-ID"))
	if err != nil {
		s.logger.Error("Failed to list sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar sessões"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// loadOwnedSession fetches a session and verifies it belongs to the
// caller. A foreign session reads as not found so ids do not leak.
func (s *Server) loadOwnedSession(c *gin.Context, id string) (models.ChatSession, bool) {
	session, err := s.sessions.Load(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sessão não encontrada"})
			return models.ChatSession{}, false
		}
		s.logger.Error("Failed to load session", zap.Error(err), zap.String("session_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar sessão"})
		return models.ChatSession{}, false
	}
	if session.OwnerID != c.GetHeader("X-User-ID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sessão não encontrada"})
		return models.ChatSession{}, false
	}
	return session, true
}

func (s *Server) handleGetSession(c *gin.Context) {
	id := c.Param("id")
	session, ok := s.loadOwnedSession(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "messages": session.Turns})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.loadOwnedSession(c, id); !ok {
		return
	}
	if err := s.sessions.Delete(c.Request.Context(), id); err != nil {
		s.logger.Error("Failed to delete session", zap.Error(err), zap.String("session_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao deletar sessão"})
		return
	}
	c.Status(http.StatusNoContent)
}

// writeDispatchError maps dispatcher failures onto the two client-visible
// categories: user-correctable 400s and a uniform 500 that leaks no
// provider detail.
func (s *Server) writeDispatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem vazia"})
	case errors.Is(err, models.ErrTooManyAttachments):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limite de 5 arquivos por mensagem"})
	case errors.Is(err, models.ErrAttachmentTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo excede o limite de 5MB"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao comunicar com o assistente IA"})
	}
}
