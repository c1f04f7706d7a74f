package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	service "github.com/mamadbah2/shopledger/internal/service/whatsapp"
)

// OperatorTokenHeader carries the verify token on manual sends.
const OperatorTokenHeader = "X-Operator-Token"

// WebhookHandler connects the WhatsApp command channel to HTTP.
type WebhookHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

// NewWebhookHandler constructs the HTTP handler adapter.
func NewWebhookHandler(svc service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger}
}

// Verify answers Meta's subscription challenge.
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, err := h.svc.VerifyWebhookToken(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		h.logger.Warn("webhook verification failed", zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	c.String(http.StatusOK, challenge)
}

// Receive runs the shop commands carried by a webhook callback.
//
// A parsed payload is always acknowledged with 200, even when a command or its
// reply fails. Meta redelivers anything else, which would repeat a /sell.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	messages := payload.MessageCount()
	if messages == 0 {
		c.Status(http.StatusOK)
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("shop commands failed, acknowledging anyway",
			zap.Int("messages", messages),
			zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	h.logger.Info("shop commands handled", zap.Int("messages", messages))
	c.Status(http.StatusOK)
}

// SendMessage pushes a manual message. The caller must present the verify
// token in the X-Operator-Token header.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	if err := h.svc.AuthorizeOperator(c.GetHeader(OperatorTokenHeader)); err != nil {
		h.logger.Warn("manual send refused", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid outbound payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		h.logger.Error("failed sending outbound", zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}

	c.Status(http.StatusAccepted)
}

