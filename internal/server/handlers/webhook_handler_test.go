package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	service "github.com/mamadbah2/shopledger/internal/service/whatsapp"
)

type fakeMessaging struct {
	handleErr error
	handled   int
	sent      []models.OutboundMessageRequest
}

func (f *fakeMessaging) VerifyWebhookToken(_, token, challenge string) (string, error) {
	if token != "shh" {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

func (f *fakeMessaging) HandleWebhook(context.Context, models.WebhookPayload) error {
	f.handled++
	return f.handleErr
}

func (f *fakeMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeMessaging) AuthorizeOperator(token string) error {
	if token != "shh" {
		return service.ErrOperatorUnauthorized
	}
	return nil
}

const sellPayload = `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"messages":[{"from":"9198","id":"m1","type":"text","text":{"body":"/sell 1 pen"}}]}}]}]}`

func serveWebhook(h *WebhookHandler, req *http.Request) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	r.POST("/send-message", h.SendMessage)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookVerify(t *testing.T) {
	h := NewWebhookHandler(&fakeMessaging{}, nil)

	w := serveWebhook(h, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=shh&hub.challenge=42", nil))
	if w.Code != http.StatusOK || w.Body.String() != "42" {
		t.Fatalf("verify = %d %q", w.Code, w.Body.String())
	}

	w = serveWebhook(h, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=no&hub.challenge=42", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("bad token status = %d", w.Code)
	}
}

func TestWebhookReceiveAcknowledgesCommandFailures(t *testing.T) {
	svc := &fakeMessaging{handleErr: errors.New("send failed")}
	h := NewWebhookHandler(svc, nil)

	w := serveWebhook(h, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(sellPayload)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if svc.handled != 1 {
		t.Fatalf("handled = %d", svc.handled)
	}
}

func TestWebhookReceiveSkipsStatusOnlyPayloads(t *testing.T) {
	svc := &fakeMessaging{}
	h := NewWebhookHandler(svc, nil)

	body := `{"entry":[{"changes":[{"value":{"statuses":[{"id":"m1","status":"read"}]}}]}]}`
	w := serveWebhook(h, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
	if w.Code != http.StatusOK || svc.handled != 0 {
		t.Fatalf("status = %d handled = %d", w.Code, svc.handled)
	}
}

func TestSendMessageRequiresOperatorToken(t *testing.T) {
	svc := &fakeMessaging{}
	h := NewWebhookHandler(svc, nil)
	body := `{"to":"9198","message":"Shop opens at 10"}`

	req := httptest.NewRequest(http.MethodPost, "/send-message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if w := serveWebhook(h, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/send-message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(OperatorTokenHeader, "wrong")
	if w := serveWebhook(h, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("status with wrong token = %d", w.Code)
	}
	if len(svc.sent) != 0 {
		t.Fatal("message sent without authorization")
	}

	req = httptest.NewRequest(http.MethodPost, "/send-message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(OperatorTokenHeader, "shh")
	if w := serveWebhook(h, req); w.Code != http.StatusAccepted {
		t.Fatalf("status with token = %d", w.Code)
	}
	if len(svc.sent) != 1 || svc.sent[0].To != "9198" {
		t.Fatalf("sent = %+v", svc.sent)
	}
}

func TestWebhookPayloadMessageCount(t *testing.T) {
	payload := models.WebhookPayload{Entry: []models.WebhookEntry{
		{Changes: []models.WebhookChange{{Value: models.WebhookValue{Messages: make([]models.InboundMessage, 2)}}}},
		{Changes: []models.WebhookChange{{Value: models.WebhookValue{Statuses: make([]models.MessageStatus, 3)}}}},
	}}
	if got := payload.MessageCount(); got != 2 {
		t.Fatalf("MessageCount() = %d, want 2", got)
	}
}
