package whatsapp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/service/commands"
	client "github.com/mamadbah2/shopledger/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	f.sent = append(f.sent, req)
	return &client.SendTextMessageResponse{}, f.err
}

type fakeDispatcher struct {
	reply string
	err   error
	got   []models.Command
}

func (f *fakeDispatcher) HandleCommand(_ context.Context, cmd models.Command, _ string) (string, error) {
	f.got = append(f.got, cmd)
	return f.reply, f.err
}

func textPayload(from string, bodies ...string) models.WebhookPayload {
	var msgs []models.InboundMessage
	for i, body := range bodies {
		msgs = append(msgs, models.InboundMessage{From: from, ID: string(rune('a' + i)), Type: "text", Text: &models.TextContent{Body: body}})
	}
	return models.WebhookPayload{Entry: []models.WebhookEntry{{Changes: []models.WebhookChange{{Value: models.WebhookValue{Messages: msgs}}}}}}
}

func TestVerifyWebhookToken(t *testing.T) {
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{VerifyToken: "shh"}, &fakeClient{}, &fakeDispatcher{}, nil)

	if got, err := svc.VerifyWebhookToken("subscribe", "shh", "42"); err != nil || got != "42" {
		t.Fatalf("valid verification = %q, %v", got, err)
	}
	if _, err := svc.VerifyWebhookToken("subscribe", "nope", "42"); err == nil {
		t.Fatal("expected token mismatch")
	}
	if _, err := svc.VerifyWebhookToken("unsubscribe", "shh", "42"); err == nil {
		t.Fatal("expected mode error")
	}
}

func TestAuthorizeOperator(t *testing.T) {
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{VerifyToken: "shh"}, &fakeClient{}, &fakeDispatcher{}, nil)

	if err := svc.AuthorizeOperator("shh"); err != nil {
		t.Fatalf("AuthorizeOperator(valid) error = %v", err)
	}
	for _, token := range []string{"", "nope", "shhh"} {
		if err := svc.AuthorizeOperator(token); !errors.Is(err, ErrOperatorUnauthorized) {
			t.Fatalf("AuthorizeOperator(%q) error = %v", token, err)
		}
	}

	unconfigured := NewMetaWhatsAppService(config.WhatsAppConfig{}, &fakeClient{}, &fakeDispatcher{}, nil)
	if err := unconfigured.AuthorizeOperator(""); !errors.Is(err, ErrOperatorUnauthorized) {
		t.Fatalf("empty configured token accepted: %v", err)
	}
}

func TestHandleWebhookRepliesWithDispatcherOutput(t *testing.T) {
	wa := &fakeClient{}
	dispatcher := &fakeDispatcher{reply: "Sold 1 x Pen"}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, dispatcher, nil)

	if err := svc.HandleWebhook(context.Background(), textPayload("9198", "/sell 1 pen")); err != nil {
		t.Fatalf("HandleWebhook() error = %v", err)
	}
	if len(dispatcher.got) != 1 || dispatcher.got[0].Type != models.CommandSell {
		t.Fatalf("dispatched = %+v", dispatcher.got)
	}
	if len(wa.sent) != 1 || wa.sent[0].To != "9198" || wa.sent[0].Body != "Sold 1 x Pen" {
		t.Fatalf("sent = %+v", wa.sent)
	}
}

func TestHandleWebhookTurnsErrorsIntoReplies(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{commands.ErrUnsupportedCommand, "Unknown command."},
		{models.ErrInsufficientStock, "Rejected: quantity exceeds available stock."},
		{models.ErrItemNotFound, "No single item matches"},
		{errors.New("disk on fire"), "Something went wrong"},
	}
	for _, tc := range cases {
		wa := &fakeClient{}
		svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, &fakeDispatcher{err: tc.err}, nil)
		if err := svc.HandleWebhook(context.Background(), textPayload("9198", "whatever")); err != nil {
			t.Fatalf("HandleWebhook() error = %v", err)
		}
		if len(wa.sent) != 1 || !strings.HasPrefix(wa.sent[0].Body, tc.want) {
			t.Fatalf("reply for %v = %+v", tc.err, wa.sent)
		}
	}
}

func TestHandleWebhookReportsSendFailures(t *testing.T) {
	boom := errors.New("meta down")
	wa := &fakeClient{err: boom}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, &fakeDispatcher{reply: "ok"}, nil)

	err := svc.HandleWebhook(context.Background(), textPayload("9198", "/help", "/today"))
	if !errors.Is(err, boom) {
		t.Fatalf("HandleWebhook() error = %v", err)
	}
	if len(wa.sent) != 2 {
		t.Fatalf("every message should be attempted, sent %d", len(wa.sent))
	}
}

func TestNotifyManager(t *testing.T) {
	wa := &fakeClient{}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{ManagerID: "9100"}, wa, &fakeDispatcher{}, nil)
	if err := svc.NotifyManager(context.Background(), "closed"); err != nil {
		t.Fatal(err)
	}
	if wa.sent[0].To != "9100" {
		t.Fatalf("sent = %+v", wa.sent)
	}

	svc = NewMetaWhatsAppService(config.WhatsAppConfig{}, wa, &fakeDispatcher{}, nil)
	if err := svc.NotifyManager(context.Background(), "closed"); err == nil {
		t.Fatal("expected missing manager error")
	}
}
