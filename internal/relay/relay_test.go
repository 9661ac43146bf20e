package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
)

func TestConfigured(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   bool
	}{
		{"all set", []string{"service_8j8kofg", "template_vd0rhlv", "ZaR-zbPKK4zCGDb3g"}, true},
		{"missing one", []string{"service_8j8kofg", "", "ZaR-zbPKK4zCGDb3g"}, false},
		{"whitespace", []string{"service_8j8kofg", "  ", "key"}, false},
		{"placeholder", []string{"YOUR_SERVICE_ID", "template_vd0rhlv", "key"}, false},
		{"none", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Configured(tt.values...); got != tt.want {
				t.Fatalf("Configured(%q) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestEmailJSSendPostsTemplateParams(t *testing.T) {
	var got emailJSRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1.0/email/send" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := sonic.Unmarshal(raw, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	client := NewEmailJS(EmailJSConfig{
		ServiceID:  "service_1",
		TemplateID: "template_1",
		PublicKey:  "pub",
		Endpoint:   srv.URL + "/",
	}, srv.Client())

	err := client.Send(context.Background(), Payload{
		SenderName:    "Jane",
		SenderEmail:   "jane@example.com",
		Subject:       "Hello",
		Message:       "Let's talk",
		RecipientName: "Akash Sharma",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got.ServiceID != "service_1" || got.TemplateID != "template_1" || got.UserID != "pub" {
		t.Fatalf("ids = %+v", got)
	}
	if got.AccessToken != "" {
		t.Fatalf("accessToken = %q, want omitted", got.AccessToken)
	}
	want := templateParams{FromName: "Jane", FromEmail: "jane@example.com", Subject: "Hello", Message: "Let's talk", ToName: "Akash Sharma"}
	if got.TemplateParams != want {
		t.Fatalf("template params = %+v, want %+v", got.TemplateParams, want)
	}
}

func TestEmailJSSendRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("The Public Key is invalid\n"))
	}))
	defer srv.Close()

	client := NewEmailJS(EmailJSConfig{Endpoint: srv.URL}, srv.Client())
	err := client.Send(context.Background(), Payload{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Send() error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest || statusErr.Body != "The Public Key is invalid" {
		t.Fatalf("status error = %+v", statusErr)
	}
}

func TestEmailJSSendHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewEmailJS(EmailJSConfig{Endpoint: srv.URL}, srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := client.Send(ctx, Payload{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Send() error = %v, want deadline exceeded", err)
	}
}

func TestSMTPSendComposesMessage(t *testing.T) {
	s := NewSMTP(SMTPConfig{Host: "smtp.example.com", User: "me@example.com", Pass: "secret", To: "inbox@example.com"})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	err := s.Send(context.Background(), Payload{
		SenderName:    "Jane",
		SenderEmail:   "jane@example.com\r\nBcc: evil@example.com",
		Subject:       "Portfolio Contact",
		Message:       "Hi there",
		RecipientName: "Akash Sharma",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("addr = %q", gotAddr)
	}
	if len(gotTo) != 1 || gotTo[0] != "inbox@example.com" {
		t.Fatalf("to = %v", gotTo)
	}
	if !strings.Contains(gotMsg, "Subject: Portfolio Contact\r\n") {
		t.Fatalf("message missing subject:\n%s", gotMsg)
	}
	headers, _, _ := strings.Cut(gotMsg, "\r\n\r\n")
	if strings.Contains(headers, "\r\nBcc:") {
		t.Fatalf("header injection not neutralised:\n%s", gotMsg)
	}
	if !strings.Contains(gotMsg, "Message:\nHi there") {
		t.Fatalf("message body missing:\n%s", gotMsg)
	}
}

func TestSMTPSendRequiresCredentials(t *testing.T) {
	s := NewSMTP(SMTPConfig{Host: "smtp.example.com"})
	if err := s.Send(context.Background(), Payload{}); err == nil {
		t.Fatal("Send() expected error without credentials")
	}
}
