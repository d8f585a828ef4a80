package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cogassess/internal/models"
	"cogassess/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

type fakeNotifier struct {
	enabled bool
	err     error
	sentTo  []string
}

func (n *fakeNotifier) IsEnabled() bool { return n.enabled }

func (n *fakeNotifier) SendFeedbackNotification(ctx context.Context, toEmail string, f *models.Feedback) error {
	n.sentTo = append(n.sentTo, toEmail)
	return n.err
}

func TestFeedbackSubmit(t *testing.T) {
	tests := []struct {
		name        string
		notifier    *fakeNotifier
		notifyEmail string
		wantSent    int
	}{
		{"notifies when configured", &fakeNotifier{enabled: true}, "team@example.com", 1},
		{"notification failure is not fatal", &fakeNotifier{enabled: true, err: errors.New("ses down")}, "team@example.com", 1},
		{"disabled notifier", &fakeNotifier{enabled: false}, "team@example.com", 0},
		{"no recipient", &fakeNotifier{enabled: true}, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			svc := NewFeedbackService(repository.NewFeedbackRepository(env.db), tt.notifier, tt.notifyEmail)

			f, err := svc.Submit(context.Background(), " Asha ", 9876543210, "asha@example.com", "When are results out?")
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if f.ID == 0 || f.Name != "Asha" {
				t.Errorf("Submit() = %+v", f)
			}
			if len(tt.notifier.sentTo) != tt.wantSent {
				t.Errorf("notifications sent = %d, want %d", len(tt.notifier.sentTo), tt.wantSent)
			}
		})
	}
}

type fakeSES struct {
	input *sesv2.SendEmailInput
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSendFeedbackNotification(t *testing.T) {
	ses := &fakeSES{}
	svc := &EmailService{client: ses, fromEmail: "noreply@example.com", fromName: "Assessment", enabled: true}

	f := &models.Feedback{ID: 7, Name: "Asha <b>", Mobile: 9876543210, Email: "asha@example.com", Query: "Hello"}
	if err := svc.SendFeedbackNotification(context.Background(), "team@example.com", f); err != nil {
		t.Fatalf("SendFeedbackNotification() error = %v", err)
	}

	if ses.input == nil {
		t.Fatal("SES was not called")
	}
	if got := aws.ToString(ses.input.FromEmailAddress); got != "Assessment <noreply@example.com>" {
		t.Errorf("from = %q", got)
	}
	if len(ses.input.ReplyToAddresses) != 1 || ses.input.ReplyToAddresses[0] != "asha@example.com" {
		t.Errorf("reply-to = %v", ses.input.ReplyToAddresses)
	}
	html := aws.ToString(ses.input.Content.Simple.Body.Html.Data)
	if strings.Contains(html, "<b>") || !strings.Contains(html, "&lt;b&gt;") {
		t.Error("name should be HTML escaped")
	}

	disabled := &EmailService{}
	if err := disabled.SendFeedbackNotification(context.Background(), "team@example.com", f); err != nil {
		t.Errorf("disabled service error = %v", err)
	}
}
