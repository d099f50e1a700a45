package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeEmailSender struct {
	started chan struct{}
	ctxErr  chan error
	sent    chan Message
}

func newFakeEmailSender() *fakeEmailSender {
	return &fakeEmailSender{
		started: make(chan struct{}, 1),
		ctxErr:  make(chan error, 1),
		sent:    make(chan Message, 1),
	}
}

func (f *fakeEmailSender) Send(ctx context.Context, msg Message) error {
	select {
	case f.started <- struct{}{}:
	default:
	}
	select {
	case <-ctx.Done():
		f.ctxErr <- ctx.Err()
		return ctx.Err()
	case <-time.After(50 * time.Millisecond):
		f.sent <- msg
		return nil
	}
}

func waitForSignal(t *testing.T, ch <-chan struct{}, message string) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal(message)
	}
}

func TestBuildContactEmail(t *testing.T) {
	received := time.Date(2026, 4, 2, 15, 4, 5, 0, time.UTC)
	msg := BuildContactEmail("Riverside FC", "office@riverside.test", ContactMessage{
		Name:    " Jo Park ",
		Email:   "jo@example.com",
		Phone:   "+16502530000",
		Message: "Do you have junior trials?\n",
	}, received)

	if msg.To != "office@riverside.test" || msg.ReplyTo != "jo@example.com" {
		t.Fatalf("unexpected addressing: %+v", msg)
	}
	if msg.Subject != "[Riverside FC] General enquiry" {
		t.Fatalf("unexpected subject: %q", msg.Subject)
	}
	for _, want := range []string{
		"Name: Jo Park",
		"Phone: +16502530000",
		"Received: Thu, 02 Apr 2026 15:04:05 UTC",
		"Do you have junior trials?",
	} {
		if !strings.Contains(msg.Body, want) {
			t.Fatalf("expected %q in body:\n%s", want, msg.Body)
		}
	}

	noPhone := BuildContactEmail("", "office@riverside.test", ContactMessage{Name: "A", Email: "a@b.c", Subject: "Membership", Message: "Hi"}, received)
	if strings.Contains(noPhone.Body, "Phone:") {
		t.Fatalf("expected phone line to be omitted")
	}
	if noPhone.Subject != "[the club] Membership" {
		t.Fatalf("unexpected subject: %q", noPhone.Subject)
	}
}

func TestSendAsyncOutlivesRequestContext(t *testing.T) {
	sender := newFakeEmailSender()
	done := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	SendAsync(ctx, sender, Message{To: "office@test.com", Subject: "Subject", Body: "Body"}, nil, done)

	waitForSignal(t, sender.started, "expected send to start")
	cancel()
	waitForSignal(t, done, "expected send to finish")

	select {
	case msg := <-sender.sent:
		if msg.To != "office@test.com" {
			t.Fatalf("unexpected recipient %s", msg.To)
		}
	case err := <-sender.ctxErr:
		t.Fatalf("send aborted with request cancellation: %v", err)
	}
}

func TestSendAsyncSkipsEmptyMessages(t *testing.T) {
	sender := newFakeEmailSender()
	done := make(chan struct{})
	SendAsync(context.Background(), sender, Message{To: "office@test.com"}, nil, done)
	waitForSignal(t, done, "expected done to be closed")

	select {
	case <-sender.started:
		t.Fatal("expected no send for an empty message")
	default:
	}
}

func TestDetachedContextIgnoresParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := detachedContext(parent, time.Minute)
	defer stop()
	cancel()
	if err := ctx.Err(); err != nil {
		t.Fatalf("expected detached context, got %v", err)
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Fatalf("expected a deadline")
	}

	ctx, stop = detachedContext(context.Background(), time.Nanosecond)
	defer stop()
	<-ctx.Done()
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", ctx.Err())
	}
}
