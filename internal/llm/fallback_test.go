package llm

import (
	"context"
	"errors"
	"testing"
)

type stubClient struct {
	resp  Response
	err   error
	calls int
	last  Request
}

func (s *stubClient) Complete(_ context.Context, req Request) (Response, error) {
	s.calls++
	s.last = req
	return s.resp, s.err
}

func TestFallbackClientPrimarySuccess(t *testing.T) {
	primary := &stubClient{resp: Response{Text: "hello"}}
	fallback := &stubClient{resp: Response{Text: "backup"}}
	client := NewFallbackClient(primary, fallback, "backup-model", nil)

	resp, err := client.Complete(context.Background(), Request{Model: "main-model", Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "hello" {
		t.Errorf("Text = %q, want %q", resp.Text, "hello")
	}
	if fallback.calls != 0 {
		t.Error("fallback must not run when the primary succeeds")
	}
}

func TestFallbackClientFallsBack(t *testing.T) {
	primary := &stubClient{err: errors.New("quota exceeded")}
	fallback := &stubClient{resp: Response{Text: "backup"}}
	client := NewFallbackClient(primary, fallback, "backup-model", nil)

	resp, err := client.Complete(context.Background(), Request{Model: "main-model", Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "backup" {
		t.Errorf("Text = %q, want %q", resp.Text, "backup")
	}
	if fallback.last.Model != "backup-model" {
		t.Errorf("fallback request model = %q, want override %q", fallback.last.Model, "backup-model")
	}
	if fallback.last.Prompt != "hi" {
		t.Errorf("fallback request prompt = %q, want %q", fallback.last.Prompt, "hi")
	}
}

func TestFallbackClientBothFail(t *testing.T) {
	primaryErr := errors.New("primary down")
	fallbackErr := errors.New("fallback down")
	client := NewFallbackClient(&stubClient{err: primaryErr}, &stubClient{err: fallbackErr}, "", nil)

	_, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, fallbackErr) {
		t.Errorf("err = %v, want fallback error", err)
	}
}

func TestFallbackClientNoFallbackConfigured(t *testing.T) {
	primaryErr := errors.New("primary down")
	client := NewFallbackClient(&stubClient{err: primaryErr}, nil, "", nil)

	_, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, primaryErr) {
		t.Errorf("err = %v, want primary error", err)
	}
}

func TestFallbackClientKeepsModelWithoutOverride(t *testing.T) {
	fallback := &stubClient{resp: Response{Text: "backup"}}
	client := NewFallbackClient(&stubClient{err: errors.New("down")}, fallback, "", nil)

	if _, err := client.Complete(context.Background(), Request{Model: "main-model"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if fallback.last.Model != "main-model" {
		t.Errorf("fallback request model = %q, want pass-through %q", fallback.last.Model, "main-model")
	}
}
