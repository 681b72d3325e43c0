package vision

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// fakeAPI is a deterministic stand-in for the chat-completion client.
type fakeAPI struct {
	resp    openai.ChatCompletionResponse
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

// completionWith wraps content in a single-choice response.
func completionWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

// TestClientAnalyze tests the vision producer against a fake API.
func TestClientAnalyze(t *testing.T) {
	t.Parallel()

	t.Run("returns the parsed signal", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{resp: completionWith(`{"ocr_text": "ACME receipt", "confidence_score": 88}`)}
		c := NewClient("test-key", withAPI(api))

		sig, err := c.Analyze(context.Background(), []byte("image"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sig.OCRText != "ACME receipt" {
			t.Errorf("ocr text = %q, want ACME receipt", sig.OCRText)
		}
		if sig.Confidence != 88 {
			t.Errorf("confidence = %v, want 88", sig.Confidence)
		}
	})

	t.Run("sends the image as a data url", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{resp: completionWith(`{"ocr_text": "t"}`)}
		c := NewClient("test-key", withAPI(api))

		if _, err := c.Analyze(context.Background(), []byte("image bytes")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		parts := api.lastReq.Messages[0].MultiContent
		if len(parts) != 2 {
			t.Fatalf("got %d message parts, want 2", len(parts))
		}
		if parts[1].ImageURL == nil || !strings.HasPrefix(parts[1].ImageURL.URL, "data:") {
			t.Errorf("image part = %+v, want data URL", parts[1])
		}
		if api.lastReq.Model != DefaultModel {
			t.Errorf("model = %q, want %q", api.lastReq.Model, DefaultModel)
		}
	})

	t.Run("custom model name is sent", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{resp: completionWith(`{"ocr_text": "t"}`)}
		c := NewClient("test-key", withAPI(api), WithModel("gpt-4o"))

		if _, err := c.Analyze(context.Background(), []byte("image")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if api.lastReq.Model != "gpt-4o" {
			t.Errorf("model = %q, want gpt-4o", api.lastReq.Model)
		}
	})

	t.Run("wraps transport errors", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("connection refused")
		api := &fakeAPI{err: wantErr}
		c := NewClient("test-key", withAPI(api))

		_, err := c.Analyze(context.Background(), []byte("image"))
		if !errors.Is(err, wantErr) {
			t.Errorf("err = %v, want wrapped %v", err, wantErr)
		}
	})

	t.Run("empty completion is an error", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			resp openai.ChatCompletionResponse
		}{
			{name: "no choices", resp: openai.ChatCompletionResponse{}},
			{name: "empty content", resp: completionWith("")},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				c := NewClient("test-key", withAPI(&fakeAPI{resp: tt.resp}))
				_, err := c.Analyze(context.Background(), []byte("image"))
				if !errors.Is(err, ErrEmptyResponse) {
					t.Errorf("err = %v, want ErrEmptyResponse", err)
				}
			})
		}
	})
}
