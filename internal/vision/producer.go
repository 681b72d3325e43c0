package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nao1215/receiptscan/internal/model"
)

// DefaultModel is the multimodal model used for receipt extraction.
const DefaultModel = openai.GPT4oMini

// maxTokens bounds the completion size. Receipt payloads are small;
// 2048 tokens covers even dense itemized receipts.
const maxTokens = 2048

// ErrEmptyResponse is returned when the model produces no usable content.
var ErrEmptyResponse = errors.New("vision: model returned empty response")

// extractionPrompt asks the model for the full receipt payload as JSON.
// Field names must stay in sync with the payload struct in parse.go.
const extractionPrompt = `Analyze this receipt image and extract ALL information in JSON format.

Return a JSON object with these fields:
{
  "ocr_text": "full text extracted from receipt",
  "merchant_name": "name of business/merchant",
  "total_amount": "total amount (number only)",
  "currency": "currency code (e.g., NGN, USD)",
  "receipt_date": "date on receipt (YYYY-MM-DD format)",
  "items": ["list of items purchased"],
  "account_numbers": ["any account numbers found"],
  "phone_numbers": ["any phone numbers found"],
  "visual_quality": "excellent|good|poor",
  "visual_anomalies": ["list any suspicious visual elements"],
  "confidence_score": 0-100
}

Be thorough and accurate. If any field is not found, use null.`

// completionAPI is the subset of the OpenAI client the producer uses.
// It exists so tests can substitute a deterministic stand-in.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client is the vision signal producer backed by a multimodal model.
type Client struct {
	// api is the chat-completion client.
	api completionAPI

	// model is the model name sent with each request.
	model string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the model name.
func WithModel(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.model = name
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// withAPI substitutes the completion API. Used by tests.
func withAPI(api completionAPI) Option {
	return func(c *Client) {
		c.api = api
	}
}

// NewClient creates a vision producer using the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		model: DefaultModel,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.api == nil {
		c.api = openai.NewClient(apiKey)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Analyze sends the receipt image to the model and returns the extracted
// vision signal. Any transport, model, or payload problem is returned as
// an error; the signal is never partially populated.
func (c *Client) Analyze(ctx context.Context, imageData []byte) (model.VisionSignal, error) {
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: extractionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL(imageData),
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return model.VisionSignal{}, fmt.Errorf("vision: completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return model.VisionSignal{}, ErrEmptyResponse
	}

	signal := parseResponse(resp.Choices[0].Message.Content)
	c.logger.Debug("vision: analysis completed",
		"confidence", signal.Confidence,
		"text_length", len(signal.OCRText),
	)
	return signal, nil
}

// dataURL encodes the image bytes as a data URL for the vision API.
func dataURL(imageData []byte) string {
	mime := http.DetectContentType(imageData)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(imageData)
}
