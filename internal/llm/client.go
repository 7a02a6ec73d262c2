package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-3.5-turbo"
)

// Fixed generation parameters sent with every page.
const (
	temperature      float32 = 1.0
	maxTokens                = 2040
	topP             float32 = 1.0
	frequencyPenalty         = 0
	presencePenalty          = 0
)

const systemPromptTemplate = "Given the text below for a maths competition translate it in %s. " +
	"Try to retain formulas when you can, usage of LateX is ok. " +
	"Skip translating Rounds numbers, they are most likely at the bottom."

// Client handles communication with the chat-completion API
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	timeout    time.Duration
	retry      *RetryConfig
	httpClient *http.Client
	logger     *domain.Logger
}

// Option configures a Client
type Option func(*Client)

// WithEndpoint overrides the chat-completions URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMaxRetries enables retries on 429 and 5xx responses.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retry.MaxRetries = n
		}
	}
}

// WithRetryConfig replaces the whole retry policy.
func WithRetryConfig(cfg *RetryConfig) Option {
	return func(c *Client) {
		if cfg != nil {
			c.retry = cfg
		}
	}
}

// WithTimeout bounds each translation call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the client logger.
func WithLogger(l *domain.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.WithPrefix("llm")
		}
	}
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents the API request structure
type Request struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float32   `json:"temperature"`
	MaxTokens        int       `json:"max_tokens"`
	TopP             float32   `json:"top_p"`
	FrequencyPenalty int       `json:"frequency_penalty"`
	PresencePenalty  int       `json:"presence_penalty"`
}

// Response represents the API response structure
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice
type Choice struct {
	Message Message `json:"message"`
}

// NewClient creates a new translation client. The credential is passed in
// explicitly; the client never reads the environment.
func NewClient(apiKey, model string, opts ...Option) *Client {
	if model == "" {
		model = defaultModel
	}

	c := &Client{
		apiKey:     apiKey,
		model:      model,
		endpoint:   defaultEndpoint,
		retry:      DefaultRetryConfig(),
		httpClient: &http.Client{},
		logger:     domain.DefaultLogger.WithPrefix("llm"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate sends one page of text and returns the first choice's content.
// A response without choices yields an empty string and no error.
func (c *Client) Translate(ctx context.Context, text, language string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(c.buildRequest(text, language))
	if err != nil {
		return "", domain.APIError("Failed to marshal request", err)
	}

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		return c.httpClient.Do(req)
	})
	if err != nil {
		return "", domain.APIError("Failed to send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", domain.APIError(fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(bodyBytes)), nil)
	}

	var parsed Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domain.APIError("Failed to decode response", err)
	}

	if len(parsed.Choices) == 0 {
		c.logger.Debug("Response carried no choices, using empty translation")
		return "", nil
	}

	return parsed.Choices[0].Message.Content, nil
}

// buildRequest constructs the two-message exchange for one page
func (c *Client) buildRequest(text, language string) *Request {
	return &Request{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: buildSystemPrompt(language)},
			{Role: "user", Content: text},
		},
		Temperature:      temperature,
		MaxTokens:        maxTokens,
		TopP:             topP,
		FrequencyPenalty: frequencyPenalty,
		PresencePenalty:  presencePenalty,
	}
}

func buildSystemPrompt(language string) string {
	return fmt.Sprintf(systemPromptTemplate, language)
}
