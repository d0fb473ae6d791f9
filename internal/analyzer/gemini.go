package analyzer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"cctvapi/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("gemini api key is not configured")
	ErrEmptyResponse = errors.New("gemini returned no candidates")
)

// Gemini implements Analyzer against the Gemini generateContent REST API.
type Gemini struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	prompt     string
}

// NewGemini creates a Gemini analyzer. The HTTP transport is wrapped with
// otelhttp so outbound calls show up as spans.
func NewGemini(cfg config.GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gemini{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		prompt:  cfg.Prompt,
	}, nil
}

var _ Analyzer = (*Gemini)(nil)

// generateContent request/response wire types, limited to the fields used here.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Describe sends the image and the configured instruction prompt to Gemini and
// returns the concatenated text parts of the first candidate.
func (g *Gemini) Describe(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image is empty")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	reqBody := generateRequest{
		Contents: []content{
			{
				Role: "user",
				Parts: []part{
					{InlineData: &inlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(image),
					}},
					{Text: g.prompt},
				},
			},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if len(out.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
