package gemini

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"cratepress/internal/config"
	"cratepress/internal/logging"
	"cratepress/internal/services"
)

const captionTemperature = 0.7

// Client generates sales captions from record photos using Gemini.
type Client struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  *slog.Logger
}

// New constructs a caption client from configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil || !cfg.GeminiConfigured() {
		return nil, services.Wrap(services.ErrConfiguration, "gemini", "new", "gemini api key is not configured", nil)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "gemini", "new", "create gemini client", err)
	}

	model := client.GenerativeModel(cfg.Gemini.Model)
	model.SetTemperature(captionTemperature)

	timeout := time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second
	return &Client{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logging.WithComponent(logger, "gemini"),
	}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Generate produces a sales caption from the front photo and, when
// available, the back photo of a record sleeve.
func (c *Client) Generate(ctx context.Context, front []byte, back []byte) (string, error) {
	if len(front) == 0 {
		return "", services.Wrap(services.ErrGeneration, "gemini", "generate", "front image is empty", nil)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	parts := []genai.Part{genai.Text(captionPrompt), genai.ImageData(imageFormat(front), front)}
	if len(back) > 0 {
		parts = append(parts, genai.ImageData(imageFormat(back), back))
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", services.Wrap(services.ErrGeneration, "gemini", "generate", "generate caption", err)
	}

	caption, err := textFromResponse(resp)
	if err != nil {
		return "", err
	}

	c.logger.Debug("caption generated", logging.Int("length", len(caption)))
	return caption, nil
}

// imageFormat sniffs the image subtype storage handed us. The listing
// accepts both jpeg and png photos, so the bytes decide.
func imageFormat(data []byte) string {
	if strings.HasPrefix(http.DetectContentType(data), "image/png") {
		return "png"
	}
	return "jpeg"
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", services.Wrap(services.ErrGeneration, "gemini", "generate", "no candidates returned", nil)
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", services.Wrap(services.ErrGeneration, "gemini", "generate", "empty content returned", nil)
	}
	text, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return "", services.Wrap(services.ErrGeneration, "gemini", "generate", "unexpected response part", nil)
	}

	caption := cleanCaption(string(text))
	if caption == "" {
		return "", services.Wrap(services.ErrGeneration, "gemini", "generate", "caption is empty after cleanup", nil)
	}
	return caption, nil
}

// cleanCaption strips the boilerplate intros the model sometimes prepends
// despite the prompt asking for the post text alone.
func cleanCaption(text string) string {
	caption := strings.TrimSpace(text)

	intros := []string{
		"Aqui está uma sugestão de post para o Instagram:",
		"Aqui está o post para o Instagram:",
		"Sugestão de post:",
		"Post para Instagram:",
	}
	for _, intro := range intros {
		caption = strings.TrimSpace(strings.TrimPrefix(caption, intro))
	}

	lines := strings.Split(caption, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "---" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
