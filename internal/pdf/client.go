package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hmpps/licence-management-api/internal/system/config"
	"github.com/hmpps/licence-management-api/internal/system/constants"
	"github.com/hmpps/licence-management-api/internal/system/log"
)

// GeneratorClientInterface renders a named template with placeholder
// values into a PDF document.
type GeneratorClientInterface interface {
	Generate(ctx context.Context, template string, values map[string]string) ([]byte, error)
}

type generatorClient struct {
	baseURL    string
	enabled    bool
	httpClient *http.Client
}

func NewGeneratorClient(cfg config.PDFGeneratorConfig) GeneratorClientInterface {
	return &generatorClient{
		baseURL: cfg.BaseURL,
		enabled: cfg.Enabled,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type generateRequest struct {
	TemplateName string            `json:"templateName"`
	Values       map[string]string `json:"values"`
}

func (c *generatorClient) Generate(ctx context.Context, template string, values map[string]string) ([]byte, error) {
	if !c.enabled {
		return nil, fmt.Errorf("pdf generator is not enabled")
	}

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "PDFGeneratorClient"))

	body, err := json.Marshal(generateRequest{TemplateName: template, Values: values})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set(constants.ContentTypeHeaderName, constants.ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("PDF generator request failed", err, log.String("template", template))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("PDF generator returned unexpected status",
			log.String("template", template), log.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("pdf generator returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
