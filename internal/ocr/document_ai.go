package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"pdfkeyword/internal/render"
)

// DocumentAIConfig identifies the OCR processor to call.
type DocumentAIConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string
}

// ProcessorName returns the full resource name of the processor.
func (c DocumentAIConfig) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

type documentProcessor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
	Close() error
}

// DocumentAIEngine implements Engine with a Document AI OCR processor.
type DocumentAIEngine struct {
	client documentProcessor
	config DocumentAIConfig
}

// NewDocumentAIEngine creates a Document AI client for the processor's
// regional endpoint.
func NewDocumentAIEngine(ctx context.Context, config DocumentAIConfig, creds GoogleCredentials) (*DocumentAIEngine, error) {
	const op = "NewDocumentAIEngine"

	if config.ProjectID == "" {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	clientOptions := creds.clientOptions()
	hasCreds := len(clientOptions) > 0
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if !hasCreds {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIEngine{client: client, config: config}, nil
}

// NewDocumentAIEngineWithClient creates an engine with an explicit client (for testing).
func NewDocumentAIEngineWithClient(config DocumentAIConfig, client documentProcessor) *DocumentAIEngine {
	return &DocumentAIEngine{client: client, config: config}
}

func (d *DocumentAIEngine) Name() string { return "documentai" }

// Recognize processes the page PNG as a raw document.
func (d *DocumentAIEngine) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	const op = "Recognize"

	if err := checkImage(img); err != nil {
		return "", WrapOCRError(op, err, "")
	}
	data, err := render.EncodePNG(img)
	if err != nil {
		return "", WrapOCRError(op, ErrOCRFailed, err.Error())
	}

	req := &documentaipb.ProcessRequest{
		Name: d.config.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: "image/png",
			},
		},
		ProcessOptions: &documentaipb.ProcessOptions{
			OcrConfig: &documentaipb.OcrConfig{
				Hints: &documentaipb.OcrConfig_Hints{
					LanguageHints: []string{languageHint(lang)},
				},
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return "", d.handleProcessingError(op, err)
	}
	if resp.GetDocument() == nil {
		return "", WrapOCRError(op, ErrOCRFailed, "no document in response")
	}
	return resp.GetDocument().GetText(), nil
}

// handleProcessingError converts Document AI errors to OCR errors.
func (d *DocumentAIEngine) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "INVALID_ARGUMENT") && isLanguageRejection(errStr):
		return WrapOCRError(op, ErrLanguageUnavailable, errStr)
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapOCRError(op, ErrInvalidConfiguration, fmt.Sprintf("processor not found: %s", d.config.ProcessorID))
	case strings.Contains(errStr, "context deadline exceeded"):
		return WrapOCRError(op, context.DeadlineExceeded, "processing timeout")
	case strings.Contains(errStr, "context canceled"):
		return WrapOCRError(op, context.Canceled, "processing was canceled")
	default:
		return WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// Close closes the underlying Document AI client.
func (d *DocumentAIEngine) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
