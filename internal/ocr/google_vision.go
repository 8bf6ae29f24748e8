package ocr

import (
	"context"
	"fmt"
	"image"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"

	"pdfkeyword/internal/render"
)

// MaxVisionImageBytes is the Cloud Vision limit for inline image content.
const MaxVisionImageBytes = 20 * 1024 * 1024

type imageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// GoogleVisionEngine implements Engine using Google Cloud Vision document
// text detection on the rendered page.
type GoogleVisionEngine struct {
	client imageAnnotator
}

// NewGoogleVisionEngine creates a Vision client from creds.
func NewGoogleVisionEngine(ctx context.Context, creds GoogleCredentials) (*GoogleVisionEngine, error) {
	const op = "NewGoogleVisionEngine"

	opts := creds.clientOptions()
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if len(opts) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, "failed to create Vision client")
	}
	return &GoogleVisionEngine{client: client}, nil
}

// NewGoogleVisionEngineWithClient creates an engine with an explicit client (for testing).
func NewGoogleVisionEngineWithClient(client imageAnnotator) *GoogleVisionEngine {
	return &GoogleVisionEngine{client: client}
}

func (g *GoogleVisionEngine) Name() string { return "vision" }

// Recognize sends the page as PNG with a language hint.
func (g *GoogleVisionEngine) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	const op = "Recognize"

	if err := checkImage(img); err != nil {
		return "", WrapOCRError(op, err, "")
	}
	data, err := render.EncodePNG(img)
	if err != nil {
		return "", WrapOCRError(op, ErrOCRFailed, err.Error())
	}
	if len(data) > MaxVisionImageBytes {
		return "", WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("page image is %d bytes, limit is %d; lower --dpi or --max-pixels", len(data), MaxVisionImageBytes))
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{
					LanguageHints: []string{languageHint(lang)},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		if isLanguageRejection(err.Error()) {
			return "", WrapOCRError(op, ErrLanguageUnavailable, err.Error())
		}
		return "", WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.GetResponses()) == 0 {
		return "", WrapOCRError(op, ErrOCRFailed, "no response from Vision API")
	}

	imgResp := resp.GetResponses()[0]
	if status := imgResp.GetError(); status != nil && status.GetCode() != 0 {
		if isLanguageRejection(status.GetMessage()) {
			return "", WrapOCRError(op, ErrLanguageUnavailable, status.GetMessage())
		}
		return "", WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", status.GetMessage()))
	}

	// A page without text has no annotation; that is an empty page, not an error.
	return imgResp.GetFullTextAnnotation().GetText(), nil
}

// Close closes the underlying Vision client.
func (g *GoogleVisionEngine) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
