package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/repslog/server/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// VisionClient talks to the external vision service used for OCR of
// workout scans and for labeling gym equipment photos.
type VisionClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewVisionClient(endpoint string) *VisionClient {
	return &VisionClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
}

type ocrResponse struct {
	Text string `json:"text"`
}

type labelsResponse struct {
	Labels []string `json:"labels"`
}

// Transcribe sends the image to the vision service OCR endpoint and
// returns the recognized text.
func (c *VisionClient) Transcribe(ctx context.Context, filename string, image io.Reader) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "visionClient.transcribe")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	respBytes, err := c.postImage(ctx, c.endpoint+"/v1/ocr", filename, image)
	if err != nil {
		return "", err
	}

	var ocrResp ocrResponse
	if err := json.Unmarshal(respBytes, &ocrResp); err != nil {
		return "", fmt.Errorf("unmarshal vision ocr response: %w", err)
	}
	return ocrResp.Text, nil
}

// Labels sends the image to the vision service labeling endpoint and
// returns the raw labels it sees in the photo.
func (c *VisionClient) Labels(ctx context.Context, filename string, image io.Reader) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "visionClient.labels")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	respBytes, err := c.postImage(ctx, c.endpoint+"/v1/labels", filename, image)
	if err != nil {
		return nil, err
	}

	var labelsResp labelsResponse
	if err := json.Unmarshal(respBytes, &labelsResp); err != nil {
		return nil, fmt.Errorf("unmarshal vision labels response: %w", err)
	}
	return labelsResp.Labels, nil
}

func (c *VisionClient) postImage(ctx context.Context, url, filename string, image io.Reader) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, image); err != nil {
		return nil, fmt.Errorf("copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	log.Debugf("calling vision service: %s", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision service status: %s", resp.Status)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read vision service response: %w", err)
	}
	return respBytes, nil
}
