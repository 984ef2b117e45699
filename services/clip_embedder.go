package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github/itish2003/localassist/models"
)

// CLIPEmbedder talks to a CLIP server using the clip-as-service HTTP
// protocol. Images and text land in the same embedding space.
type CLIPEmbedder struct {
	httpClient *http.Client
	baseURL    string
	imageSize  int
}

func NewCLIPEmbedder(client *http.Client, baseURL string, imageSize int) *CLIPEmbedder {
	return &CLIPEmbedder{
		httpClient: client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		imageSize:  imageSize,
	}
}

func (c *CLIPEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return c.encode(ctx, models.ClipDoc{Text: text})
}

// EmbedImage normalises the image to RGB PNG before sending it as a data URI.
func (c *CLIPEmbedder) EmbedImage(ctx context.Context, data []byte) ([]float32, error) {
	img, err := PrepareImage(data, c.imageSize)
	if err != nil {
		return nil, err
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
	return c.encode(ctx, models.ClipDoc{URI: uri})
}

func (c *CLIPEmbedder) encode(ctx context.Context, doc models.ClipDoc) ([]float32, error) {
	reqBody, err := json.Marshal(models.ClipRequest{
		Data:         []models.ClipDoc{doc},
		ExecEndpoint: "/",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal clip request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/post", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create clip http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call clip server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("clip server returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var clipResp models.ClipResponse
	if err := json.NewDecoder(resp.Body).Decode(&clipResp); err != nil {
		return nil, fmt.Errorf("failed to decode clip response: %w", err)
	}
	if len(clipResp.Data) == 0 || len(clipResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("clip server returned no embedding")
	}
	return clipResp.Data[0].Embedding, nil
}
