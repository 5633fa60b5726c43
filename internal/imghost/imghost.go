// ABOUTME: ImgBB upload client for avatar images.
// ABOUTME: Validates type and size locally, downsamples oversized images.
package imghost

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultEndpoint = "https://api.imgbb.com/1/upload"

	// MaxUploadSize is the host's hard upload limit.
	MaxUploadSize = 32 << 20

	// Images wider or taller than this are downsampled before upload.
	maxWidth  = 1920
	maxHeight = 1080

	jpegQuality = 85
)

// allowedTypes are the content types the host accepts.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Upload is a successful upload result.
type Upload struct {
	URL       string
	DeleteURL string
	Width     int
	Height    int
	Size      int64
}

// Client uploads images to the host.
type Client struct {
	http     *resty.Client
	key      string
	endpoint string
	log      zerolog.Logger
}

// NewClient creates an upload client with the given API key.
func NewClient(key string, log zerolog.Logger) *Client {
	return &Client{
		http:     resty.New().SetTimeout(60 * time.Second),
		key:      key,
		endpoint: defaultEndpoint,
		log:      log.With().Str("component", "imghost").Logger(),
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
		DeleteURL  string `json:"delete_url"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		Size       int64  `json:"size"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload validates the image, downsamples it if oversized, and posts it.
// Validation failures never reach the network.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (*Upload, error) {
	if c.key == "" {
		return nil, fmt.Errorf("image host: no API key configured")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image host: empty image")
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("image host: image exceeds %d MB limit", MaxUploadSize>>20)
	}
	contentType := http.DetectContentType(data)
	if !allowedTypes[contentType] {
		return nil, fmt.Errorf("image host: unsupported type %s", contentType)
	}

	data = c.downsample(data, contentType)

	var result uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"key":   c.key,
			"image": base64.StdEncoding.EncodeToString(data),
			"name":  name,
		}).
		SetResult(&result).
		SetError(&result).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("image host: %w", err)
	}
	if resp.IsError() || !result.Success {
		if result.Error.Message != "" {
			return nil, fmt.Errorf("image host: %s", result.Error.Message)
		}
		return nil, fmt.Errorf("image host: status %d", resp.StatusCode())
	}

	out := &Upload{
		URL:       result.Data.DisplayURL,
		DeleteURL: result.Data.DeleteURL,
		Width:     result.Data.Width,
		Height:    result.Data.Height,
		Size:      result.Data.Size,
	}
	if out.URL == "" {
		out.URL = result.Data.URL
	}
	return out, nil
}

// downsample shrinks jpeg/png images that exceed the size cap, re-encoding
// as JPEG. Other formats and failures pass the original bytes through.
func (c *Client) downsample(data []byte, contentType string) []byte {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return data
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		c.log.Debug().Err(err).Msg("image decode failed, uploading as-is")
		return data
	}
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth && bounds.Dy() <= maxHeight {
		return data
	}

	resized := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		c.log.Debug().Err(err).Msg("image re-encode failed, uploading as-is")
		return data
	}
	return buf.Bytes()
}
