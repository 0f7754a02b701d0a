package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"smokey-backend/internal/utils"
)

// MediaUploadResult is what the upload endpoint hands back to the admin UI
type MediaUploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
	Format   string `json:"format,omitempty"`
	Bytes    int64  `json:"bytes,omitempty"`
}

// MediaService uploads product images and videos to the media CDN using an
// unsigned upload preset
type MediaService struct {
	uploadURL    string
	uploadPreset string
	maxFileSize  int64
	allowedTypes []string
	client       *http.Client
}

// NewMediaService creates a new media service
func NewMediaService(uploadURL, uploadPreset string, maxFileSize int64, allowedTypes []string) *MediaService {
	return &MediaService{
		uploadURL:    uploadURL,
		uploadPreset: uploadPreset,
		maxFileSize:  maxFileSize,
		allowedTypes: allowedTypes,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// ValidateFile checks declared content type and size before the bytes are
// read
func (s *MediaService) ValidateFile(contentType string, size int64) error {
	if size > s.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (limit %d)", size, s.maxFileSize)
	}
	if !utils.Contains(s.allowedTypes, contentType) {
		return fmt.Errorf("unsupported file type: %s", contentType)
	}
	return nil
}

// Upload streams a file to the CDN and returns the hosted URL. Progress is
// reported through the optional callback as bytes are consumed.
func (s *MediaService) Upload(filename string, file io.Reader, progress func(sent int64)) (*MediaUploadResult, error) {
	if s.uploadURL == "" || s.uploadPreset == "" {
		return nil, fmt.Errorf("media upload is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("upload_preset", s.uploadPreset); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload form: %w", err)
	}

	var reader io.Reader = &body
	if progress != nil {
		reader = &countingReader{r: reader, report: progress}
	}

	req, err := http.NewRequest(http.MethodPost, s.uploadURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = int64(body.Len())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Media upload failed with status %d: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	var parsed struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		PublicID  string `json:"public_id"`
		Format    string `json:"format"`
		Bytes     int64  `json:"bytes"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	url := parsed.SecureURL
	if url == "" {
		url = parsed.URL
	}
	if url == "" {
		return nil, fmt.Errorf("upload response carried no file URL")
	}

	return &MediaUploadResult{
		URL:      url,
		PublicID: parsed.PublicID,
		Format:   parsed.Format,
		Bytes:    parsed.Bytes,
	}, nil
}

// countingReader reports cumulative bytes read to a callback
type countingReader struct {
	r      io.Reader
	sent   int64
	report func(sent int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sent += int64(n)
		c.report(c.sent)
	}
	return n, err
}
