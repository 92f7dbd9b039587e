package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"example.com/backstage/services/deliverynote/config"
)

const pinEndpoint = "https://api.pinata.cloud/pinning/pinFileToIPFS"

// Client is an interface for the content-addressed blob store. Store pins
// the bytes and returns their content hash; URLFor derives the public
// retrieval URL for a hash.
type Client interface {
	Store(ctx context.Context, data []byte, filename string) (string, error)
	URLFor(hash string) string
}

// pinataClient implements the Client interface against the Pinata pinning
// API
type pinataClient struct {
	apiKey     string
	apiSecret  string
	gatewayURL string
	httpClient *http.Client
}

// mockClient is a mock implementation for local development. It pins
// nothing and hands back the SHA-256 of the content as the hash.
type mockClient struct {
	gatewayURL string
}

// pinResponse is the subset of the pinning API response we use
type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// NewClient creates a new blob store client. Without an API key a mock
// store is returned so the service can run locally.
func NewClient(cfg config.BlobstoreConfig) Client {
	if cfg.APIKey == "" {
		return &mockClient{gatewayURL: cfg.GatewayURL}
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &pinataClient{
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		gatewayURL: cfg.GatewayURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Store uploads the bytes to the pinning service and returns the content
// hash. The request is bounded by both the context and the client timeout;
// a timeout surfaces as an upload failure like any other error.
func (c *pinataClient) Store(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}

	metadata, _ := json.Marshal(map[string]string{"name": filename})
	if err := writer.WriteField("pinataMetadata", string(metadata)); err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}
	if err := writer.WriteField("pinataOptions", `{"cidVersion":0}`); err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pinEndpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("pinning service returned status %d for %s", resp.StatusCode, filename)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read pinning response: %w", err)
	}

	var pinned pinResponse
	if err := json.Unmarshal(respBody, &pinned); err != nil {
		return "", fmt.Errorf("failed to decode pinning response: %w", err)
	}
	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("pinning response for %s carried no hash", filename)
	}

	return pinned.IpfsHash, nil
}

// URLFor derives the gateway retrieval URL for a content hash
func (c *pinataClient) URLFor(hash string) string {
	return fmt.Sprintf("https://%s/ipfs/%s", c.gatewayURL, hash)
}

// Store implementation for the mock client
func (m *mockClient) Store(ctx context.Context, data []byte, filename string) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// URLFor implementation for the mock client
func (m *mockClient) URLFor(hash string) string {
	return fmt.Sprintf("https://%s/ipfs/%s", m.gatewayURL, hash)
}
