package dropbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cimillas/cert-checkout/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

const uploadRetryDelay = 500 * time.Millisecond

var recordJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Client writes order records to the Dropbox backend. Every call pulls
// a valid access token from the TokenSource first.
type Client struct {
	cfg        Config
	tokens     *TokenSource
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(cfg Config, tokens *TokenSource, logger zerolog.Logger) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
	}
}

// EnsureFolder makes sure the orders folder exists. It is idempotent:
// an existing folder, or a create that loses a race to another creator,
// both count as success.
func (c *Client) EnsureFolder(ctx context.Context) error {
	status, body, err := c.rpc(ctx, "/2/files/get_metadata", map[string]any{
		"path": c.cfg.RootFolder,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFolderEnsure, err)
	}
	if status == http.StatusOK {
		return nil
	}
	if status != http.StatusConflict || !strings.Contains(string(body), "not_found") {
		return fmt.Errorf("%w: get_metadata returned %d: %s", domain.ErrFolderEnsure, status, body)
	}

	status, body, err = c.rpc(ctx, "/2/files/create_folder_v2", map[string]any{
		"path":       c.cfg.RootFolder,
		"autorename": false,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFolderEnsure, err)
	}
	if status == http.StatusOK {
		c.logger.Info().Str("path", c.cfg.RootFolder).Msg("orders folder created")
		return nil
	}
	// Another writer created the folder between the check and the create.
	if status == http.StatusConflict {
		return nil
	}
	return fmt.Errorf("%w: create_folder returned %d: %s", domain.ErrFolderEnsure, status, body)
}

// SaveOrder serializes the record and uploads it as a new file under
// the orders folder. The upload never overwrites: Dropbox auto-renames
// on a path collision. Returns the path the record was stored under.
// One failed attempt is retried once after a short delay.
func (c *Client) SaveOrder(ctx context.Context, record domain.OrderRecord) (string, error) {
	contents, err := recordJSON.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: marshal record: %v", domain.ErrStorageWrite, err)
	}

	path := fmt.Sprintf("%s/%s-%s-%s-%s.json",
		c.cfg.RootFolder,
		record.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		record.OrderID,
		record.CertificateType,
		domain.RandomSuffix(4),
	)

	stored, err := c.upload(ctx, path, contents)
	if err != nil {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", domain.ErrStorageWrite, ctx.Err())
		case <-time.After(uploadRetryDelay):
		}
		c.logger.Warn().Err(err).Str("path", path).Msg("upload failed, retrying once")
		stored, err = c.upload(ctx, path, contents)
	}
	if err != nil {
		return "", err
	}

	c.logger.Info().Str("path", stored).Str("order_id", record.OrderID).Msg("order record stored")
	return stored, nil
}

func (c *Client) upload(ctx context.Context, path string, contents []byte) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}

	arg, err := json.Marshal(map[string]any{
		"path":       path,
		"mode":       "add",
		"autorename": true,
		"mute":       true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal upload arg: %v", domain.ErrStorageWrite, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ContentURL+"/2/files/upload", bytes.NewReader(contents))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Dropbox-API-Arg", string(arg))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrStorageWrite, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: upload returned %d: %s", domain.ErrStorageWrite, resp.StatusCode, body)
	}

	var payload struct {
		PathDisplay string `json:"path_display"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrStorageWrite, err)
	}
	if payload.PathDisplay == "" {
		return path, nil
	}
	return payload.PathDisplay, nil
}

// rpc posts a JSON argument to an api.dropboxapi.com endpoint and
// returns the raw status and body; callers interpret conflict payloads.
func (c *Client) rpc(ctx context.Context, endpoint string, arg map[string]any) (int, []byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, nil, err
	}

	payload, err := json.Marshal(arg)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
