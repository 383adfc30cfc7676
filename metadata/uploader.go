package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/solpipe/solpipe-scripts/config"
)

const (
	KIND_HTTP = "http"
	KIND_FILE = "file"
)

// MAX_RESPONSE_SIZE caps how much of an upload response is read.
const MAX_RESPONSE_SIZE = 1 << 20

type HTTPUploader struct {
	client   *http.Client
	endpoint string
	gateway  string
}

// NewHTTPUploader posts to endpoint; the returned uri is gateway joined with
// the id in the response.
func NewHTTPUploader(client *http.Client, endpoint string, gateway string) (*HTTPUploader, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("endpoint: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if len(gateway) == 0 {
		gateway = strings.TrimSuffix(endpoint, "/") + "/"
	}
	return &HTTPUploader{client: client, endpoint: endpoint, gateway: gateway}, nil
}

type uploadResponse struct {
	Id string `json:"id"`
}

func (hu *HTTPUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hu.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := hu.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, MAX_RESPONSE_SIZE))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	ur := new(uploadResponse)
	if err = json.Unmarshal(body, ur); err != nil {
		return "", fmt.Errorf("upload response: %w", err)
	}
	if len(ur.Id) == 0 {
		return "", errors.New("upload response has no id")
	}
	uri := strings.TrimSuffix(hu.gateway, "/") + "/" + ur.Id
	log.Debugf("uploaded %d bytes to %s", len(data), uri)
	return uri, nil
}

type FileUploader struct {
	dir string
}

// NewFileUploader stores uploads under dir, creating it when missing.
func NewFileUploader(dir string) (*FileUploader, error) {
	if len(dir) == 0 {
		return nil, errors.New("no directory")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(abs, 0755); err != nil {
		return nil, err
	}
	return &FileUploader{dir: abs}, nil
}

func (fu *FileUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uuid.New().String() + extension(contentType)
	fp := filepath.Join(fu.dir, name)
	if err := os.WriteFile(fp, data, 0644); err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(fp)}
	return u.String(), nil
}

func extension(contentType string) string {
	if contentType == CONTENT_TYPE_JSON {
		return ".json"
	}
	list, err := mime.ExtensionsByType(contentType)
	if err != nil || len(list) == 0 {
		return ""
	}
	return list[0]
}

func FromConfig(c config.UploaderConfig, client *http.Client) (Uploader, error) {
	switch c.Kind {
	case KIND_HTTP:
		return NewHTTPUploader(client, c.Endpoint, c.Gateway)
	case KIND_FILE:
		return NewFileUploader(c.Dir)
	default:
		return nil, fmt.Errorf("unknown uploader kind %s", c.Kind)
	}
}

// ContentType guesses from the file extension, then from the bytes.
func ContentType(fp string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(fp)); 0 < len(t) {
		return t
	}
	return http.DetectContentType(data)
}
