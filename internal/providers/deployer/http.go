package deployer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type HTTPProvider struct {
	cfg    Config
	creds  CredentialSource
	client *http.Client
	log    *zap.Logger
}

func NewHTTP(cfg Config, creds CredentialSource, log *zap.Logger) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPProvider{
		cfg:    cfg,
		creds:  creds,
		client: &http.Client{Timeout: timeout},
		log:    log.Named("providers.deployer"),
	}
}

// Provision forces a fresh credential: a launch must never run under a token
// of unknown age.
func (p *HTTPProvider) Provision(ctx context.Context, req ProvisionRequest) (ProvisionResponse, error) {
	token, err := p.creds.Fresh(ctx)
	if err != nil {
		return ProvisionResponse{}, err
	}

	var resp ProvisionResponse
	if err := p.post(ctx, token, "/v1/provision", req, &resp); err != nil {
		return ProvisionResponse{}, err
	}
	if !resp.Accepted {
		return ProvisionResponse{}, fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}
	return resp, nil
}

// Status re-acquires a credential per call; the polling loop can outlive any
// single token's validity window.
func (p *HTTPProvider) Status(ctx context.Context, siteID string) (StatusResponse, error) {
	token, err := p.creds.Token(ctx)
	if err != nil {
		return StatusResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/v1/sites/"+siteID+"/status", nil)
	if err != nil {
		return StatusResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return StatusResponse{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, raw)
	}

	var parsed StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return StatusResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return parsed, nil
}

func (p *HTTPProvider) post(ctx context.Context, token, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.log.Warn("deployer request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: status %d", ErrCredential, resp.StatusCode)
	}
	if resp.StatusCode >= 500 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, raw)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, raw)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
