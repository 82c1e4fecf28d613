// ABOUTME: SigV4-signed HTTP transport backed by the AWS SDK credential chain.
// ABOUTME: Each call is bounded by a timeout and attempted exactly once.

package transport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// DefaultTimeout bounds a call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// MaxReplySize caps how much of a reply body is read (8MB).
const MaxReplySize = 8 << 20

// SigV4Config holds configuration for a SigV4 transport.
type SigV4Config struct {
	Service     string
	Region      string
	Credentials aws.CredentialsProvider
	HTTPClient  *http.Client
	Timeout     time.Duration
	Logger      *slog.Logger
}

// SigV4 signs every request with AWS Signature Version 4.
type SigV4 struct {
	service string
	region  string
	creds   aws.CredentialsProvider
	signer  *v4.Signer
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

var _ Transport = (*SigV4)(nil)

// NewSigV4 creates a transport from explicit configuration.
func NewSigV4(cfg SigV4Config) (*SigV4, error) {
	if cfg.Service == "" {
		return nil, errors.New("signing service is required")
	}
	if cfg.Region == "" {
		return nil, errors.New("signing region is required")
	}
	if cfg.Credentials == nil {
		return nil, errors.New("credentials provider is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SigV4{
		service: cfg.Service,
		region:  cfg.Region,
		creds:   aws.NewCredentialsCache(cfg.Credentials),
		signer:  v4.NewSigner(),
		client:  client,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// LoadSigV4 creates a transport using the ambient AWS credential chain
// (environment, shared config, container or instance role).
func LoadSigV4(ctx context.Context, service, region string, timeout time.Duration, logger *slog.Logger) (*SigV4, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewSigV4(SigV4Config{
		Service:     service,
		Region:      region,
		Credentials: awsCfg.Credentials,
		Timeout:     timeout,
		Logger:      logger,
	})
}

// Post signs and sends body as application/json. Expiry of the timeout is
// reported as an error like any other transport failure.
func (s *SigV4) Post(ctx context.Context, url string, body []byte) (*Reply, error) {
	if url == "" {
		return nil, ErrNoEndpoint
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	creds, err := s.creds.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieving credentials: %w", err)
	}

	sum := sha256.Sum256(body)
	if err := s.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(sum[:]), s.service, s.region, s.now()); err != nil {
		return nil, fmt.Errorf("signing request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxReplySize))
	if err != nil {
		return nil, fmt.Errorf("reading reply: %w", err)
	}

	s.logger.Debug("signed call complete",
		"service", s.service,
		"status", resp.StatusCode,
		"bytes", len(data),
	)

	return &Reply{StatusCode: resp.StatusCode, Body: data}, nil
}
