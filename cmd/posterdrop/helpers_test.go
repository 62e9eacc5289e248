package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/phrazzld/posterdrop/internal/config"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/generation"
	"github.com/phrazzld/posterdrop/internal/platform/gemini"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

const testConfigWithKey = `server:
  log_level: error
llm:
  gemini_api_key: AIzaTest
workflow:
  default_locations:
    - Rooftop
    - Subway
`

const testConfigWithoutKey = `server:
  log_level: error
workflow:
  default_locations:
    - Rooftop
`

type fakePosterService struct {
	err error

	mu     sync.Mutex
	slogan string
	ratio  domain.AspectRatio
}

func (f *fakePosterService) GeneratePoster(
	ctx context.Context,
	payload, slogan string,
	ratio domain.AspectRatio,
) (string, error) {
	f.mu.Lock()
	f.slogan, f.ratio = slogan, ratio
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return base64.StdEncoding.EncodeToString(pngBytes), nil
}

func (f *fakePosterService) MIMEType(payload string) (string, error) {
	return "image/png", nil
}

func (f *fakePosterService) lastRequest() (string, domain.AspectRatio) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slogan, f.ratio
}

type fakeVideoService struct {
	failures map[string]error
	baseURL  string
}

func (f *fakeVideoService) GenerateVideo(
	ctx context.Context,
	posterPayload, prompt string,
	ratio domain.AspectRatio,
	onCredentialInvalidated func(),
) (string, error) {
	if err := f.failures[prompt]; err != nil {
		if errors.Is(err, generation.ErrCredentialInvalid) {
			onCredentialInvalidated()
		}
		return "", err
	}
	base := f.baseURL
	if base == "" {
		base = "https://videos.example.com"
	}
	return base + "/" + url.PathEscape(prompt), nil
}

func fakeServices(posters *fakePosterService, videos *fakeVideoService) serviceFactory {
	return func(
		cfg *config.Config,
		keys gemini.APIKeyProvider,
		logger *slog.Logger,
	) (generation.PosterService, generation.VideoService, error) {
		return posters, videos, nil
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, services serviceFactory, args ...string) cliResult {
	t.Helper()

	cmd := newRootCommandWithServices(services)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
