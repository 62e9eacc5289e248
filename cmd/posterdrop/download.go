package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/redact"
)

var errDownloadFailed = errors.New("video download failed")

// videoFileName names a downloaded video after its location prompt. Every
// whitespace character and path separator becomes an underscore.
func videoFileName(prompt string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, prompt)
	return name + ".mp4"
}

// downloadVideos saves every completed video into dir. Failed and unfinished
// tasks are skipped. Each download is attempted even when an earlier one
// failed; the returned error joins every failure.
func (app *application) downloadVideos(ctx context.Context, videos []domain.VideoTask, dir string, out io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create video directory: %w", err)
	}

	var errs []error
	for _, v := range videos {
		if v.Status != domain.VideoStatusCompleted || v.URL == "" {
			continue
		}

		path := filepath.Join(dir, videoFileName(v.Prompt))
		n, err := app.downloadVideo(ctx, v.URL, path)
		if err != nil {
			app.logger.ErrorContext(ctx, "video download failed",
				"prompt", v.Prompt, "path", path, "error", redact.Error(err))
			errs = append(errs, fmt.Errorf("%w: %s: %s", errDownloadFailed, v.Prompt, redact.Error(err)))
			continue
		}

		app.logger.InfoContext(ctx, "video downloaded", "prompt", v.Prompt, "path", path, "bytes", n)
		fmt.Fprintf(out, "Video for %q written to %s\n", v.Prompt, path)
	}
	return errors.Join(errs...)
}

func (app *application) downloadVideo(ctx context.Context, handle, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, handle, nil)
	if err != nil {
		return 0, fmt.Errorf("create download request: %w", err)
	}

	resp, err := app.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download video: unexpected status %d", resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create video file: %w", err)
	}

	n, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("write video file: %w", err)
	}
	return n, nil
}
