package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Success(t *testing.T) {
	t.Setenv(fallbackKeyEnv, "")

	configPath := writeFile(t, "posterdrop.yaml", []byte(testConfigWithKey))
	imagePath := writeFile(t, "shoe.png", pngBytes)
	posterOut := filepath.Join(t.TempDir(), "poster.png")

	posters := &fakePosterService{}
	res := runCLI(t, fakeServices(posters, &fakeVideoService{}),
		"--config", configPath,
		"generate",
		"--image", imagePath,
		"--slogan", "Walk on air",
		"--aspect-ratio", "9:16",
		"--location", "Times Square billboard",
		"--location", "NYC subway lightbox",
		"--poster-out", posterOut,
	)
	require.NoError(t, res.err, res.stderr)

	slogan, ratio := posters.lastRequest()
	assert.Equal(t, "Walk on air", slogan)
	assert.Equal(t, domain.AspectRatioPortrait, ratio)

	written, err := os.ReadFile(posterOut)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, written)

	assert.Contains(t, res.stdout, "Poster written to "+posterOut)
	assert.Contains(t, res.stdout, "Times Square billboard")
	assert.Contains(t, res.stdout, "https://videos.example.com/NYC%20subway%20lightbox")
	assert.Contains(t, res.stdout, string(domain.VideoStatusCompleted))
	assert.NotContains(t, res.stdout, "Rooftop", "config locations must be replaced")
}

func TestGenerate_DefaultsFromConfig(t *testing.T) {
	t.Setenv(fallbackKeyEnv, "")

	configPath := writeFile(t, "posterdrop.yaml", []byte(testConfigWithKey))
	imagePath := writeFile(t, "shoe.png", pngBytes)

	posters := &fakePosterService{}
	res := runCLI(t, fakeServices(posters, &fakeVideoService{}),
		"--config", configPath, "generate", "--image", imagePath)
	require.NoError(t, res.err, res.stderr)

	slogan, ratio := posters.lastRequest()
	assert.Equal(t, "Your Brand, Everywhere.", slogan)
	assert.Equal(t, domain.AspectRatioSquare, ratio)
	assert.Contains(t, res.stdout, "Rooftop")
	assert.Contains(t, res.stdout, "Subway")
}

func TestGenerate_EmptySloganFlag(t *testing.T) {
	t.Setenv(fallbackKeyEnv, "")

	configPath := writeFile(t, "posterdrop.yaml", []byte(testConfigWithKey))
	imagePath := writeFile(t, "shoe.png", pngBytes)

	posters := &fakePosterService{}
	res := runCLI(t, fakeServices(posters, &fakeVideoService{}),
		"--config", configPath, "generate", "--image", imagePath, "--slogan", "")
	require.NoError(t, res.err, res.stderr)

	slogan, _ := posters.lastRequest()
	assert.Equal(t, "", slogan)
}

func TestGenerate_VideoFailure(t *testing.T) {
	t.Setenv(fallbackKeyEnv, "")

	configPath := writeFile(t, "posterdrop.yaml", []byte(testConfigWithKey))
	imagePath := writeFile(t, "shoe.png", pngBytes)

	videos := &fakeVideoService{failures: map[string]error{
		"Subway": fmt.Errorf("%w: quota", generation.ErrTransientFailure),
	}}
	res := runCLI(t, fakeServices(&fakePosterService{}, videos),
		"--config", configPath, "generate", "--image", imagePath)

	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errVideosFailed))
	assert.Contains(t, res.err.Error(), "1 of 2 videos failed")
	assert.Contains(t, res.err.Error(), `Failed video for "Subway".`)
	assert.Contains(t, res.stdout, string(domain.VideoStatusFailed))
	assert.Contains(t, res.stdout, "https://videos.example.com/Rooftop")
}

func TestGenerate_RejectedKey(t *testing.T) {
	t.Setenv(fallbackKeyEnv, "")

	configPath := writeFile(t, "posterdrop.yaml", []byte(testConfigWithKey))
	imagePath := writeFile(t, "shoe.png", pngBytes)

	videos := &fakeVideoService{failures: map[string]error{
		"Rooftop": fmt.Errorf("%w: API key not valid", generation.ErrCredentialInvalid),
	}}
	res := runCLI(t, fakeServices(&fakePosterService{}, videos),
		"--config", configPath, "generate", "--image", imagePath)

	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errVideosFailed))
	assert.Contains(t, res.err.Error(), "rejected")
}

func TestGenerate_PosterFailure(t *testing.T) {
	t.Setenv(fallbackKeyEnv, "")

	configPath := writeFile(t, "posterdrop.yaml", []byte(testConfigWithKey))
	imagePath := writeFile(t, "shoe.png", pngBytes)

	posters := &fakePosterService{err: fmt.Errorf("%w: blocked", generation.ErrContentBlocked)}
	res := runCLI(t, fakeServices(posters, &fakeVideoService{}),
		"--config", configPath, "generate", "--image", imagePath)

	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errPosterFailed))
	assert.Contains(t, res.err.Error(), "Failed to generate poster. Please try again.")
	assert.Empty(t, res.stdout)
}

func TestGenerate_Errors(t *testing.T) {
	t.Setenv(fallbackKeyEnv, "")

	withKey := writeFile(t, "with-key.yaml", []byte(testConfigWithKey))
	withoutKey := writeFile(t, "without-key.yaml", []byte(testConfigWithoutKey))
	imagePath := writeFile(t, "shoe.png", pngBytes)
	textPath := writeFile(t, "notes.txt", []byte("just some notes"))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing image flag",
			args:    []string{"--config", withKey, "generate"},
			wantErr: `required flag(s) "image" not set`,
		},
		{
			name:    "missing config file",
			args:    []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "generate", "--image", imagePath},
			wantErr: "failed to read config file",
		},
		{
			name:    "no key",
			args:    []string{"--config", withoutKey, "generate", "--image", imagePath},
			wantErr: "no API key available",
		},
		{
			name:    "unsupported image",
			args:    []string{"--config", withKey, "generate", "--image", textPath},
			wantErr: "unsupported image type",
		},
		{
			name:    "missing image file",
			args:    []string{"--config", withKey, "generate", "--image", filepath.Join(t.TempDir(), "gone.png")},
			wantErr: "failed to open image",
		},
		{
			name:    "bad aspect ratio",
			args:    []string{"--config", withKey, "generate", "--image", imagePath, "--aspect-ratio", "2:1"},
			wantErr: "invalid aspect ratio",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, fakeServices(&fakePosterService{}, &fakeVideoService{}), tc.args...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tc.wantErr)
		})
	}
}
