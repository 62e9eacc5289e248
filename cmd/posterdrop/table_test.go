package main

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRenderVideoTable(t *testing.T) {
	out := renderVideoTable([]domain.VideoTask{
		{ID: uuid.New(), Prompt: "Rooftop", Status: domain.VideoStatusCompleted, URL: "https://v/1"},
		{ID: uuid.New(), Prompt: "Subway", Status: domain.VideoStatusFailed},
	})

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[1], "LOCATION")
	assert.Contains(t, out, "https://v/1")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "│ -")
}

func TestRenderTable_NoColumns(t *testing.T) {
	assert.Empty(t, renderTable(nil, [][]string{{"x"}}))
}
