package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

func TestPrintResults(t *testing.T) {
	results := []models.Candidate{
		{Title: "[SubsPlease] Frieren - 01 (1080p)", Size: 1 << 30, Seeders: 10, Accuracy: models.AccuracyLow},
		{Title: "[Group] Frieren Batch", Seeders: 2, Accuracy: models.AccuracyMedium, Type: models.TypeBatch},
		{Title: "third", Accuracy: models.AccuracyMedium},
	}

	var buf bytes.Buffer
	printResults(&buf, results, 2)

	out := buf.String()
	assert.Contains(t, out, "Found 3 torrents")
	assert.Contains(t, out, "[SubsPlease] Frieren - 01 (1080p) (Size: 1.00 GB, Seeders: 10, low)")
	assert.Contains(t, out, "(Size: 0.00 GB, Seeders: 2, batch, medium)")
	assert.Contains(t, out, "... 1 more")
	assert.NotContains(t, out, "third")
}

func TestSearchCommandRejectsBadFlags(t *testing.T) {
	cmd := RunSearchCommand()
	cmd.SetArgs([]string{"Frieren", "--kind", "season"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "unknown kind")

	cmd = RunSearchCommand()
	cmd.SetArgs([]string{"Frieren", "--resolution", "4k"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "unsupported resolution")
}
