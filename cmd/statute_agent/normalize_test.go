package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/statute-enricher/internal/types"
)

func TestNormalizeCommand_MissingFlags(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "Missing --in",
			args: []string{"normalize", "--out", "out.json"},
		},
		{
			name: "Missing --out",
			args: []string{"normalize", "--in", "in.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()

			assert.Error(t, err)
			assert.Contains(t, string(output), "required")
		})
	}
}

func TestNormalizeCommand_ValidInput(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "records.json")
	outputFile := filepath.Join(tmpDir, "statutes.json")

	records := `[
		{"_id": "r1", "statute_name": "the test act 1990", "number": "2", "content": "second"},
		{"_id": "r2", "statute_name": "THE TEST ACT 1990", "number": "preamble", "content": "opening"},
		{"_id": "r3", "statute_name": "the test act 1990", "number": "1", "content": "first"}
	]`
	require.NoError(t, os.WriteFile(inputFile, []byte(records), 0644))

	cmd := exec.Command(binaryPath, "normalize", "--in", inputFile, "--out", outputFile)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command output: %s", output)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var statutes []types.Statute
	require.NoError(t, json.Unmarshal(data, &statutes))
	require.Len(t, statutes, 1)

	assert.Equal(t, "The Test Act 1990", statutes[0].Name)
	require.Len(t, statutes[0].Sections, 3)
	assert.Equal(t, "preamble", statutes[0].Sections[0].Number)
	assert.Equal(t, "1", statutes[0].Sections[1].Number)
	assert.Equal(t, "2", statutes[0].Sections[2].Number)
}

func TestNormalizeCommand_InvalidInputFile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tmpDir := t.TempDir()
	outputFile := filepath.Join(tmpDir, "statutes.json")

	cmd := exec.Command(binaryPath, "normalize", "--in", "/nonexistent/records.json", "--out", outputFile)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to read input file")
}
