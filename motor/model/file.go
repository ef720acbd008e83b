package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Write encodes the report as indented JSON.
func (r *AnalysisResult) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to write analysis result: %w", err)
	}
	return nil
}

// WriteFile stores the report at path, creating parent directories.
func (r *AnalysisResult) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create result file: %w", err)
	}
	if err := r.Write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Read decodes a report written by Write.
func Read(r io.Reader) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis result: %w", err)
	}
	return &result, nil
}

// ReadFile loads a report from path; "-" reads stdin.
func ReadFile(path string) (*AnalysisResult, error) {
	if path == "-" {
		return Read(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	defer file.Close()
	return Read(file)
}
