package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
)

// File is the interchange format for exporting and importing a project.
type File struct {
	Version  int      `json:"version"`
	Snapshot Snapshot `json:"snapshot"`
}

// FileVersion is the current interchange format version.
const FileVersion = 1

// ExportFile writes a project snapshot as an indented JSON file.
func ExportFile(path string, snapshot Snapshot) error {
	data, err := json.MarshalIndent(File{Version: FileVersion, Snapshot: snapshot}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

// ImportFile reads and validates a project file. Validation runs against a
// schema inferred from the File type, so malformed or mistyped documents are
// rejected before anything reaches the store.
func ImportFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	schema, err := jsonschema.For[File](nil)
	if err != nil {
		return nil, fmt.Errorf("build project schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve project schema: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}
	if err := resolved.Validate(raw); err != nil {
		return nil, fmt.Errorf("project file failed schema validation: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode project file: %w", err)
	}
	if file.Version != FileVersion {
		return nil, fmt.Errorf("unsupported project file version %d", file.Version)
	}
	if file.Snapshot.Project.Name == "" {
		return nil, fmt.Errorf("project file is missing a project name")
	}
	return &file.Snapshot, nil
}
