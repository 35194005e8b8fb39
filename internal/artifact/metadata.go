package artifact

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MetadataPath returns the sidecar path for an artifact.
func MetadataPath(artifactPath string) string {
	return artifactPath + ".meta.yaml"
}

// WriteMetadata writes meta as YAML next to the artifact.
func WriteMetadata(artifactPath string, meta Meta) (string, error) {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("artifact: marshal metadata: %w", err)
	}
	path := MetadataPath(artifactPath)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("artifact: write %s: %w", path, err)
	}
	return path, nil
}

// ReadMetadata reads the YAML sidecar of an artifact.
func ReadMetadata(artifactPath string) (Meta, error) {
	path := MetadataPath(artifactPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return Meta{}, fmt.Errorf("artifact: read %s: %w", path, err)
	}
	var meta Meta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("artifact: parse %s: %w", path, err)
	}
	return meta, nil
}
