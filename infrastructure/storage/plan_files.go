package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"robotdriver/domain/entities"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for plan files that are neither JSON nor YAML
var ErrUnknownFormat = errors.New("unknown plan file format")

// LoadPlan - reads a plan from a .json, .yaml or .yml file
func LoadPlan(path string) (entities.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Plan{}, err
	}
	plan, err := DecodePlan(data, filepath.Ext(path))
	if err != nil {
		return entities.Plan{}, fmt.Errorf("failed to load plan %s: %w", path, err)
	}
	return plan, nil
}

// DecodePlan - decodes plan data; ext selects the format
func DecodePlan(data []byte, ext string) (entities.Plan, error) {
	var plan entities.Plan
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&plan); err != nil {
			return entities.Plan{}, err
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&plan); err != nil {
			return entities.Plan{}, err
		}
	default:
		return entities.Plan{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return plan, nil
}

// SaveReport - writes a plan result as indented JSON, creating parent dirs
func SaveReport(path string, result entities.PlanResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// LoadReport - reads a report written by SaveReport
func LoadReport(path string) (entities.PlanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.PlanResult{}, err
	}

	var result entities.PlanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return entities.PlanResult{}, err
	}

	return result, nil
}
