package server

import (
	"context"
	"errors"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_dimensions",
		"seam_carve",
		"seam_find",
		"energy_map",
		"mask_from_regions",
		"mask_analyze",
		"workspace_open",
		"workspace_carve",
		"workspace_view",
		"workspace_save",
		"workspace_reset",
		"workspace_close",
		"workspace_list",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required field must be a declared property.
			required, _ := tool.InputSchema["required"].([]string)
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required field %q is not a property", r)
				}
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	want := map[string][]string{
		"image_dimensions":  {"path"},
		"seam_carve":        {"image_path", "pixels"},
		"seam_find":         {"image_path"},
		"energy_map":        {"image_path"},
		"mask_from_regions": {"width", "height"},
		"mask_analyze":      {"mask_path"},
		"workspace_open":    {"image_path"},
		"workspace_carve":   {"workspace_id"},
		"workspace_view":    {"workspace_id"},
		"workspace_save":    {"workspace_id", "output_path"},
		"workspace_reset":   {"workspace_id"},
		"workspace_close":   {"workspace_id"},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for name, fields := range want {
		t.Run(name, func(t *testing.T) {
			tool, ok := toolMap[name]
			if !ok {
				t.Fatalf("tool %s not found", name)
			}
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			have := make(map[string]bool)
			for _, r := range required {
				have[r] = true
			}
			for _, f := range fields {
				if !have[f] {
					t.Errorf("%s should require %q", name, f)
				}
			}
			if len(required) != len(fields) {
				t.Errorf("required: got %v, want %v", required, fields)
			}
		})
	}
}

func TestToolDefinitions_SlotEnum(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "workspace_view" && tool.Name != "workspace_save" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		slot, ok := props["slot"].(map[string]interface{})
		if !ok {
			t.Fatalf("%s: slot property missing", tool.Name)
		}
		enum, ok := slot["enum"].([]string)
		if !ok {
			t.Fatalf("%s: slot enum should be a string slice", tool.Name)
		}
		if len(enum) != 3 || enum[0] != "source" || enum[1] != "mask" || enum[2] != "result" {
			t.Errorf("%s: slot enum got %v", tool.Name, enum)
		}
	}
}

func TestToolDefinitions_DispatchCoversAll(t *testing.T) {
	s := newTestServer(t)
	for _, tool := range GetToolDefinitions() {
		_, err := s.executeTool(context.Background(), tool.Name, []byte(`{}`))
		if err != nil && errors.Is(err, errUnknownTool) {
			t.Errorf("tool %s is listed but not dispatched", tool.Name)
		}
	}
}
