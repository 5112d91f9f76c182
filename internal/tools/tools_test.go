package tools

import (
	"strings"
	"testing"
	"time"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	// Test registration
	tool := NewDatetimeTool()
	err := registry.Register(tool)
	if err != nil {
		t.Fatalf("Failed to register tool: %v", err)
	}

	// Test duplicate registration
	err = registry.Register(tool)
	if err == nil {
		t.Error("Duplicate registration should return error")
	}

	// Test get
	got, exists := registry.Get("get_current_datetime")
	if !exists {
		t.Error("Should be able to get registered tool")
	}
	if got.Name() != "get_current_datetime" {
		t.Errorf("Tool name mismatch: expected get_current_datetime, got %s", got.Name())
	}

	// Test get non-existent tool
	_, exists = registry.Get("not_exist")
	if exists {
		t.Error("Should not get unregistered tool")
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Execute("not_exist", nil)
	if err == nil {
		t.Error("Executing unknown tool should return error")
	}
}

func TestRegistryResumeNonResumableTool(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(NewDatetimeTool()); err != nil {
		t.Fatal(err)
	}

	_, err := registry.Resume("get_current_datetime", nil, "yes")
	if err == nil {
		t.Error("Resuming a non-resumable tool should return error")
	}

	_, err = registry.Resume("not_exist", nil, "yes")
	if err == nil {
		t.Error("Resuming unknown tool should return error")
	}
}

func TestDefaultRegistry(t *testing.T) {
	registry := NewDefaultRegistry(&stubProvider{})

	expected := []string{"get_stock_price", "buy_stocks", "sell_stocks", "get_current_datetime"}
	for _, name := range expected {
		if _, exists := registry.Get(name); !exists {
			t.Errorf("Default registry should contain %s", name)
		}
	}
	if len(registry.List()) != len(expected) {
		t.Errorf("Expected %d tools, got %d", len(expected), len(registry.List()))
	}
}

func TestGetSchemas(t *testing.T) {
	registry := NewDefaultRegistry(&stubProvider{})

	schemas := registry.GetSchemas()
	if len(schemas) != 4 {
		t.Fatalf("Expected 4 schemas, got %d", len(schemas))
	}

	for _, schema := range schemas {
		if schema.Type != "function" {
			t.Errorf("Schema type should be function, got %s", schema.Type)
		}
		if schema.Function.Name == "" {
			t.Error("Schema function name should not be empty")
		}
		params, ok := schema.Function.Parameters["type"].(string)
		if !ok || params != "object" {
			t.Errorf("Schema parameters should be an object schema, got %v", schema.Function.Parameters)
		}
		if schema.Function.Name == "buy_stocks" || schema.Function.Name == "sell_stocks" {
			required, ok := schema.Function.Parameters["required"].([]string)
			if !ok || len(required) != 3 {
				t.Errorf("Trade schema should require 3 parameters, got %v", schema.Function.Parameters["required"])
			}
		}
	}
}

func TestDatetimeTool(t *testing.T) {
	tool := NewDatetimeTool()
	tool.now = func() time.Time {
		return time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	}

	result, err := tool.Execute(nil)
	if err != nil {
		t.Fatalf("Failed to execute datetime tool: %v", err)
	}
	if result != "2025-03-14 15:09:26" {
		t.Errorf("Datetime mismatch: got %s", result)
	}

	if len(tool.Parameters()) != 0 {
		t.Error("Datetime tool should take no parameters")
	}
	if !strings.Contains(tool.Description(), "date and time") {
		t.Errorf("Unexpected description: %s", tool.Description())
	}
}
