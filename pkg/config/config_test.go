package config

import (
	"os"
	"path/filepath"
	"testing"
)

const yamlConfig = `bindings:
  orders-in:
    destination: orders
    group: grp1
  audit-out:
    destination: audit
    autoStartup: false
`

const jsonConfig = `{
  "bindings": {
    "orders-in": {"destination": "orders", "group": "grp1"}
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "bindings.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	orders, ok := cfg.Bindings["orders-in"]
	if !ok {
		t.Fatal("missing orders-in binding")
	}
	if orders.Destination != "orders" || orders.Group != "grp1" {
		t.Errorf("unexpected orders-in properties: %+v", orders)
	}
	if !orders.IsAutoStartup() {
		t.Error("autoStartup must default to true")
	}

	audit := cfg.Bindings["audit-out"]
	if audit.Group != "" {
		t.Errorf("expected anonymous audit-out binding, got group %q", audit.Group)
	}
	if audit.IsAutoStartup() {
		t.Error("expected autoStartup false for audit-out")
	}
}

func TestLoad_JSON(t *testing.T) {
	cfg, err := Load(writeFile(t, "bindings.json", jsonConfig))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Bindings["orders-in"].Destination != "orders" {
		t.Errorf("unexpected config: %+v", cfg.Bindings)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	if _, err := Load(writeFile(t, "bindings.toml", "")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestValidate_MissingDestination(t *testing.T) {
	cfg := &Config{Bindings: map[string]BindingProperties{
		"orders-in": {Group: "grp1"},
	}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing destination")
	}
}
