package observability

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type alertGroup struct {
	Name  string      `yaml:"name"`
	Rules []alertRule `yaml:"rules"`
}

type alertSpec struct {
	Groups []alertGroup `yaml:"groups"`
}

func TestAlertRules(t *testing.T) {
	path := filepath.Join("..", "..", "deploy", "prometheus", "alerts", "gestao.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read alert file: %v", err)
	}

	var spec alertSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		t.Fatalf("failed to unmarshal alert file: %v", err)
	}

	if len(spec.Groups) == 0 {
		t.Fatal("expected at least one alert group")
	}

	var group *alertGroup
	for i := range spec.Groups {
		if spec.Groups[i].Name == "gestao" {
			group = &spec.Groups[i]
			break
		}
	}
	if group == nil {
		t.Fatal("gestao alert group missing")
	}

	expected := map[string]string{
		"HighErrorRate": "critical",
		"HighLatency":   "warning",
		"JobFailures":   "warning",
	}
	for _, rule := range group.Rules {
		severity, ok := expected[rule.Alert]
		if !ok {
			continue
		}
		delete(expected, rule.Alert)
		if rule.Labels["severity"] != severity {
			t.Fatalf("alert %s severity = %q, want %q", rule.Alert, rule.Labels["severity"], severity)
		}
		if rule.Expr == "" {
			t.Fatalf("alert %s missing expression", rule.Alert)
		}
		if rule.Annotations["runbook"] == "" {
			t.Fatalf("alert %s missing runbook annotation", rule.Alert)
		}
	}
	if len(expected) > 0 {
		t.Fatalf("missing alerts: %v", expected)
	}
}
