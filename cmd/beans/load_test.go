package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	beanErrors "mercator-hq/beans/pkg/beans/errors"
)

func TestLoadDefinitions(t *testing.T) {
	resetFlags(t)
	cmd, out := testCommand()

	if err := loadDefinitions(cmd, nil); err != nil {
		t.Fatalf("loadDefinitions() error = %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "Loaded 2 definitions (1 aliases, 0 overrides) from 1 sources\n") {
		t.Errorf("loadDefinitions() output = %q", got)
	}
}

func TestLoadDefinitionsJSON(t *testing.T) {
	tests := []struct {
		name          string
		profiles      []string
		wantOverrides int
		wantURL       string
	}{
		{name: "default", wantOverrides: 0, wantURL: "jdbc:h2:mem:app"},
		{name: "dev profile", profiles: []string{"dev"}, wantOverrides: 1, wantURL: "jdbc:h2:mem:dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			profiles = tt.profiles
			loadFlags.list = true
			loadFlags.format = "json"
			cmd, out := testCommand()

			if err := loadDefinitions(cmd, nil); err != nil {
				t.Fatalf("loadDefinitions() error = %v", err)
			}

			var summary LoadSummary
			if err := json.Unmarshal(out.Bytes(), &summary); err != nil {
				t.Fatalf("output is not JSON: %v\n%s", err, out.String())
			}
			if summary.Definitions != 2 {
				t.Errorf("Definitions = %d, want 2", summary.Definitions)
			}
			if summary.Overrides != tt.wantOverrides {
				t.Errorf("Overrides = %d, want %d", summary.Overrides, tt.wantOverrides)
			}
			if diff := cmp.Diff([]string{"app.xml"}, summary.Sources); diff != "" {
				t.Errorf("Sources mismatch (-want +got):\n%s", diff)
			}

			ids := make([]string, 0, len(summary.Beans))
			var url string
			for _, b := range summary.Beans {
				ids = append(ids, b.ID)
				if b.ID == "dataSource" {
					for _, p := range b.Properties {
						if p.Name == "url" {
							url = p.Value
						}
					}
				}
			}
			if diff := cmp.Diff([]string{"dataSource", "userService"}, ids); diff != "" {
				t.Errorf("bean ids mismatch (-want +got):\n%s", diff)
			}
			if url != tt.wantURL {
				t.Errorf("dataSource url = %q, want %q", url, tt.wantURL)
			}
		})
	}
}

func TestLoadDefinitionsList(t *testing.T) {
	resetFlags(t)
	loadFlags.list = true
	cmd, out := testCommand()

	if err := loadDefinitions(cmd, nil); err != nil {
		t.Fatalf("loadDefinitions() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("loadDefinitions() printed %d lines, want 6:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[3], "ID") || !strings.HasPrefix(lines[4], "dataSource") {
		t.Errorf("unexpected table:\n%s", strings.Join(lines[3:], "\n"))
	}
}

func TestLoadDefinitionsSorted(t *testing.T) {
	tests := []struct {
		name string
		sort bool
		want []string
	}{
		{name: "registration order", want: []string{"zeta", "alpha", "mid"}},
		{name: "sorted by id", sort: true, want: []string{"alpha", "mid", "zeta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			loadFlags.list = true
			loadFlags.sort = tt.sort
			loadFlags.format = "json"
			cmd, out := testCommand()

			if err := loadDefinitions(cmd, []string{"testdata/unordered.xml"}); err != nil {
				t.Fatalf("loadDefinitions() error = %v", err)
			}

			var summary LoadSummary
			if err := json.Unmarshal(out.Bytes(), &summary); err != nil {
				t.Fatalf("output is not JSON: %v\n%s", err, out.String())
			}
			ids := make([]string, 0, len(summary.Beans))
			for _, b := range summary.Beans {
				ids = append(ids, b.ID)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("bean ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadDefinitionsDuplicate(t *testing.T) {
	resetFlags(t)
	cmd, _ := testCommand()

	err := loadDefinitions(cmd, []string{"testdata/duplicate.xml"})
	if !errors.Is(err, beanErrors.ErrDuplicateIdentifier) {
		t.Errorf("loadDefinitions() error = %v, want ErrDuplicateIdentifier", err)
	}
}

func TestLoadDefinitionsBadFormat(t *testing.T) {
	resetFlags(t)
	loadFlags.format = "yaml"
	cmd, _ := testCommand()

	if err := loadDefinitions(cmd, nil); err == nil {
		t.Error("loadDefinitions() with unsupported format should return error")
	}
}

func TestGetDefinition(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		typeName string
		wantID   string
		wantErr  error
	}{
		{name: "by id", args: []string{"userService"}, wantID: "userService"},
		{name: "by alias", args: []string{"ds"}, wantID: "dataSource"},
		{name: "by type", typeName: "DataSource", wantID: "dataSource"},
		{name: "unknown id", args: []string{"dataSorce"}, wantErr: beanErrors.ErrNotFound},
		{name: "unknown type", typeName: "Mailer", wantErr: beanErrors.ErrAmbiguousBean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			getFlags.typeName = tt.typeName
			getFlags.format = "json"
			cmd, out := testCommand()

			err := getDefinition(cmd, tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("getDefinition() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("getDefinition() error = %v", err)
			}

			var view DefinitionView
			if err := json.Unmarshal(out.Bytes(), &view); err != nil {
				t.Fatalf("output is not JSON: %v\n%s", err, out.String())
			}
			if view.ID != tt.wantID {
				t.Errorf("getDefinition() id = %q, want %q", view.ID, tt.wantID)
			}
		})
	}
}

func TestGetDefinitionArgs(t *testing.T) {
	resetFlags(t)
	cmd, _ := testCommand()

	if err := getDefinition(cmd, nil); err == nil {
		t.Error("getDefinition() without id or --type should return error")
	}

	getFlags.typeName = "DataSource"
	if err := getDefinition(cmd, []string{"dataSource"}); err == nil {
		t.Error("getDefinition() with both id and --type should return error")
	}
}

func TestGetDefinitionText(t *testing.T) {
	resetFlags(t)
	cmd, out := testCommand()

	if err := getDefinition(cmd, []string{"userService"}); err != nil {
		t.Fatalf("getDefinition() error = %v", err)
	}

	want := []string{
		"id:       userService",
		"class:    UserService",
		"  dataSource -> dataSource",
		"  cache = <bean>",
		"    class:    LruCache",
		`      size = "128"`,
	}
	got := out.String()
	for _, line := range want {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("output missing %q:\n%s", line, got)
		}
	}
}
