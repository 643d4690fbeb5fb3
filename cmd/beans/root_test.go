package main

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/spf13/cobra"

	"mercator-hq/beans/pkg/beans/manager"
	"mercator-hq/beans/pkg/cli"
)

// resetFlags restores every flag global to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	cfgFile = "testdata/beans.yaml"
	verbose = false
	profiles = nil
	loadFlags.list = false
	loadFlags.sort = false
	loadFlags.format = "text"
	lintFlags.strict = false
	lintFlags.format = "text"
	getFlags.typeName = ""
	getFlags.format = "text"
	historyFlags.limit = 20
	historyFlags.status = ""
	historyFlags.since = 0
	historyFlags.prune = false
	historyFlags.format = "text"
	watchFlags.listenAddress = ""
}

// testCommand returns a command whose output is captured in the returned
// buffer. Logs are discarded.
func testCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	return cmd, buf
}

func TestReadConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfgFile     string
		args        []string
		profiles    []string
		verbose     bool
		wantSources []string
		wantBaseDir string
		wantLevel   string
		wantErr     bool
	}{
		{
			name:        "config file",
			cfgFile:     "testdata/beans.yaml",
			wantSources: []string{"app.xml"},
			wantBaseDir: "testdata",
			wantLevel:   "error",
		},
		{
			name:        "arguments replace sources",
			cfgFile:     "testdata/beans.yaml",
			args:        []string{"testdata/dangling.xml"},
			wantSources: []string{"testdata/dangling.xml"},
			wantBaseDir: "",
			wantLevel:   "error",
		},
		{
			name:        "missing default file uses defaults",
			cfgFile:     defaultConfigFile,
			args:        []string{"a.xml"},
			verbose:     true,
			wantSources: []string{"a.xml"},
			wantLevel:   "debug",
		},
		{
			name:    "missing explicit file",
			cfgFile: "testdata/missing.yaml",
			wantErr: true,
		},
		{
			name:     "invalid profile",
			cfgFile:  "testdata/beans.yaml",
			profiles: []string{"!prod"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			cfgFile = tt.cfgFile
			verbose = tt.verbose
			profiles = tt.profiles

			cfg, err := readConfig(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("readConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var cfgErr *cli.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("readConfig() error = %T, want *cli.ConfigError", err)
				}
				return
			}
			if len(cfg.Beans.Sources) != len(tt.wantSources) || cfg.Beans.Sources[0] != tt.wantSources[0] {
				t.Errorf("Sources = %v, want %v", cfg.Beans.Sources, tt.wantSources)
			}
			if cfg.Beans.BaseDir != tt.wantBaseDir {
				t.Errorf("BaseDir = %q, want %q", cfg.Beans.BaseDir, tt.wantBaseDir)
			}
			if cfg.Telemetry.Logging.Level != tt.wantLevel {
				t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, tt.wantLevel)
			}
		})
	}
}

func TestLoadConfigNoSources(t *testing.T) {
	resetFlags(t)
	cfgFile = defaultConfigFile

	_, err := loadConfig(nil)
	if err == nil {
		t.Fatal("loadConfig() without sources should return error")
	}
	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Message != manager.ErrNoSources.Error() {
		t.Errorf("loadConfig() error = %v, want config error %q", err, manager.ErrNoSources)
	}
}

func TestRootCommands(t *testing.T) {
	want := map[string]bool{"load": true, "lint": true, "get": true, "watch": true, "history": true, "version": true}
	for _, c := range rootCmd.Commands() {
		delete(want, c.Name())
	}
	for name := range want {
		t.Errorf("rootCmd is missing the %q command", name)
	}
}
