package cli

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
}

func TestCurrentVersionInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main:      debug.Module{Path: "mapdex", Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "windows"},
			{Key: "GOARCH", Value: "amd64"},
		},
	}, true)

	want := versionInfo{
		Version:    "v1.2.3",
		ModulePath: "mapdex",
		Commit:     "abc123",
		CommitTime: "2026-02-14T17:00:00Z",
		Modified:   true,
		GoVersion:  "go1.23.4",
		GOOS:       "windows",
		GOARCH:     "amd64",
	}
	if got := currentVersionInfo(); got != want {
		t.Errorf("currentVersionInfo =\n  %+v\nwant\n  %+v", got, want)
	}
}

func TestCurrentVersionInfoWithoutBuildInfo(t *testing.T) {
	stubBuildInfo(t, nil, false)

	got := currentVersionInfo()
	if got.Version != "devel" || got.ModulePath != defaultModulePath {
		t.Errorf("fallback identity = %+v", got)
	}
	if got.GoVersion != runtime.Version() || got.GOOS != runtime.GOOS || got.GOARCH != runtime.GOARCH {
		t.Errorf("fallback runtime fields = %+v", got)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main:      debug.Module{Path: "mapdex", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
			{Key: "GOOS", Value: "darwin"},
			{Key: "GOARCH", Value: "arm64"},
		},
	}, true)

	prevJSON := jsonOutput
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = prevJSON })

	out := captureStdout(t, func() {
		if err := versionCmd.RunE(versionCmd, nil); err != nil {
			t.Fatalf("versionCmd.RunE: %v", err)
		}
	})

	var resp struct {
		OK   bool        `json:"ok"`
		Data versionInfo `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("parse output: %v; out=%s", err, out)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", out)
	}
	if resp.Data.Version != "devel" {
		t.Errorf("Version = %q, want devel for a (devel) stamp", resp.Data.Version)
	}
	if resp.Data.Commit != "deadbeef" {
		t.Errorf("Commit = %q", resp.Data.Commit)
	}
	if resp.Data.GOOS != "darwin" || resp.Data.GOARCH != "arm64" {
		t.Errorf("platform = %s/%s, want darwin/arm64", resp.Data.GOOS, resp.Data.GOARCH)
	}
}
