package cli

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCheckCommandClean(t *testing.T) {
	setupTestWorkspace(t)
	jsonOutput = false

	out := captureStdout(t, func() {
		if err := checkCmd.RunE(checkCmd, nil); err != nil {
			t.Fatalf("checkCmd.RunE: %v", err)
		}
	})

	if !strings.Contains(out, "No issues found in 3 files") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCheckCommandUnresolvedWarning(t *testing.T) {
	setupTestWorkspace(t)
	jsonOutput = false

	writeWorkspaceFile(t, getRoot(), "assets/layers/bench/bench.json",
		`{"id":"bench","tagRenderings":["name","ghost"]}`)

	out := captureStdout(t, func() {
		// Warnings alone do not trip the non-zero exit, so RunE returns.
		if err := checkCmd.RunE(checkCmd, nil); err != nil {
			t.Fatalf("checkCmd.RunE: %v", err)
		}
	})

	if !strings.Contains(out, "WARN") {
		t.Errorf("expected a WARN line, got: %s", out)
	}
	if !strings.Contains(out, "unresolved tagRendering reference 'layers.questions.tagRenderings.ghost'") {
		t.Errorf("expected unresolved reference message, got: %s", out)
	}
	if !strings.Contains(out, "Found 0 error(s), 1 warning(s) in 3 files") {
		t.Errorf("expected summary line, got: %s", out)
	}
}

func TestCheckCommandJSON(t *testing.T) {
	setupTestWorkspace(t)
	jsonOutput = true

	writeWorkspaceFile(t, getRoot(), "assets/layers/bench/bench.json",
		`{"id":"bench","tagRenderings":["name","ghost"]}`)

	out := captureStdout(t, func() {
		if err := checkCmd.RunE(checkCmd, nil); err != nil {
			t.Fatalf("checkCmd.RunE: %v", err)
		}
	})

	var resp struct {
		OK   bool `json:"ok"`
		Data struct {
			Files    int           `json:"files"`
			Errors   int           `json:"errors"`
			Warnings int           `json:"warnings"`
			Issues   []IssueResult `json:"issues"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("parse output: %v; out=%s", err, out)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", out)
	}
	if resp.Data.Errors != 0 {
		t.Errorf("errors = %d, want 0", resp.Data.Errors)
	}
	if resp.Data.Warnings != 1 {
		t.Errorf("warnings = %d, want 1", resp.Data.Warnings)
	}
	if len(resp.Data.Issues) != 1 {
		t.Fatalf("issues = %+v, want 1", resp.Data.Issues)
	}
	issue := resp.Data.Issues[0]
	if issue.Level != "warning" {
		t.Errorf("Level = %q", issue.Level)
	}
	if issue.File != "assets/layers/bench/bench.json" {
		t.Errorf("File = %q", issue.File)
	}
	if issue.Line != 1 {
		t.Errorf("Line = %d, want 1", issue.Line)
	}
}
