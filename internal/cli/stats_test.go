package cli

import (
	"encoding/json"
	"testing"
)

func TestStatsCommandJSON(t *testing.T) {
	setupTestWorkspace(t)
	jsonOutput = true

	out := captureStdout(t, func() {
		if err := statsCmd.RunE(statsCmd, nil); err != nil {
			t.Fatalf("statsCmd.RunE: %v", err)
		}
	})

	var resp struct {
		OK   bool        `json:"ok"`
		Data StatsResult `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("parse output: %v; out=%s", err, out)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", out)
	}
	if resp.Data.FileCount != 3 {
		t.Errorf("FileCount = %d, want 3", resp.Data.FileCount)
	}
	if resp.Data.EntityCount != 3 {
		t.Errorf("EntityCount = %d, want 3", resp.Data.EntityCount)
	}
	if resp.Data.ReferenceCount != 2 {
		t.Errorf("ReferenceCount = %d, want 2", resp.Data.ReferenceCount)
	}
	if resp.Data.UnresolvedCount != 0 {
		t.Errorf("UnresolvedCount = %d, want 0", resp.Data.UnresolvedCount)
	}
}
