package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"mapdex/internal/buildinfo"
	"mapdex/internal/ui"
)

const defaultModulePath = "mapdex"

// versionInfo is the version command's payload in both output modes.
type versionInfo struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
}

// readBuildInfo is swapped out by tests.
var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show mapdex version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}

		fmt.Printf("mapdex %s\n", info.Version)
		tbl := ui.NewTable(2)
		tbl.AddRow(ui.Muted.Render("module:"), info.ModulePath)
		if info.Commit != "" {
			tbl.AddRow(ui.Muted.Render("commit:"), info.Commit)
		}
		if info.CommitTime != "" {
			tbl.AddRow(ui.Muted.Render("commit time:"), info.CommitTime)
		}
		tbl.AddRow(ui.Muted.Render("go:"), info.GoVersion)
		tbl.AddRow(ui.Muted.Render("platform:"), info.GOOS+"/"+info.GOARCH)
		if info.Modified {
			tbl.AddRow(ui.Muted.Render("modified:"), "true")
		}
		fmt.Print(tbl.String())

		return nil
	},
}

// currentVersionInfo assembles version metadata, preferring the build
// info stamped by the toolchain and falling back to the goreleaser
// ldflags in buildinfo.
func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		if bi.Main.Path != "" {
			info.ModulePath = bi.Main.Path
		}
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}

		settings := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}
		if v := settings["GOOS"]; v != "" {
			info.GOOS = v
		}
		if v := settings["GOARCH"]; v != "" {
			info.GOARCH = v
		}
		info.Commit = settings["vcs.revision"]
		info.CommitTime = settings["vcs.time"]
		info.Modified = strings.EqualFold(settings["vcs.modified"], "true")
	}

	// Release binaries may carry ldflags values the VCS stamp lacks.
	if info.Version == "devel" && buildinfo.Version != "" && buildinfo.Version != "(devel)" {
		info.Version = buildinfo.Version
	}
	if info.Commit == "" {
		info.Commit = buildinfo.Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = buildinfo.Date
	}

	return info
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
