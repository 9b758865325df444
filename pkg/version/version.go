package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Metadata describes the running build.
type Metadata struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Compiler  string `json:"compiler"`
	Tag       string `json:"tag,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Source    string `json:"source,omitempty"`
	Hash      string `json:"hash,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	Platform  string `json:"platform"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Set with -ldflags at build time
var (
	GitTag    string
	GitBranch string
)

const (
	// Product is the name sent in the User-Agent header.
	Product = "go-chat"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the tag, branch or short revision of the build, or
// "dev" when none is known.
func Version() string {
	if GitTag != "" {
		return GitTag
	}
	if GitBranch != "" {
		return GitBranch
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				return s.Value[:12]
			}
		}
	}
	return "dev"
}

// UserAgent returns the value of the User-Agent header sent by clients.
func UserAgent() string {
	return Product + "/" + Version()
}

// Build returns metadata for the named executable.
func Build(execName string) Metadata {
	meta := Metadata{
		Name:     execName,
		Version:  Version(),
		Compiler: runtime.Version(),
		Tag:      GitTag,
		Branch:   GitBranch,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		meta.Source = info.Main.Path
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				meta.Hash = s.Value
			case "vcs.time":
				meta.BuildTime = s.Value
			case "vcs.modified":
				meta.Modified = s.Value == "true"
			}
		}
	}
	return meta
}

// JSON returns the build metadata for the named executable as indented JSON.
func JSON(execName string) []byte {
	data, err := json.MarshalIndent(Build(execName), "", "  ")
	if err != nil {
		panic(err)
	}
	return data
}
