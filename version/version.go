package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info represents version information.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// GetVersionInfo returns the version of this build.
func GetVersionInfo() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	buildInfo, ok := readBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = buildInfo.GoVersion
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = setting.Value
			}
		case "vcs.modified":
			info.IsDirty = setting.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					info.BuildDate = t
				}
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// String returns a short version string such as "1.0.0-abc1234-dirty".
func (i *Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// DependencyVersion returns the version of module linked into this binary.
// known is false when build information is unavailable; found is false
// when the module is not a dependency.
func DependencyVersion(module string) (v string, known, found bool) {
	buildInfo, ok := readBuildInfo()
	if !ok {
		return "", false, false
	}
	for _, dep := range buildInfo.Deps {
		if dep.Path != module {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version, true, true
		}
		return dep.Version, true, true
	}
	return "", true, false
}

// PackageVersion finds the module that provides the package pkgPath and
// returns its path and linked version. The module whose path is the
// longest prefix of pkgPath wins, so the result follows the module path
// the dependency declares rather than one written down by hand.
func PackageVersion(pkgPath string) (module, v string, known, found bool) {
	buildInfo, ok := readBuildInfo()
	if !ok {
		return "", "", false, false
	}
	for _, dep := range buildInfo.Deps {
		if !providesPackage(dep.Path, pkgPath) || len(dep.Path) <= len(module) {
			continue
		}
		module, v = dep.Path, dep.Version
		if dep.Replace != nil && dep.Replace.Version != "" {
			v = dep.Replace.Version
		}
	}
	return module, v, true, module != ""
}

func providesPackage(module, pkgPath string) bool {
	return pkgPath == module || strings.HasPrefix(pkgPath, module+"/")
}

// RequirePackage is Require for the module providing pkgPath.
func RequirePackage(pkgPath, minimum string) error {
	module, v, known, found := PackageVersion(pkgPath)
	if !known {
		return nil
	}
	if !found {
		return fmt.Errorf("no linked module provides %s", pkgPath)
	}
	return RequireVersion(module, v, minimum)
}

// AtLeast reports whether have >= minimum. Both accept an optional "v" prefix.
func AtLeast(have, minimum string) (bool, error) {
	h, err := goversion.NewVersion(have)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", have, err)
	}
	m, err := goversion.NewVersion(minimum)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", minimum, err)
	}
	return h.GreaterThanOrEqual(m), nil
}

// Require checks that module is linked at minimum or later. A binary without
// build information passes; a module that is absent or too old does not.
func Require(module, minimum string) error {
	v, known, found := DependencyVersion(module)
	if !known {
		return nil
	}
	if !found {
		return fmt.Errorf("%s is not linked", module)
	}
	return RequireVersion(module, v, minimum)
}

// RequireVersion checks a version reported by the dependency itself.
func RequireVersion(module, have, minimum string) error {
	ok, err := AtLeast(have, minimum)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %s is older than %s", module, have, minimum)
	}
	return nil
}
