package profile

import (
	"path/filepath"
	"strings"
)

// Profiler selects a profiling mode and where its output is written.
type Profiler struct {
	Mode string
	// Path is the profile root. Empty selects a temporary directory.
	Path string
	// Label names the subdirectory of Path for this run, typically the
	// command being profiled.
	Label string
	Quiet bool
}

// Dir returns the directory the profile is written to: Path, or its
// subdirectory named by the words of Label joined with '-'. Placeholders
// such as "<file>" and words starting with '.' are left out of the name.
func (p Profiler) Dir() string {
	if p.Path == "" {
		return ""
	}

	var words []string

	for _, w := range strings.Fields(p.Label) {
		if strings.HasPrefix(w, "<") || strings.HasPrefix(w, ".") || strings.ContainsAny(w, `/\`) {
			continue
		}

		words = append(words, w)
	}

	return filepath.Join(p.Path, strings.Join(words, "-"))
}

// Start starts the profiler and returns a handle for stopping it.
//
// If the binary was built without the pprof tag, or Mode is empty or
// unknown, Start returns a no-op handle. Both Start and Stop are always
// safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
