package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/ardnew/abmeta/cli/cmd"
	"github.com/ardnew/abmeta/pkg"
	"github.com/ardnew/abmeta/profile"
)

const (
	// baseConfig is the base name of the configuration file.
	baseConfig = "config"
	// baseIndex is the base name of the default index database.
	baseIndex = "index.db"
)

var defaultDirMode os.FileMode = 0o700

// layout is where abmeta keeps its files: the configuration file under
// config, the index database, REPL history and profiles under cache.
type layout struct {
	config string
	cache  string
}

// programName returns the base name of the executable, used to name the
// configuration and cache directories and their environment overrides.
//
// Debugger builds ("__debug_bin1234") are named after the package, and
// leading dots are removed.
var programName = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		return cleanName(id)
	},
)

var (
	debugBin   = regexp.MustCompile(`^__debug_bin\d*$`)
	leadingDot = regexp.MustCompile(`^\.+`)
)

func cleanName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if debugBin.MatchString(base) {
		return pkg.Name
	}

	if base = leadingDot.ReplaceAllString(base, ""); base == "" {
		return pkg.Name
	}

	return base
}

// userLayout is the layout of the running program.
var userLayout = sync.OnceValue(
	func() layout {
		return newLayout(programName(), os.Getenv)
	},
)

// newLayout resolves the directories of the program called name.
//
// NAME_CONFIG_DIR and NAME_CACHE_DIR, with NAME upper-cased and '-' mapped
// to '_', replace the directories outright. Otherwise they are the name's
// subdirectory of the user's config and cache directories, falling back to
// ~/.config and ~/.cache, then to the working directory.
func newLayout(name string, getenv func(string) string) layout {
	env := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))

	dir := func(suffix string, user func() (string, error), home string) string {
		if d := getenv(env + "_" + suffix); d != "" {
			return d
		}

		base, err := user()
		if err != nil {
			if base, err = os.UserHomeDir(); err == nil {
				base = filepath.Join(base, home)
			} else if base, err = os.Getwd(); err != nil {
				base = "."
			}
		}

		return filepath.Join(base, name)
	}

	return layout{
		config: dir("CONFIG_DIR", os.UserConfigDir, ".config"),
		cache:  dir("CACHE_DIR", os.UserCacheDir, ".cache"),
	}
}

func (l layout) configFile() string { return filepath.Join(l.config, baseConfig) }
func (l layout) indexFile() string  { return filepath.Join(l.cache, baseIndex) }
func (l layout) profileDir() string { return filepath.Join(l.cache, profile.Tag) }

// vars exposes the layout to flag defaults and commands.
func (l layout) vars() kong.Vars {
	return kong.Vars{
		cmd.ConfigIdentifier: l.configFile(),
		cmd.CacheIdentifier:  l.cache,
		cmd.IndexIdentifier:  l.indexFile(),
	}
}

// mkdirAll creates the configuration and cache directories.
func (l layout) mkdirAll() error {
	for _, dir := range []string{l.config, l.cache} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
