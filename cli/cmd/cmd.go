package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/abmeta/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	streamsKey struct{}
	streams    struct {
		in       io.Reader
		out, err io.Writer
	}
)

// WithStreams returns a new context.Context whose commands read standard
// input from in and write their results and diagnostics to out and errw.
// Nil streams fall back to the process's standard files.
func WithStreams(
	ctx context.Context,
	in io.Reader,
	out, errw io.Writer,
) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out, err: errw})
}

func streamsFrom(ctx context.Context) streams {
	s, _ := ctx.Value(streamsKey{}).(streams)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	if s.err == nil {
		s.err = os.Stderr
	}

	return s
}

// Source is the content of one input file.
type Source struct {
	Name string
	Data []byte
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

const (
	// stdinSource is the special source indicator for reading from stdin.
	stdinSource = "-"
	// stdinName names stdin in diagnostics.
	stdinName = "<stdin>"
)

// readSources reads the given source files in order.
//
// Duplicates are dropped by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single read of stdin,
// placed last so it follows all regular files.
func readSources(ctx context.Context, paths []string) ([]Source, error) {
	var (
		srcs     []Source
		hasStdin bool
		seen     = make(map[fileKey]struct{})
	)

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		src, ok, err := readUniqueFile(path, seen)
		if err != nil {
			return nil, pkg.ErrReadInput.Wrap(err)
		}

		if ok {
			srcs = append(srcs, src)
		}
	}

	if hasStdin {
		data, err := io.ReadAll(streamsFrom(ctx).in)
		if err != nil {
			return nil, pkg.ErrReadInput.Wrap(err)
		}

		srcs = append(srcs, Source{Name: stdinName, Data: data})
	}

	return srcs, nil
}

// readUniqueFile reads the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates, returning
// false for a duplicate.
func readUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (Source, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Source{}, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return Source{}, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return Source{}, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return Source{}, false, nil
		}

		seen[key] = struct{}{}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return Source{}, false, err
	}

	return Source{Name: path, Data: data}, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}
