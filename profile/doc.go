// Package profile provides optional runtime profiling for abmeta.
//
// Profiling is compiled in only with the "pprof" build tag, which pulls in
// [github.com/pkg/profile]. Without the tag every [Profiler] is a no-op and
// [Modes] is empty.
//
//	go build -tags pprof .
//	abmeta --pprof-mode=cpu tree ~/src/abbs-tree
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. Output lands in a subdirectory of [Profiler.Path]
// (by default $XDG_CACHE_HOME/abmeta/pprof) named after the profiled
// command, so "abmeta index sync" writes to pprof/index-sync, one file per
// mode, ready for "go tool pprof".
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
