package profile

import "testing"

func TestProfiler_StartWithoutMode(t *testing.T) {
	ctrl := Profiler{Path: t.TempDir()}.Start()

	if _, ok := ctrl.(ignore); !ok {
		t.Errorf("Start() = %T, want ignore", ctrl)
	}

	ctrl.Stop()
}

func TestProfiler_StartUnknownMode(t *testing.T) {
	ctrl := Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}.Start()
	defer ctrl.Stop()

	if _, ok := ctrl.(ignore); !ok {
		t.Errorf("Start() = %T, want ignore", ctrl)
	}
}

func TestProfiler_Dir(t *testing.T) {
	tests := []struct {
		path  string
		label string
		want  string
	}{
		{"", "tree", ""},
		{"/cache/pprof", "", "/cache/pprof"},
		{"/cache/pprof", "tree", "/cache/pprof/tree"},
		{"/cache/pprof", "index sync", "/cache/pprof/index-sync"},
		{"/cache/pprof", "eval <file> ...", "/cache/pprof/eval"},
		{"/cache/pprof", "lint <file>", "/cache/pprof/lint"},
		{"/cache/pprof", "x ../y", "/cache/pprof/x"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := (Profiler{Path: tt.path, Label: tt.label}).Dir(); got != tt.want {
				t.Errorf("Dir() = %q, want %q", got, tt.want)
			}
		})
	}
}
