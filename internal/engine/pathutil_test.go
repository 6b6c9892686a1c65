package engine

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestRequireDisjoint(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		dst     string
		wantErr bool
	}{
		{name: "siblings", src: "/data/raw", dst: "/data/split"},
		{name: "shared prefix is not nesting", src: "/data/raw", dst: "/data/raw2"},
		{name: "same directory", src: "/data/raw", dst: "/data/raw", wantErr: true},
		{name: "destination inside source", src: "/data/raw", dst: "/data/raw/out", wantErr: true},
		{name: "source inside destination", src: "/data/raw/in", dst: "/data/raw", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireDisjoint(filepath.FromSlash(tt.src), filepath.FromSlash(tt.dst))
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("requireDisjoint() = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Errorf("requireDisjoint() unexpected error: %v", err)
			}
		})
	}
}

func TestAbsClean(t *testing.T) {
	if _, err := absClean("  "); !errors.Is(err, ErrValidation) {
		t.Errorf("absClean(blank) = %v, want ErrValidation", err)
	}

	got, err := absClean("/data/./raw/../split")
	if err != nil {
		t.Fatalf("absClean() error: %v", err)
	}
	if want := filepath.FromSlash("/data/split"); got != want {
		t.Errorf("absClean() = %q, want %q", got, want)
	}
}

func TestFirstSegment(t *testing.T) {
	tests := map[string]string{
		"train":                              "train",
		filepath.Join("train", "tumor"):      "train",
		filepath.Join("H1", "tumor", "case"): "H1",
		"":                                   "",
	}
	for in, want := range tests {
		if got := firstSegment(in); got != want {
			t.Errorf("firstSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
