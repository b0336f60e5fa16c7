package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestNewInfo(t *testing.T) {
	info := NewInfo("1.2.3", "abc1234", "2026-08-30")

	if info.Version != "1.2.3" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.GoVer != runtime.Version() {
		t.Errorf("GoVer = %q", info.GoVer)
	}
	if info.OS != runtime.GOOS || info.Arch != runtime.GOARCH {
		t.Errorf("OS/Arch = %s/%s", info.OS, info.Arch)
	}
}

func TestInfoString(t *testing.T) {
	info := NewInfo("1.2.3", "abc1234", "2026-08-30")

	s := info.String()
	for _, want := range []string{"romple", "1.2.3", "abc1234", "2026-08-30"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}

	full := info.FullString()
	for _, want := range []string{"Commit:", "Built:", "Go:", "OS/Arch:"} {
		if !strings.Contains(full, want) {
			t.Errorf("FullString() missing %q", want)
		}
	}
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current   string
		candidate string
		want      bool
	}{
		{"1.0.0", "1.0.1", true},
		{"1.0.0", "1.0.0", false},
		{"1.2.0", "1.1.9", false},
		{"v1.0.0", "v2.0.0", true},
		{"1.0", "1.1", true}, // tolerant parsing
		{"dev", "1.0.0", false},
		{"1.0.0", "garbage", false},
	}

	for _, tt := range tests {
		if got := IsNewer(tt.current, tt.candidate); got != tt.want {
			t.Errorf("IsNewer(%q, %q) = %v, want %v", tt.current, tt.candidate, got, tt.want)
		}
	}
}
