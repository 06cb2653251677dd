package sysclock

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestProcUptimeParsesFixedPoint(t *testing.T) {
	tests := []struct {
		content string
		want    time.Duration
	}{
		{"123.45 678.90\n", 123*time.Second + 450*time.Millisecond},
		{"0.000001 0\n", time.Microsecond},
		{"5 10\n", 5 * time.Second},
	}

	for _, tt := range tests {
		dir := t.TempDir()
		path := filepath.Join(dir, "uptime")
		if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := procUptime(path)
		if err != nil {
			t.Fatalf("procUptime(%q) error = %v", tt.content, err)
		}
		if got != tt.want {
			t.Errorf("procUptime(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestProcUptimeRejectsMalformed(t *testing.T) {
	tests := []string{"", "noSpace", "1.2.3 4\n", "abc 4\n"}
	for _, content := range tests {
		dir := t.TempDir()
		path := filepath.Join(dir, "uptime")
		os.WriteFile(path, []byte(content), 0644)
		if _, err := procUptime(path); err == nil {
			t.Errorf("procUptime(%q) should have failed", content)
		}
	}
}

func TestBootclock(t *testing.T) {
	d, err := Bootclock()
	if err != nil {
		t.Fatalf("Bootclock() error = %v", err)
	}
	if d <= 0 {
		t.Errorf("Bootclock() = %v, want > 0", d)
	}
}
