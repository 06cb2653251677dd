package ioutil2

import (
	"os"
	"testing"
)

func TestTempFile(t *testing.T) {
	f, err := TempFile("", "ertgo-test-*")
	if err != nil {
		t.Fatalf("TempFile() error = %v", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if _, err := f.WriteString("hello"); err != nil {
		t.Errorf("WriteString() error = %v", err)
	}
}

func TestTempFileBadDir(t *testing.T) {
	_, err := TempFile("/nonexistent/ertgo/dir", "ertgo-test-*")
	if err == nil {
		t.Error("TempFile() with bad dir should fail")
	}
}
