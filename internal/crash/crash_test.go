package crash

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fixedSummary string

func (f fixedSummary) Summary() string { return string(f) }

func useTempReportDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := reportDir
	reportDir = func() string { return dir }
	t.Cleanup(func() { reportDir = old })
	return dir
}

func TestWriteReportIncludesStateAndPanic(t *testing.T) {
	useTempReportDir(t)
	path, err := writeReport(fixedSummary("images=1 texts=2 selected=text:abc"), "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	for _, want := range []string{"GoCanvas Crash Report", "State: images=1 texts=2 selected=text:abc", "Panic: boom", "stacktrace"} {
		if !strings.Contains(s, want) {
			t.Fatalf("report missing %q:\n%s", want, s)
		}
	}
}

func TestWriteReportWithoutSummarizer(t *testing.T) {
	useTempReportDir(t)
	path, err := writeReport(nil, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	b, _ := os.ReadFile(path)
	if strings.Contains(string(b), "State:") {
		t.Fatalf("state section should be omitted:\n%s", b)
	}
}

func TestRecoverWritesReportAndExits(t *testing.T) {
	dir := useTempReportDir(t)

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	code := 0
	oldExit := exitFn
	exitFn = func(c int) { code = c }
	defer func() { exitFn = oldExit }()

	func() {
		defer Recover(fixedSummary("empty"))
		panic("boom")
	}()

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "gocanvas-crash-*.log"))
	if len(matches) != 1 {
		t.Fatalf("expected one crash report, got %v", matches)
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = oldExit }()

	func() {
		defer Recover(nil)
	}()
	if called {
		t.Fatalf("exit should not be called without a panic")
	}
}
