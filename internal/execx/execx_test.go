package execx

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping executor test")
	}
}

func TestRun_Succeeds(t *testing.T) {
	requireSh(t)
	res := Run(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "true"}})
	if res.Err != nil {
		t.Fatalf("Run() error = %v", res.Err)
	}
}

func TestRun_CapturesStderrAndExitCode(t *testing.T) {
	requireSh(t)
	res := Run(context.Background(), Cmd{
		Name: "sh",
		Args: []string{"-c", "echo boo >&2; exit 3"},
	})
	if res.Err == nil {
		t.Fatal("expected error for exit 3")
	}
	var ee *exec.ExitError
	if !errors.As(res.Err, &ee) || ee.ExitCode() != 3 {
		t.Errorf("Err = %v, want ExitError with code 3", res.Err)
	}
	if !strings.Contains(res.Stderr, "boo") {
		t.Errorf("Stderr = %q, want to contain %q", res.Stderr, "boo")
	}
}

func TestRun_Dir(t *testing.T) {
	requireSh(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker"), []byte("hello-from-dir"), 0644); err != nil {
		t.Fatal(err)
	}
	res := Run(context.Background(), Cmd{
		Name: "sh",
		Args: []string{"-c", "cat marker >&2"},
		Dir:  dir,
	})
	if res.Err != nil {
		t.Fatalf("Run() error = %v (stderr: %s)", res.Err, res.Stderr)
	}
	if !strings.Contains(res.Stderr, "hello-from-dir") {
		t.Errorf("Stderr = %q, command did not run in Dir", res.Stderr)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	requireSh(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Run(ctx, Cmd{Name: "sh", Args: []string{"-c", "sleep 5"}})
	if res.Err == nil {
		t.Error("expected error when context is already cancelled")
	}
}

func TestError_Unwrap(t *testing.T) {
	base := errors.New("exit status 1")
	err := &Error{Tool: "ffmpeg", Stderr: "boom", Err: base}
	if !errors.Is(err, base) {
		t.Error("Unwrap should expose the underlying error")
	}
	if got := err.Error(); !strings.Contains(got, "ffmpeg") {
		t.Errorf("Error() = %q, want the tool name included", got)
	}
}
