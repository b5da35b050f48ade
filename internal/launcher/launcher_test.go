package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRelauncher は昇格要求の呼び出しを記録するテスト用実装
type fakeRelauncher struct {
	calls int
	err   error
}

func (f *fakeRelauncher) Relaunch(exe string, args []string, workDir string) error {
	f.calls++
	return f.err
}

func writeTarget(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("print('ok')\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLaunchMissingInterpreter(t *testing.T) {
	probed := false
	ran := false
	relauncher := &fakeRelauncher{}

	l := &Launcher{
		Interpreter: "python",
		TargetName:  "wsa_profile_switcher.py",
		ScriptDir:   t.TempDir(),
		Probe:       func() bool { probed = true; return true },
		Relauncher:  relauncher,
		Check:       func(string) error { return errors.New("not found") },
		Run:         func(string, ...string) (int, error) { ran = true; return 0, nil },
	}

	code, err := l.Launch()
	if !errors.Is(err, ErrInterpreterNotFound) {
		t.Fatalf("want ErrInterpreterNotFound, got %v", err)
	}
	if code == 0 {
		t.Fatal("exit code should be non-zero")
	}
	// インタープリタ不在時は権限判定にも起動にも進まない
	if probed || ran || relauncher.calls != 0 {
		t.Fatal("launch must stop before probe and dispatch")
	}
}

func TestLaunchMissingTarget(t *testing.T) {
	dir := t.TempDir()
	l := &Launcher{
		Interpreter: "python",
		TargetName:  "wsa_profile_switcher.py",
		ScriptDir:   dir,
		Probe:       func() bool { return true },
		Relauncher:  &fakeRelauncher{},
		Check:       func(string) error { return nil },
		Run:         func(string, ...string) (int, error) { return 0, nil },
	}

	code, err := l.Launch()
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("want ErrTargetNotFound, got %v", err)
	}
	if code == 0 {
		t.Fatal("exit code should be non-zero")
	}
	// 診断メッセージにはファイル名と探索したディレクトリが含まれる
	if !strings.Contains(err.Error(), "wsa_profile_switcher.py") || !strings.Contains(err.Error(), dir) {
		t.Fatalf("diagnostic should name file and directory: %v", err)
	}
}

func TestLaunchElevatedPropagatesExitCode(t *testing.T) {
	dir := t.TempDir()
	writeTarget(t, dir, "wsa_profile_switcher.py")

	for _, want := range []int{0, 1, 42} {
		relauncher := &fakeRelauncher{}
		l := &Launcher{
			Interpreter: "python",
			TargetName:  "wsa_profile_switcher.py",
			ScriptDir:   dir,
			Probe:       func() bool { return true },
			Relauncher:  relauncher,
			Check:       func(string) error { return nil },
			Run: func(name string, args ...string) (int, error) {
				if name != "python" {
					t.Fatalf("unexpected interpreter: %s", name)
				}
				if want == 0 {
					return 0, nil
				}
				return want, errors.New("non-zero exit")
			},
		}

		code, _ := l.Launch()
		if code != want {
			t.Fatalf("exit code not propagated: got %d want %d", code, want)
		}
		if relauncher.calls != 0 {
			t.Fatal("elevated launch must not request relaunch")
		}
	}
}

func TestLaunchNotElevatedRelaunchesOnce(t *testing.T) {
	dir := t.TempDir()
	writeTarget(t, dir, "wsa_profile_switcher.py")

	ran := false
	relauncher := &fakeRelauncher{}
	l := &Launcher{
		Interpreter: "python",
		TargetName:  "wsa_profile_switcher.py",
		ScriptDir:   dir,
		Probe:       func() bool { return false },
		Relauncher:  relauncher,
		Check:       func(string) error { return nil },
		Run:         func(string, ...string) (int, error) { ran = true; return 0, nil },
	}

	code, err := l.Launch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 0 {
		t.Fatalf("relaunch request should exit 0, got %d", code)
	}
	if relauncher.calls != 1 {
		t.Fatalf("want exactly one relaunch request, got %d", relauncher.calls)
	}
	if ran {
		t.Fatal("non-elevated launch must not run the interpreter")
	}
}

func TestLaunchRelaunchFailure(t *testing.T) {
	dir := t.TempDir()
	writeTarget(t, dir, "wsa_profile_switcher.py")

	l := &Launcher{
		Interpreter: "python",
		TargetName:  "wsa_profile_switcher.py",
		ScriptDir:   dir,
		Probe:       func() bool { return false },
		Relauncher:  &fakeRelauncher{err: errors.New("the operation was canceled by the user")},
		Check:       func(string) error { return nil },
		Run:         func(string, ...string) (int, error) { return 0, nil },
	}

	code, err := l.Launch()
	if !errors.Is(err, ErrRelaunchFailed) {
		t.Fatalf("want ErrRelaunchFailed, got %v", err)
	}
	if code != 1 {
		t.Fatalf("declined elevation should exit 1, got %d", code)
	}
}

func TestLaunchDecisionIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeTarget(t, dir, "wsa_profile_switcher.py")

	relauncher := &fakeRelauncher{}
	l := &Launcher{
		Interpreter: "python",
		TargetName:  "wsa_profile_switcher.py",
		ScriptDir:   dir,
		Probe:       func() bool { return false },
		Relauncher:  relauncher,
		Check:       func(string) error { return nil },
		Run:         func(string, ...string) (int, error) { return 0, nil },
	}

	// 同一条件下では2回実行しても同じ判定になる
	for i := 0; i < 2; i++ {
		code, err := l.Launch()
		if err != nil || code != 0 {
			t.Fatalf("run %d: code=%d err=%v", i, code, err)
		}
	}
	if relauncher.calls != 2 {
		t.Fatalf("each run should request relaunch once, got %d", relauncher.calls)
	}
}
