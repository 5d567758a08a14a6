package copymanager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"lameta/internal/testsupport"
)

type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func (e exitError) ExitCode() int { return e.code }

type fakeProcess struct {
	exit        chan error
	onInterrupt func()
	interruptTo error
	once        sync.Once
}

func (p *fakeProcess) Wait() error { return <-p.exit }

func (p *fakeProcess) Interrupt() error {
	p.once.Do(func() {
		if p.onInterrupt != nil {
			p.onInterrupt()
		}
		p.exit <- p.interruptTo
	})
	return nil
}

type fakeExecutor struct {
	mu      sync.Mutex
	calls   [][]string
	lines   []string
	start   func(args []string) *fakeProcess
	started chan struct{}
}

func (f *fakeExecutor) Start(_ context.Context, binary string, args []string, onLine func(string)) (Process, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{binary}, args...))
	f.mu.Unlock()
	for _, line := range f.lines {
		onLine(line)
	}
	proc := f.start(args)
	if f.started != nil {
		f.started <- struct{}{}
	}
	return proc, nil
}

func TestCopySmallFileInProcess(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.txt")
	testsupport.WriteFile(t, src, 100)
	mtime := time.Date(2011, 10, 9, 0, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "out", "small.txt")

	m := New(WithExecutor(&fakeExecutor{start: func([]string) *fakeProcess {
		t.Fatal("executor must not run for small files")
		return nil
	}}))
	var last int
	res := m.Copy(context.Background(), src, dst, func(p int) { last = p })
	if !res.Success || res.Kind != KindNone || res.Bytes != 100 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if last != 100 {
		t.Fatalf("progress ended at %d", last)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Fatalf("mtime not preserved: %v", info.ModTime())
	}
	if m.Active() != 0 {
		t.Fatalf("registry not emptied: %d", m.Active())
	}
}

func TestCopyMissingSource(t *testing.T) {
	m := New()
	res := m.Copy(context.Background(), filepath.Join(t.TempDir(), "nope.wav"), filepath.Join(t.TempDir(), "x.wav"), nil)
	if res.Success || res.Kind != KindIO {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.HasPrefix(res.Error, "Cannot access source file: ") {
		t.Fatalf("unexpected message: %q", res.Error)
	}
}

func TestCopyLargeFileUsesRsync(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "big.wav")
	testsupport.WriteFile(t, src, 64)
	dst := filepath.Join(dir, "out", "big.wav")

	exec := &fakeExecutor{
		lines: []string{"big.wav", "         32 50%    0.00kB/s    0:00:00", "64 100%"},
		start: func([]string) *fakeProcess {
			p := &fakeProcess{exit: make(chan error, 1)}
			p.exit <- nil
			return p
		},
	}
	m := New(WithExecutor(exec), WithThreshold(10), WithRsync("rsync"))

	var progress []int
	res := m.Copy(context.Background(), src, dst, func(p int) { progress = append(progress, p) })
	if !res.Success {
		t.Fatalf("unexpected result: %+v", res)
	}
	want := []string{"rsync", "-t", "--progress", src, dst}
	if got := exec.calls[0]; strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("args = %v, want %v", got, want)
	}
	if len(progress) != 2 || progress[0] != 50 || progress[1] != 100 {
		t.Fatalf("progress = %v", progress)
	}
}

func TestCopyReportsExitCode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "big.wav")
	testsupport.WriteFile(t, src, 64)

	exec := &fakeExecutor{start: func([]string) *fakeProcess {
		p := &fakeProcess{exit: make(chan error, 1)}
		p.exit <- exitError{code: 23}
		return p
	}}
	m := New(WithExecutor(exec), WithThreshold(1))
	res := m.Copy(context.Background(), src, filepath.Join(dir, "out.wav"), nil)
	if res.Success || res.Kind != KindExitCode {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Error != "Copy of big.wav exited with code 23" {
		t.Fatalf("unexpected message: %q", res.Error)
	}
}

func TestCopyWithoutRsyncFallsBackInProcess(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "big.wav")
	testsupport.WriteFile(t, src, 64)
	m := New(WithRsync(""), WithThreshold(1))
	res := m.Copy(context.Background(), src, filepath.Join(dir, "copy.wav"), nil)
	if !res.Success {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCancelAllMarksEveryJobBeforeCleanup(t *testing.T) {
	dir := t.TempDir()
	srcA := filepath.Join(dir, "a.wav")
	srcB := filepath.Join(dir, "b.wav")
	testsupport.WriteFile(t, srcA, 64)
	testsupport.WriteFile(t, srcB, 64)
	dstA := filepath.Join(dir, "out", "a.wav")
	dstB := filepath.Join(dir, "out", "b.wav")

	var m *Manager
	var allMarkedAtFirstSignal bool
	var signalOnce sync.Once
	checkMarked := func() {
		signalOnce.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			allMarkedAtFirstSignal = len(m.jobs) == 2
			for _, j := range m.jobs {
				if !j.cancelled {
					allMarkedAtFirstSignal = false
				}
			}
		})
	}

	exec := &fakeExecutor{
		started: make(chan struct{}, 2),
		start: func(args []string) *fakeProcess {
			p := &fakeProcess{exit: make(chan error, 1), onInterrupt: checkMarked}
			if args[2] == srcA {
				// rsync exits 20 when it receives SIGINT.
				p.interruptTo = exitError{code: 20}
			}
			// b finishes cleanly while the cancellation is in flight.
			return p
		},
	}
	m = New(WithExecutor(exec), WithThreshold(1), WithGrace(time.Millisecond))

	var copies sync.WaitGroup
	results := make(map[string]Result)
	var resultsMu sync.Mutex
	for _, pair := range [][2]string{{srcA, dstA}, {srcB, dstB}} {
		copies.Add(1)
		go func(src, dst string) {
			defer copies.Done()
			res := m.Copy(context.Background(), src, dst, nil)
			resultsMu.Lock()
			results[dst] = res
			resultsMu.Unlock()
		}(pair[0], pair[1])
	}
	<-exec.started
	<-exec.started

	var removed []string
	m.sleep = func(time.Duration) { copies.Wait() }
	m.remove = func(path string) error {
		if !allMarkedAtFirstSignal {
			t.Errorf("cleanup of %s started before every job was marked cancelled", path)
		}
		removed = append(removed, path)
		return nil
	}

	if n := m.CancelAll(); n != 2 {
		t.Fatalf("CancelAll = %d, want 2", n)
	}
	copies.Wait()

	for _, dst := range []string{dstA, dstB} {
		res := results[dst]
		if res.Success || res.Kind != KindCancelled || res.Error != CancelledMessage {
			t.Fatalf("%s: unexpected result %+v", dst, res)
		}
	}
	if len(removed) != 1 || removed[0] != dstA {
		t.Fatalf("removed = %v, want only %s", removed, dstA)
	}
	if m.Active() != 0 {
		t.Fatalf("registry not cleared: %d", m.Active())
	}
}

func TestCancelAllWithNoJobs(t *testing.T) {
	if n := New().CancelAll(); n != 0 {
		t.Fatalf("CancelAll = %d", n)
	}
}

func TestParseProgress(t *testing.T) {
	tests := []struct {
		line string
		want int
		ok   bool
	}{
		{"     32,768  50%    1.00MB/s    0:00:01", 50, true},
		{"100%", 100, true},
		{"sending incremental file list", 0, false},
		{"250%", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseProgress(tt.line)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseProgress(%q) = %d, %v", tt.line, got, ok)
		}
	}
}

func TestScanLinesSplitsCarriageReturns(t *testing.T) {
	var lines []string
	scanLines(strings.NewReader("a\r b \n\nc"), func(s string) { lines = append(lines, s) })
	if strings.Join(lines, ",") != "a,b,c" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestErrorKindString(t *testing.T) {
	if KindCancelled.String() != "cancelled" || KindExitCode.String() != "exit_code" {
		t.Fatal("unexpected ErrorKind strings")
	}
}
