package copymanager

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Process is a running external copy.
type Process interface {
	// Wait blocks until the process exits. A non-zero exit yields an error
	// implementing ExitCode() int.
	Wait() error
	// Interrupt asks the process to stop.
	Interrupt() error
}

// Executor starts external copy processes. onLine receives every progress
// line the process prints.
type Executor interface {
	Start(ctx context.Context, binary string, args []string, onLine func(string)) (Process, error)
}

type commandExecutor struct{}

type commandProcess struct {
	cmd    *exec.Cmd
	wg     sync.WaitGroup
	stderr *strings.Builder
	mu     sync.Mutex
}

func (commandExecutor) Start(ctx context.Context, binary string, args []string, onLine func(string)) (Process, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Cancel = func() error {
		return unix.Kill(cmd.Process.Pid, unix.SIGINT)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}

	p := &commandProcess{cmd: cmd, stderr: &strings.Builder{}}
	p.wg.Add(2)
	go func() {
		defer p.wg.Done()
		scanLines(stdout, func(line string) {
			if onLine != nil {
				onLine(line)
			}
		})
	}()
	go func() {
		defer p.wg.Done()
		scanLines(stderr, func(line string) {
			p.mu.Lock()
			if p.stderr.Len() < 4096 {
				p.stderr.WriteString(line)
				p.stderr.WriteByte('\n')
			}
			p.mu.Unlock()
		})
	}()
	return p, nil
}

func (p *commandProcess) Wait() error {
	p.wg.Wait()
	err := p.cmd.Wait()
	if err != nil {
		p.mu.Lock()
		detail := strings.TrimSpace(p.stderr.String())
		p.mu.Unlock()
		if detail != "" {
			return &processError{err: err, stderr: detail}
		}
	}
	return err
}

func (p *commandProcess) Interrupt() error {
	if p.cmd.Process == nil {
		return nil
	}
	return unix.Kill(p.cmd.Process.Pid, unix.SIGINT)
}

type processError struct {
	err    error
	stderr string
}

func (e *processError) Error() string { return fmt.Sprintf("%v: %s", e.err, e.stderr) }

func (e *processError) Unwrap() error { return e.err }

func (e *processError) ExitCode() int {
	if exitErr, ok := e.err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// scanLines splits on both \n and \r; rsync redraws progress with \r.
func scanLines(r io.Reader, fn func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(splitCRLF)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			fn(line)
		}
	}
}

func splitCRLF(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
