// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runFunc       func(name string, args []string, stdout, stderr io.Writer) (int, error)
	calls         []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(_ context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	m.calls = append(m.calls, name+" "+strings.Join(args, " "))
	if m.runFunc != nil {
		return m.runFunc(name, args, stdout, stderr)
	}
	return 0, nil
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		runFunc    func(string, []string, io.Writer, io.Writer) (int, error)
		wantCode   int
		wantStdout string
		wantErr    bool
		wantExit   bool
	}{
		{
			name: "success captures stdout",
			runFunc: func(_ string, _ []string, stdout, _ io.Writer) (int, error) {
				fmt.Fprint(stdout, "one\ntwo\n")
				return 0, nil
			},
			wantStdout: "one\ntwo\n",
		},
		{
			name: "non-zero exit is an ExitError",
			runFunc: func(_ string, _ []string, _, stderr io.Writer) (int, error) {
				fmt.Fprint(stderr, "corrupt archive")
				return 3, nil
			},
			wantCode: 3,
			wantErr:  true,
			wantExit: true,
		},
		{
			name: "start failure is wrapped",
			runFunc: func(string, []string, io.Writer, io.Writer) (int, error) {
				return -1, errors.New("exec format error")
			},
			wantCode: -1,
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockExecutor{runFunc: tt.runFunc}
			tl := newTool(m, "unrar")

			res, err := tl.Run(context.Background(), "x", "book.cbr")
			if tt.wantErr != (err != nil) {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if res.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tt.wantCode)
			}
			if string(res.Stdout) != tt.wantStdout {
				t.Errorf("Stdout = %q, want %q", res.Stdout, tt.wantStdout)
			}
			var exitErr *ExitError
			if errors.As(err, &exitErr) != tt.wantExit {
				t.Errorf("errors.As(*ExitError) = %v, want %v", !tt.wantExit, tt.wantExit)
			}
			if tt.wantExit && !strings.Contains(err.Error(), "corrupt archive") {
				t.Errorf("error should include stderr, got: %v", err)
			}
			if len(m.calls) != 1 || m.calls[0] != "unrar x book.cbr" {
				t.Errorf("calls = %v, want [unrar x book.cbr]", m.calls)
			}
		})
	}
}

func TestRunTeesStderr(t *testing.T) {
	m := &mockExecutor{runFunc: func(_ string, _ []string, _, stderr io.Writer) (int, error) {
		fmt.Fprint(stderr, "45% [=====>    ]")
		return 0, nil
	}}
	var progress bytes.Buffer
	tl := newTool(m, "wget", WithStderr(&progress))

	res, err := tl.Run(context.Background(), "-c", "http://x/a.mp3")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if progress.String() != "45% [=====>    ]" {
		t.Errorf("progress = %q", progress.String())
	}
	if string(res.Stderr) != progress.String() {
		t.Errorf("captured stderr = %q, want %q", res.Stderr, progress.String())
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		bins     map[string]bool
		wantName string
		wantErr  bool
	}{
		{"first preferred", map[string]bool{"unrar": true, "7z": true}, "unrar", false},
		{"fallback to second", map[string]bool{"7z": true}, "7z", false},
		{"fallback to last", map[string]bool{"bsdtar": true}, "bsdtar", false},
		{"none available", map[string]bool{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockExecutor{availableBins: tt.bins}
			got, err := Detect(newTool(m, "unrar"), newTool(m, "7z"), newTool(m, "bsdtar"))
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
				if !strings.Contains(err.Error(), "unrar, 7z, bsdtar") {
					t.Errorf("error should list candidates, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name() != tt.wantName {
				t.Errorf("got %q, want %q", got.Name(), tt.wantName)
			}
		})
	}
}

func TestRunLogsInvocation(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := &mockExecutor{runFunc: func(string, []string, io.Writer, io.Writer) (int, error) {
		return 3, nil
	}}

	_, err := newTool(m, "unrar", WithLogger(logger)).Run(context.Background(), "x", "book.cbr")
	if err == nil {
		t.Fatal("expected exit error")
	}
	out := logs.String()
	for _, want := range []string{"executing tool", "tool=unrar", "tool failed", "exit_code=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
