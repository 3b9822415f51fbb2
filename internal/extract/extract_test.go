// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/shelftools/internal/toolexec"
)

// fakeTool implements toolexec.Tool, recording the arguments it was run with.
type fakeTool struct {
	name      string
	available bool
	err       error
	args      []string
}

func (f *fakeTool) Name() string    { return f.name }
func (f *fakeTool) Available() bool { return f.available }

func (f *fakeTool) Run(_ context.Context, args ...string) (toolexec.Result, error) {
	f.args = args
	if f.err != nil {
		return toolexec.Result{ExitCode: 3}, f.err
	}
	return toolexec.Result{}, nil
}

func factory(available map[string]bool, tools map[string]*fakeTool) newToolFunc {
	return func(bin string) toolexec.Tool {
		ft := &fakeTool{name: bin, available: available[bin]}
		tools[bin] = ft
		return ft
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		available map[string]bool
		wantName  string
		wantErr   bool
	}{
		{"unrar preferred", map[string]bool{"unrar": true, "7z": true, "bsdtar": true}, "unrar", false},
		{"7z fallback", map[string]bool{"7z": true, "bsdtar": true}, "7z", false},
		{"bsdtar last resort", map[string]bool{"bsdtar": true}, "bsdtar", false},
		{"nothing installed", map[string]bool{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := detect(factory(tt.available, map[string]*fakeTool{}))
			if tt.wantErr {
				if !errors.Is(err, toolexec.ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Name() != tt.wantName {
				t.Errorf("got %q, want %q", e.Name(), tt.wantName)
			}
		})
	}
}

func TestExtractArgs(t *testing.T) {
	dest := filepath.Join("tmp", "scratch")
	tests := []struct {
		tool string
		want []string
	}{
		{"unrar", []string{"x", "-o+", "-inul", "book.cbr", dest + string(filepath.Separator)}},
		{"7z", []string{"x", "-y", "-o" + dest, "book.cbr"}},
		{"bsdtar", []string{"-xf", "book.cbr", "-C", dest}},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			tools := map[string]*fakeTool{}
			e, err := forTool(factory(nil, tools), tt.tool)
			if err != nil {
				t.Fatalf("forTool: %v", err)
			}
			if err := e.Extract(context.Background(), "book.cbr", dest); err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if strings.Join(tools[tt.tool].args, " ") != strings.Join(tt.want, " ") {
				t.Errorf("args = %q, want %q", tools[tt.tool].args, tt.want)
			}
		})
	}
}

func TestExtractFailure(t *testing.T) {
	ft := &fakeTool{name: "unrar", err: &toolexec.ExitError{Tool: "unrar", ExitCode: 3, Stderr: "CRC failed"}}
	e := &ToolExtractor{tool: ft, args: argBuilders["unrar"]}

	err := e.Extract(context.Background(), "book.cbr", "dest")
	if err == nil {
		t.Fatal("expected error")
	}
	var exitErr *toolexec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode != 3 {
		t.Errorf("expected wrapped ExitError with code 3, got %v", err)
	}
	if !strings.Contains(err.Error(), "book.cbr") {
		t.Errorf("error should name the archive, got %v", err)
	}
}

func TestForToolUnsupported(t *testing.T) {
	if _, err := ForTool("unzip"); err == nil {
		t.Error("expected error for unsupported tool")
	}
}
