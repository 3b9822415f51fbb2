// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract unpacks comic book archives (CBR, i.e. RAR) with an
// external tool. unrar is preferred; 7z and bsdtar read RAR as well and are
// used when unrar is missing.
package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pdiddy/shelftools/internal/toolexec"
)

const (
	binUnrar  = "unrar"
	bin7z     = "7z"
	binBsdtar = "bsdtar"
)

// Extractor unpacks every file of an archive into a directory.
type Extractor interface {
	// Name returns the tool name.
	Name() string

	// Extract unpacks archive into destDir, which must exist.
	Extract(ctx context.Context, archive, destDir string) error
}

// argBuilders maps each supported tool to its full-extract invocation.
var argBuilders = map[string]func(archive, destDir string) []string{
	binUnrar: func(archive, destDir string) []string {
		// Trailing separator makes unrar treat destDir as a directory.
		return []string{"x", "-o+", "-inul", archive, destDir + string(filepath.Separator)}
	},
	bin7z: func(archive, destDir string) []string {
		return []string{"x", "-y", "-o" + destDir, archive}
	},
	binBsdtar: func(archive, destDir string) []string {
		return []string{"-xf", archive, "-C", destDir}
	},
}

// ToolExtractor runs one of the supported tools.
type ToolExtractor struct {
	tool toolexec.Tool
	args func(archive, destDir string) []string
}

func (e *ToolExtractor) Name() string { return e.tool.Name() }

// Extract runs the tool; any non-zero exit is a failure.
func (e *ToolExtractor) Extract(ctx context.Context, archive, destDir string) error {
	if _, err := e.tool.Run(ctx, e.args(archive, destDir)...); err != nil {
		return fmt.Errorf("extracting %s with %s: %w", archive, e.tool.Name(), err)
	}
	return nil
}

// newToolFunc builds a toolexec.Tool; tests replace it.
type newToolFunc func(bin string) toolexec.Tool

func defaultNewTool(bin string) toolexec.Tool { return toolexec.New(bin) }

// ForTool returns the extractor for a named tool, without checking PATH.
func ForTool(name string) (*ToolExtractor, error) {
	return forTool(defaultNewTool, name)
}

func forTool(newTool newToolFunc, name string) (*ToolExtractor, error) {
	args, ok := argBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unsupported extractor %q: must be %s, %s, or %s", name, binUnrar, bin7z, binBsdtar)
	}
	return &ToolExtractor{tool: newTool(name), args: args}, nil
}

// Detect returns the first installed tool in preference order: unrar, 7z, bsdtar.
func Detect() (*ToolExtractor, error) {
	return detect(defaultNewTool)
}

func detect(newTool newToolFunc) (*ToolExtractor, error) {
	order := []string{binUnrar, bin7z, binBsdtar}
	candidates := make([]toolexec.Tool, len(order))
	for i, name := range order {
		candidates[i] = newTool(name)
	}
	t, err := toolexec.Detect(candidates...)
	if err != nil {
		return nil, fmt.Errorf("no archive extractor available: %w", err)
	}
	return &ToolExtractor{tool: t, args: argBuilders[t.Name()]}, nil
}
