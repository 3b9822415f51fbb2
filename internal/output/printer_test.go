// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"always", ColorAlways, false},
		{"never", ColorNever, false},
		{"sometimes", ColorAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColorMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColors(t *testing.T) {
	assert.True(t, ResolveColors(ColorAlways))
	assert.False(t, ResolveColors(ColorNever))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ResolveColors(ColorAuto))
}

func TestPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := Plain(&buf)

	p.Status("skipped", "%s", "show.mp3")
	p.Failure("%s (%v)", "feed", "boom")
	p.Summary("Run summary: %d downloaded", 2)

	assert.Equal(t, "skipped: show.mp3\nfailed: feed (boom)\n\nRun summary: 2 downloaded\n", buf.String())
}

func TestPrinterQuiet(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false, true)

	p.Status("downloading", "a.mp3")
	p.Warning("slow")
	p.Summary("done")
	p.Failure("a.mp3")

	assert.Empty(t, out.String())
	assert.Equal(t, "failed: a.mp3\n", errOut.String())
}
