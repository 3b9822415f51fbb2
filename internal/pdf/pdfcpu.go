// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdf

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PdfcpuAssembler builds the PDF in process with pdfcpu.
type PdfcpuAssembler struct {
	pageSize string
}

// NewPdfcpuAssembler returns an assembler fitting pages to pageSize (e.g. "A4", "Letter").
func NewPdfcpuAssembler(pageSize string) *PdfcpuAssembler {
	api.DisableConfigDir()
	return &PdfcpuAssembler{pageSize: pageSize}
}

// Assemble imports every page centred on a pageSize sheet. Landscape images
// go on the same sheet in landscape orientation (e.g. "A4L"). The PDF is
// built next to outPath and renamed into place, because pdfcpu appends to an
// existing output rather than replacing it.
func (a *PdfcpuAssembler) Assemble(ctx context.Context, pages []string, outPath string) error {
	if len(pages) == 0 {
		return ErrNoPages
	}

	portrait, err := importDetails(a.pageSize)
	if err != nil {
		return err
	}
	landscape, err := importDetails(a.pageSize + "L")
	if err != nil {
		return err
	}
	conf := model.NewDefaultConfiguration()

	workDir, err := os.MkdirTemp(filepath.Dir(outPath), ".cbr2pdf-*")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(workDir)
	tmpOut := filepath.Join(workDir, "out.pdf")

	pages, err = transcode(pages, workDir)
	if err != nil {
		return err
	}
	runs, err := splitRuns(pages)
	if err != nil {
		return err
	}

	// Each import after the first appends to tmpOut.
	for _, run := range runs {
		if err := ctx.Err(); err != nil {
			return err
		}
		imp := portrait
		if run.landscape {
			imp = landscape
		}
		if err := api.ImportImagesFile(run.pages, tmpOut, imp, conf); err != nil {
			return fmt.Errorf("importing images: %w", err)
		}
	}

	if err := os.Rename(tmpOut, outPath); err != nil {
		return fmt.Errorf("moving PDF into place: %w", err)
	}
	return nil
}

func importDetails(formSize string) (*pdfcpu.Import, error) {
	imp, err := pdfcpu.ParseImportDetails(fmt.Sprintf("formsize:%s, position:c, scalefactor:1.0", formSize), types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("page size %q: %w", formSize, err)
	}
	return imp, nil
}

// nativeExts are the formats pdfcpu embeds directly.
var nativeExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".tif": true, ".tiff": true, ".webp": true,
}

// transcode re-encodes pages pdfcpu cannot import as PNG files in workDir.
// The returned slice keeps the page order.
func transcode(pages []string, workDir string) ([]string, error) {
	out := make([]string, len(pages))
	for i, p := range pages {
		if nativeExts[strings.ToLower(filepath.Ext(p))] {
			out[i] = p
			continue
		}
		dst := filepath.Join(workDir, fmt.Sprintf("page-%05d.png", i+1))
		if err := toPNG(p, dst); err != nil {
			return nil, fmt.Errorf("transcoding %s: %w", p, err)
		}
		out[i] = dst
	}
	return out, nil
}

func toPNG(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
