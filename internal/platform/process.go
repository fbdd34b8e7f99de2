package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/graaaaa/machineid-reset/internal/appinfo"
)

const (
	windowsImage  = appinfo.WindowsImageName
	linuxPattern  = appinfo.LinuxProcessPattern
	darwinPattern = appinfo.DarwinProcessPattern
)

// windowsOps drives tasklist and taskkill.
type windowsOps struct {
	base
}

func (w *windowsOps) IsProcessRunning(ctx context.Context) bool {
	image := w.processName(windowsImage)
	out, err := w.runner.Run(ctx, "tasklist", "/FI", "IMAGENAME eq "+image)
	if err != nil {
		return false
	}
	// tasklist prints an INFO line, not an error, when nothing matches
	return strings.Contains(strings.ToLower(out), strings.ToLower(image))
}

func (w *windowsOps) TerminateProcess(ctx context.Context) error {
	image := w.processName(windowsImage)
	if _, err := w.runner.Run(ctx, "taskkill", "/IM", image); err != nil {
		return fmt.Errorf("taskkill %s: %w", image, err)
	}
	return nil
}

// pgrepOps drives pgrep and pkill with a full command line match.
type pgrepOps struct {
	base
	defaultPattern string
}

func (p *pgrepOps) IsProcessRunning(ctx context.Context) bool {
	out, err := p.runner.Run(ctx, "pgrep", "-f", p.processName(p.defaultPattern))
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}

func (p *pgrepOps) TerminateProcess(ctx context.Context) error {
	pattern := p.processName(p.defaultPattern)
	if _, err := p.runner.Run(ctx, "pkill", "-f", pattern); err != nil {
		return fmt.Errorf("pkill %s: %w", pattern, err)
	}
	return nil
}

// darwinOps matches the capitalized app bundle name.
type darwinOps struct {
	pgrepOps
}

// linuxOps matches the lower-case binary name.
type linuxOps struct {
	pgrepOps
}
