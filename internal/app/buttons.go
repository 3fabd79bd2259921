package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samvad-hq/checkout-kit/internal/config"
	"github.com/samvad-hq/checkout-kit/internal/logger"
	"github.com/samvad-hq/checkout-kit/pkg/paymentbutton"
)

// Buttons renders the configured button catalog into an HTML preview page.
type Buttons struct {
	cfg     *config.Config
	catalog *paymentbutton.Catalog
	log     logger.Logger
}

// NewButtons loads the button catalog named in config.
func NewButtons(cfg *config.Config, log logger.Logger) (*Buttons, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	catalog, err := paymentbutton.LoadCatalog(cfg.ButtonsFile)
	if err != nil {
		return nil, fmt.Errorf("load button catalog: %w", err)
	}
	all := catalog.All()
	ids := make([]string, 0, len(all))
	for _, d := range all {
		ids = append(ids, d.ID)
	}
	log.InfoObj("button catalog loaded", "buttons_meta", map[string]any{
		"count":   len(ids),
		"enabled": len(catalog.Enabled()),
		"ids":     ids,
	})

	return &Buttons{cfg: cfg, catalog: catalog, log: log}, nil
}

// Run writes the preview page and returns its path.
func (b *Buttons) Run() (string, error) {
	if b == nil || b.catalog == nil {
		return "", fmt.Errorf("buttons runtime is not initialized")
	}

	previews, err := b.catalog.Previews()
	if err != nil {
		return "", fmt.Errorf("build buttons: %w", err)
	}

	out := b.cfg.ButtonsOutput
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}
	if err := paymentbutton.WritePreviewPage(f, b.cfg.AppName+" buttons", previews); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("render preview: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close output: %w", err)
	}

	for _, p := range previews {
		pres := p.Button.Presentation()
		b.log.DebugObj("button rendered", "button", map[string]any{
			"id":             p.ID,
			"image_height":   pres.ImageHeight,
			"prefix_visible": pres.PrefixVisible,
			"suffix_visible": pres.SuffixVisible,
			"corner_radius":  p.Button.Layout(p.Bounds).CornerRadius,
		})
	}
	b.log.InfoObj("button preview written", "buttons_output", map[string]any{
		"path":  out,
		"count": len(previews),
	})
	return out, nil
}
