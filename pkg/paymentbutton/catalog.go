package paymentbutton

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/png" // register decoder for catalog logos
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// catalogFile represents the structure of the buttons catalog file.
type catalogFile struct {
	Buttons []Definition `json:"buttons" yaml:"buttons"`
}

// Definition is one button entry declared in a catalog file.
type Definition struct {
	ID            string  `json:"id" yaml:"id"`
	Enabled       *bool   `json:"enabled" yaml:"enabled"`
	FundingSource string  `json:"funding_source" yaml:"funding_source"`
	Color         string  `json:"color" yaml:"color"`
	Edges         string  `json:"edges" yaml:"edges"`
	CornerRadius  float64 `json:"corner_radius" yaml:"corner_radius"`
	Size          string  `json:"size" yaml:"size"`
	Label         string  `json:"label" yaml:"label"`
	Insets        *Insets `json:"insets" yaml:"insets"`
	Width         int     `json:"width" yaml:"width"`
	Height        int     `json:"height" yaml:"height"`
	Logo          string  `json:"logo" yaml:"logo"`
}

// Config converts the definition into a button Config.
func (d Definition) Config() (Config, error) {
	cfg := Config{
		FundingSource: FundingSource(d.FundingSource),
		Color:         Color(d.Color),
		Edges:         Edges(d.Edges),
		CornerRadius:  d.CornerRadius,
		Size:          Size(d.Size),
		Label:         Label(d.Label),
		Insets:        d.Insets,
	}
	return cfg.normalized()
}

// Bounds returns the configured bounds, falling back to the size default.
func (d Definition) Bounds() Bounds {
	size, err := ParseSize(d.Size)
	if err != nil {
		size = SizeCollapsed
	}
	b := DefaultBounds(size)
	if d.Width > 0 {
		b.Width = d.Width
	}
	if d.Height > 0 {
		b.Height = d.Height
	}
	return b
}

// EnabledValue returns enabled flag defaulting to true.
func (d Definition) EnabledValue() bool {
	if d.Enabled == nil {
		return true
	}
	return *d.Enabled
}

// Build constructs the button, decoding the logo file when one is configured.
func (d Definition) Build() (*Button, error) {
	cfg, err := d.Config()
	if err != nil {
		return nil, fmt.Errorf("button %q: %w", d.ID, err)
	}
	var logo image.Image
	if d.Logo != "" {
		if logo, err = loadLogo(d.Logo); err != nil {
			return nil, fmt.Errorf("button %q: %w", d.ID, err)
		}
	}
	return New(cfg, logo)
}

// Catalog holds the button definitions loaded from a file.
type Catalog struct {
	mu      sync.RWMutex
	buttons []Definition
	idx     map[string]Definition
}

// LoadCatalog loads button definitions from a YAML/JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("buttons file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read buttons file: %w", err)
	}

	file, err := parseCatalog(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(file.Buttons) == 0 {
		return nil, errors.New("buttons file contains no buttons entries")
	}

	cat := &Catalog{
		buttons: make([]Definition, len(file.Buttons)),
		idx:     make(map[string]Definition, len(file.Buttons)),
	}
	baseDir := filepath.Dir(path)
	for i := range file.Buttons {
		def := sanitizeDefinition(file.Buttons[i], baseDir)
		if err := validateDefinition(def); err != nil {
			return nil, fmt.Errorf("buttons[%d]: %w", i, err)
		}
		if _, exists := cat.idx[def.ID]; exists {
			return nil, fmt.Errorf("duplicate button id %q", def.ID)
		}
		cat.buttons[i] = def
		cat.idx[def.ID] = def
	}
	return cat, nil
}

func parseCatalog(data []byte, ext string) (catalogFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file catalogFile
		if err := d.fn(data, &file); err != nil {
			errs = append(errs, fmt.Errorf("decode %s buttons: %w", d.name, err))
			continue
		}
		return file, nil
	}
	if len(errs) > 0 {
		return catalogFile{}, errors.Join(errs...)
	}
	return catalogFile{}, errors.New("buttons file format not recognized (expected YAML or JSON)")
}

func sanitizeDefinition(d Definition, baseDir string) Definition {
	d.ID = strings.TrimSpace(d.ID)
	d.FundingSource = strings.TrimSpace(d.FundingSource)
	d.Color = strings.TrimSpace(d.Color)
	d.Edges = strings.TrimSpace(d.Edges)
	d.Size = strings.TrimSpace(d.Size)
	d.Label = strings.TrimSpace(d.Label)
	d.Logo = strings.TrimSpace(d.Logo)
	if d.Logo != "" && !filepath.IsAbs(d.Logo) {
		d.Logo = filepath.Join(baseDir, d.Logo)
	}
	if d.Enabled == nil {
		def := true
		d.Enabled = &def
	}
	return d
}

func validateDefinition(d Definition) error {
	if d.ID == "" {
		return errors.New("id is required")
	}
	if _, err := d.Config(); err != nil {
		return fmt.Errorf("button %q: %w", d.ID, err)
	}
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("button %q: width and height must not be negative", d.ID)
	}
	return nil
}

func loadLogo(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open logo: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	return img, nil
}

// ByID returns the definition by id.
func (c *Catalog) ByID(id string) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Definition{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.idx[id]
	return d, ok
}

// All returns every definition in file order.
func (c *Catalog) All() []Definition {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Definition, len(c.buttons))
	copy(out, c.buttons)
	return out
}

// Enabled returns definitions that are enabled.
func (c *Catalog) Enabled() []Definition {
	all := c.All()
	out := make([]Definition, 0, len(all))
	for _, d := range all {
		if d.EnabledValue() {
			out = append(out, d)
		}
	}
	return out
}

// Previews builds every enabled button for a preview page.
func (c *Catalog) Previews() ([]Preview, error) {
	defs := c.Enabled()
	out := make([]Preview, 0, len(defs))
	for _, d := range defs {
		btn, err := d.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, Preview{ID: d.ID, Button: btn, Bounds: d.Bounds()})
	}
	return out, nil
}
