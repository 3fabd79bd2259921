package paymentbutton

import (
	"fmt"
	"image"
)

// Button is an immutable payment button. Presentation is derived once at
// construction; corner radius waits for Layout because it needs bounds.
type Button struct {
	cfg  Config
	pres Presentation
	logo image.Image
}

// Layout is the resolved geometry of a button inside its bounds.
type Layout struct {
	Bounds       Bounds
	CornerRadius float64
	// Content is the area left for the logo and labels after insets.
	Content image.Rectangle
}

// New validates cfg and builds a button. logo may be nil; when set it is
// scaled to the derived image height.
func New(cfg Config, logo image.Image) (*Button, error) {
	norm, err := cfg.normalized()
	if err != nil {
		return nil, fmt.Errorf("invalid button config: %w", err)
	}
	pres := Derive(norm)
	return &Button{
		cfg:  norm,
		pres: pres,
		logo: ScaleToHeight(logo, pres.ImageHeight),
	}, nil
}

// NewPayPalButton builds a button funded by the PayPal wallet.
func NewPayPalButton(cfg Config, logo image.Image) (*Button, error) {
	cfg.FundingSource = FundingPayPal
	return New(cfg, logo)
}

// NewPayLaterButton builds a pay later button; its suffix always reads "Pay Later".
func NewPayLaterButton(cfg Config, logo image.Image) (*Button, error) {
	cfg.FundingSource = FundingPayLater
	return New(cfg, logo)
}

// NewCreditButton builds a credit button.
func NewCreditButton(cfg Config, logo image.Image) (*Button, error) {
	cfg.FundingSource = FundingCredit
	return New(cfg, logo)
}

// Config returns the normalized configuration.
func (b *Button) Config() Config {
	cfg := b.cfg
	if cfg.Insets != nil {
		in := *cfg.Insets
		cfg.Insets = &in
	}
	return cfg
}

// Presentation returns the derived presentation values.
func (b *Button) Presentation() Presentation { return b.pres }

// Logo returns the scaled logo, or nil when none was supplied.
func (b *Button) Logo() image.Image { return b.logo }

// Layout resolves corner radius and content area for the given bounds.
func (b *Button) Layout(bounds Bounds) Layout {
	in := b.pres.Insets
	var content image.Rectangle
	if maxX, maxY := bounds.Width-in.Right, bounds.Height-in.Bottom; maxX > in.Left && maxY > in.Top {
		content = image.Rectangle{Min: image.Pt(in.Left, in.Top), Max: image.Pt(maxX, maxY)}
	}
	return Layout{
		Bounds:       bounds,
		CornerRadius: CornerRadius(b.cfg, bounds),
		Content:      content,
	}
}
