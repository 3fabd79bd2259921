package paymentbutton

import (
	"fmt"
	"strings"
)

// FundingSource selects the payment method the button starts.
type FundingSource string

const (
	FundingPayPal   FundingSource = "paypal"
	FundingPayLater FundingSource = "paylater"
	FundingCredit   FundingSource = "credit"
)

// ParseFundingSource normalizes raw into a FundingSource. Empty means paypal.
func ParseFundingSource(raw string) (FundingSource, error) {
	switch v := FundingSource(normalize(raw)); v {
	case "":
		return FundingPayPal, nil
	case FundingPayPal, FundingPayLater, FundingCredit:
		return v, nil
	case "pay_later":
		return FundingPayLater, nil
	default:
		return "", fmt.Errorf("unknown funding source %q", raw)
	}
}

// Color is the background theme of the button.
type Color string

const (
	ColorGold     Color = "gold"
	ColorWhite    Color = "white"
	ColorBlack    Color = "black"
	ColorSilver   Color = "silver"
	ColorBlue     Color = "blue"
	ColorDarkBlue Color = "darkblue"
)

// ParseColor normalizes raw into a Color. Empty means gold.
func ParseColor(raw string) (Color, error) {
	switch v := Color(normalize(raw)); v {
	case "":
		return ColorGold, nil
	case ColorGold, ColorWhite, ColorBlack, ColorSilver, ColorBlue, ColorDarkBlue:
		return v, nil
	case "dark_blue":
		return ColorDarkBlue, nil
	default:
		return "", fmt.Errorf("unknown color %q", raw)
	}
}

// Edges is the corner style applied outside the mini size.
type Edges string

const (
	EdgesHard    Edges = "hard"
	EdgesSoft    Edges = "soft"
	EdgesRounded Edges = "rounded"
	EdgesCustom  Edges = "custom"
)

// ParseEdges normalizes raw into an Edges value. Empty means rounded.
func ParseEdges(raw string) (Edges, error) {
	switch v := Edges(normalize(raw)); v {
	case "":
		return EdgesRounded, nil
	case EdgesHard, EdgesSoft, EdgesRounded, EdgesCustom:
		return v, nil
	default:
		return "", fmt.Errorf("unknown edges %q", raw)
	}
}

// Size is the size class of the button, ordered mini < collapsed < expanded < full.
type Size string

const (
	SizeMini      Size = "mini"
	SizeCollapsed Size = "collapsed"
	SizeExpanded  Size = "expanded"
	SizeFull      Size = "full"
)

// ParseSize normalizes raw into a Size. Empty means collapsed.
func ParseSize(raw string) (Size, error) {
	switch v := Size(normalize(raw)); v {
	case "":
		return SizeCollapsed, nil
	case SizeMini, SizeCollapsed, SizeExpanded, SizeFull:
		return v, nil
	default:
		return "", fmt.Errorf("unknown size %q", raw)
	}
}

// Rank orders sizes; unknown sizes rank below mini.
func (s Size) Rank() int {
	switch s {
	case SizeMini:
		return 1
	case SizeCollapsed:
		return 2
	case SizeExpanded:
		return 3
	case SizeFull:
		return 4
	}
	return 0
}

// AtLeast reports whether s is o or larger.
func (s Size) AtLeast(o Size) bool { return s.Rank() >= o.Rank() }

// LabelPosition places a label before or after the logo.
type LabelPosition string

const (
	PositionPrefix LabelPosition = "prefix"
	PositionSuffix LabelPosition = "suffix"
)

// Label is an optional caption shown next to the logo.
type Label string

const (
	LabelNone     Label = ""
	LabelCheckout Label = "checkout"
	LabelBuyNow   Label = "buy_now"
	LabelPayWith  Label = "pay_with"
)

// ParseLabel normalizes raw into a Label. Empty and "none" mean no label.
func ParseLabel(raw string) (Label, error) {
	switch v := Label(normalize(raw)); v {
	case LabelNone, "none":
		return LabelNone, nil
	case LabelCheckout, LabelBuyNow, LabelPayWith:
		return v, nil
	case "buynow":
		return LabelBuyNow, nil
	case "paywith":
		return LabelPayWith, nil
	default:
		return "", fmt.Errorf("unknown label %q", raw)
	}
}

// Text is the caption shown for the label.
func (l Label) Text() string {
	switch l {
	case LabelCheckout:
		return "Checkout"
	case LabelBuyNow:
		return "Buy Now"
	case LabelPayWith:
		return "Pay with"
	}
	return ""
}

// Position reports where the label sits. LabelNone has no position.
func (l Label) Position() LabelPosition {
	switch l {
	case LabelCheckout, LabelBuyNow:
		return PositionSuffix
	case LabelPayWith:
		return PositionPrefix
	}
	return ""
}

// Insets are content paddings in pixels.
type Insets struct {
	Top    int `json:"top" yaml:"top"`
	Left   int `json:"left" yaml:"left"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Right  int `json:"right" yaml:"right"`
}

// Bounds is the size the host gives the button at layout time.
type Bounds struct {
	Width  int
	Height int
}

func (b Bounds) min() int {
	if b.Width < b.Height {
		return b.Width
	}
	return b.Height
}

// Config is the full, write-once configuration of a button.
type Config struct {
	FundingSource FundingSource
	Color         Color
	Edges         Edges
	// CornerRadius applies only to EdgesCustom.
	CornerRadius float64
	Size         Size
	// Insets overrides the per-size default padding when set.
	Insets *Insets
	Label  Label
}

// normalized returns cfg with every enum parsed, or the first invalid value.
func (cfg Config) normalized() (Config, error) {
	var err error
	if cfg.FundingSource, err = ParseFundingSource(string(cfg.FundingSource)); err != nil {
		return Config{}, err
	}
	if cfg.Color, err = ParseColor(string(cfg.Color)); err != nil {
		return Config{}, err
	}
	if cfg.Edges, err = ParseEdges(string(cfg.Edges)); err != nil {
		return Config{}, err
	}
	if cfg.Size, err = ParseSize(string(cfg.Size)); err != nil {
		return Config{}, err
	}
	if cfg.Label, err = ParseLabel(string(cfg.Label)); err != nil {
		return Config{}, err
	}
	if cfg.Edges == EdgesCustom && cfg.CornerRadius < 0 {
		return Config{}, fmt.Errorf("custom corner radius must not be negative, got %v", cfg.CornerRadius)
	}
	if cfg.Insets != nil {
		in := *cfg.Insets
		if in.Top < 0 || in.Left < 0 || in.Bottom < 0 || in.Right < 0 {
			return Config{}, fmt.Errorf("insets must not be negative, got %+v", in)
		}
		cfg.Insets = &in
	}
	return cfg, nil
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, "-", "_")))
}
