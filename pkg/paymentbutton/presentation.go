package paymentbutton

// LogoVariant is the logo artwork matching the background.
type LogoVariant string

const (
	LogoBlue  LogoVariant = "blue"
	LogoWhite LogoVariant = "white"
)

// payLaterText replaces any configured suffix for pay later buttons.
const payLaterText = "Pay Later"

// Presentation holds every value derived from a Config before layout.
type Presentation struct {
	ImageHeight   int
	PrefixVisible bool
	PrefixText    string
	SuffixVisible bool
	SuffixText    string
	Insets        Insets
	FontSize      int
	Background    string
	TextColor     string
	LogoVariant   LogoVariant
}

var imageHeights = map[Size]int{
	SizeMini:      24,
	SizeCollapsed: 16,
	SizeExpanded:  24,
	SizeFull:      24,
}

var defaultInsets = map[Size]Insets{
	SizeMini:      {Top: 6, Left: 6, Bottom: 6, Right: 6},
	SizeCollapsed: {Top: 6, Left: 10, Bottom: 6, Right: 10},
	SizeExpanded:  {Top: 9, Left: 20, Bottom: 9, Right: 20},
	SizeFull:      {Top: 12, Left: 20, Bottom: 12, Right: 20},
}

var fontSizes = map[Size]int{
	SizeExpanded: 14,
	SizeFull:     16,
}

type palette struct {
	background string
	text       string
	logo       LogoVariant
}

var palettes = map[Color]palette{
	ColorGold:     {background: "#FFC439", text: "#000000", logo: LogoBlue},
	ColorWhite:    {background: "#FFFFFF", text: "#000000", logo: LogoBlue},
	ColorSilver:   {background: "#EEEEEE", text: "#000000", logo: LogoBlue},
	ColorBlack:    {background: "#000000", text: "#FFFFFF", logo: LogoWhite},
	ColorBlue:     {background: "#0070E0", text: "#FFFFFF", logo: LogoWhite},
	ColorDarkBlue: {background: "#003087", text: "#FFFFFF", logo: LogoWhite},
}

// Derive computes the presentation of cfg. It is pure and expects cfg to
// carry valid enum values; unknown values fall back to empty lookups.
func Derive(cfg Config) Presentation {
	p := Presentation{
		ImageHeight: ImageHeight(cfg.Size, cfg.FundingSource),
		FontSize:    fontSizes[cfg.Size],
	}

	if cfg.Insets != nil {
		p.Insets = *cfg.Insets
	} else {
		p.Insets = defaultInsets[cfg.Size]
	}

	if cfg.Size == SizeFull && cfg.Label.Position() == PositionPrefix {
		p.PrefixVisible = true
		p.PrefixText = cfg.Label.Text()
	}

	switch {
	case cfg.FundingSource == FundingPayLater:
		p.SuffixVisible = true
		p.SuffixText = payLaterText
	case cfg.Size.AtLeast(SizeExpanded) && cfg.Label.Position() == PositionSuffix:
		p.SuffixVisible = true
		p.SuffixText = cfg.Label.Text()
	}

	pal := palettes[cfg.Color]
	p.Background = pal.background
	p.TextColor = pal.text
	p.LogoVariant = pal.logo
	return p
}

// ImageHeight is the logo height for a size, halved for pay later and
// credit at the mini size.
func ImageHeight(size Size, funding FundingSource) int {
	h := imageHeights[size]
	if size == SizeMini && (funding == FundingPayLater || funding == FundingCredit) {
		h /= 2
	}
	return h
}

// CornerRadius resolves the corner radius for cfg inside bounds.
// Mini buttons are always circular.
func CornerRadius(cfg Config, b Bounds) float64 {
	half := float64(b.min()) / 2
	if half < 0 {
		half = 0
	}
	if cfg.Size == SizeMini {
		return half
	}

	var r float64
	switch cfg.Edges {
	case EdgesHard:
		r = 0
	case EdgesSoft:
		r = 4
	case EdgesRounded:
		r = half
	case EdgesCustom:
		r = cfg.CornerRadius
	}
	if r > half {
		r = half
	}
	return r
}

// DefaultBounds is the preferred size of a button when the host has no opinion.
func DefaultBounds(size Size) Bounds {
	switch size {
	case SizeMini:
		return Bounds{Width: 36, Height: 36}
	case SizeExpanded:
		return Bounds{Width: 200, Height: 42}
	case SizeFull:
		return Bounds{Width: 300, Height: 48}
	}
	return Bounds{Width: 100, Height: 28}
}
