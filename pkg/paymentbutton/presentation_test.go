package paymentbutton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageHeightTable(t *testing.T) {
	cases := []struct {
		size    Size
		funding FundingSource
		want    int
	}{
		{SizeMini, FundingPayPal, 24},
		{SizeMini, FundingPayLater, 12},
		{SizeMini, FundingCredit, 12},
		{SizeCollapsed, FundingPayPal, 16},
		{SizeCollapsed, FundingPayLater, 16},
		{SizeExpanded, FundingCredit, 24},
		{SizeFull, FundingPayLater, 24},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ImageHeight(tc.size, tc.funding), "%s/%s", tc.size, tc.funding)
	}
}

func TestDeriveMiniPayLaterShowsSuffixRegardlessOfLabel(t *testing.T) {
	for _, label := range []Label{LabelNone, LabelCheckout, LabelPayWith} {
		p := Derive(Config{FundingSource: FundingPayLater, Size: SizeMini, Color: ColorGold, Label: label})
		assert.Equal(t, 12, p.ImageHeight)
		assert.True(t, p.SuffixVisible, "label %q", label)
		assert.Equal(t, "Pay Later", p.SuffixText)
		assert.False(t, p.PrefixVisible)
	}
}

func TestDeriveFullPrefixLabel(t *testing.T) {
	p := Derive(Config{FundingSource: FundingPayPal, Size: SizeFull, Label: LabelPayWith})
	assert.True(t, p.PrefixVisible)
	assert.Equal(t, "Pay with", p.PrefixText)
	assert.False(t, p.SuffixVisible, "pay_with is a prefix label")

	p = Derive(Config{FundingSource: FundingPayLater, Size: SizeFull, Label: LabelPayWith})
	assert.True(t, p.PrefixVisible)
	assert.True(t, p.SuffixVisible, "pay later suffix is independent of the prefix")
}

func TestDerivePrefixHiddenBelowFull(t *testing.T) {
	for _, size := range []Size{SizeMini, SizeCollapsed, SizeExpanded} {
		p := Derive(Config{FundingSource: FundingPayPal, Size: size, Label: LabelPayWith})
		assert.False(t, p.PrefixVisible, "size %s", size)
	}
}

func TestDeriveSuffixLabelBySize(t *testing.T) {
	cases := map[Size]bool{
		SizeMini:      false,
		SizeCollapsed: false,
		SizeExpanded:  true,
		SizeFull:      true,
	}
	for size, visible := range cases {
		p := Derive(Config{FundingSource: FundingPayPal, Size: size, Label: LabelBuyNow})
		assert.Equal(t, visible, p.SuffixVisible, "size %s", size)
		if visible {
			assert.Equal(t, "Buy Now", p.SuffixText)
		}
	}

	p := Derive(Config{FundingSource: FundingCredit, Size: SizeFull})
	assert.False(t, p.SuffixVisible, "no label configured")
}

func TestDeriveInsets(t *testing.T) {
	p := Derive(Config{Size: SizeExpanded})
	assert.Equal(t, Insets{Top: 9, Left: 20, Bottom: 9, Right: 20}, p.Insets)

	custom := &Insets{Top: 1, Left: 2, Bottom: 3, Right: 4}
	p = Derive(Config{Size: SizeExpanded, Insets: custom})
	assert.Equal(t, *custom, p.Insets)
}

func TestDeriveColors(t *testing.T) {
	light := Derive(Config{Color: ColorSilver})
	assert.Equal(t, "#EEEEEE", light.Background)
	assert.Equal(t, LogoBlue, light.LogoVariant)

	dark := Derive(Config{Color: ColorDarkBlue})
	assert.Equal(t, "#003087", dark.Background)
	assert.Equal(t, "#FFFFFF", dark.TextColor)
	assert.Equal(t, LogoWhite, dark.LogoVariant)
}

func TestCornerRadius(t *testing.T) {
	b := Bounds{Width: 200, Height: 40}
	assert.Equal(t, 0.0, CornerRadius(Config{Size: SizeFull, Edges: EdgesHard}, b))
	assert.Equal(t, 4.0, CornerRadius(Config{Size: SizeFull, Edges: EdgesSoft}, b))
	assert.Equal(t, 20.0, CornerRadius(Config{Size: SizeFull, Edges: EdgesRounded}, b))
	assert.Equal(t, 7.5, CornerRadius(Config{Size: SizeFull, Edges: EdgesCustom, CornerRadius: 7.5}, b))
	assert.Equal(t, 20.0, CornerRadius(Config{Size: SizeFull, Edges: EdgesCustom, CornerRadius: 99}, b), "clamped to half the short side")
}

func TestCornerRadiusMiniIsCircular(t *testing.T) {
	for _, edges := range []Edges{EdgesHard, EdgesSoft, EdgesRounded, EdgesCustom} {
		got := CornerRadius(Config{Size: SizeMini, Edges: edges}, Bounds{Width: 36, Height: 30})
		assert.Equal(t, 15.0, got, "edges %s", edges)
	}
}

func TestSizeOrdering(t *testing.T) {
	assert.True(t, SizeFull.AtLeast(SizeExpanded))
	assert.True(t, SizeExpanded.AtLeast(SizeExpanded))
	assert.False(t, SizeCollapsed.AtLeast(SizeExpanded))
	assert.Less(t, SizeMini.Rank(), SizeCollapsed.Rank())
}
