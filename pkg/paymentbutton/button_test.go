package paymentbutton

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidLogo(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0, G: 48, B: 135, A: 255})
		}
	}
	return img
}

func TestNewNormalizesAndDefaults(t *testing.T) {
	btn, err := New(Config{Color: " Dark-Blue ", Label: "Buy-Now"}, nil)
	require.NoError(t, err)

	cfg := btn.Config()
	assert.Equal(t, FundingPayPal, cfg.FundingSource)
	assert.Equal(t, ColorDarkBlue, cfg.Color)
	assert.Equal(t, EdgesRounded, cfg.Edges)
	assert.Equal(t, SizeCollapsed, cfg.Size)
	assert.Equal(t, LabelBuyNow, cfg.Label)
	assert.Nil(t, btn.Logo())
}

func TestNewRejectsUnknownValues(t *testing.T) {
	_, err := New(Config{Color: "purple"}, nil)
	require.Error(t, err)

	_, err = New(Config{Size: "huge"}, nil)
	require.Error(t, err)

	_, err = New(Config{Edges: EdgesCustom, CornerRadius: -1}, nil)
	require.Error(t, err)

	_, err = New(Config{Insets: &Insets{Top: -2}}, nil)
	require.Error(t, err)
}

func TestVariantsForceFundingSource(t *testing.T) {
	pl, err := NewPayLaterButton(Config{FundingSource: FundingCredit, Size: SizeMini}, nil)
	require.NoError(t, err)
	assert.Equal(t, FundingPayLater, pl.Config().FundingSource)
	assert.Equal(t, 12, pl.Presentation().ImageHeight)
	assert.True(t, pl.Presentation().SuffixVisible)

	cr, err := NewCreditButton(Config{Size: SizeMini}, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, cr.Presentation().ImageHeight)

	pp, err := NewPayPalButton(Config{FundingSource: FundingPayLater, Size: SizeMini}, nil)
	require.NoError(t, err)
	assert.Equal(t, 24, pp.Presentation().ImageHeight)
}

func TestNewScalesLogoToImageHeight(t *testing.T) {
	btn, err := New(Config{Size: SizeCollapsed}, solidLogo(100, 32))
	require.NoError(t, err)

	logo := btn.Logo()
	require.NotNil(t, logo)
	assert.Equal(t, 16, logo.Bounds().Dy())
	assert.Equal(t, 50, logo.Bounds().Dx())
}

func TestConfigIsImmutable(t *testing.T) {
	insets := &Insets{Top: 1, Left: 1, Bottom: 1, Right: 1}
	btn, err := New(Config{Insets: insets}, nil)
	require.NoError(t, err)

	insets.Top = 50
	got := btn.Config()
	got.Insets.Left = 70
	assert.Equal(t, Insets{Top: 1, Left: 1, Bottom: 1, Right: 1}, btn.Presentation().Insets)
	assert.Equal(t, 1, btn.Config().Insets.Left)
}

func TestLayoutResolvesRadiusFromBounds(t *testing.T) {
	btn, err := New(Config{Size: SizeExpanded, Edges: EdgesRounded}, nil)
	require.NoError(t, err)

	small := btn.Layout(Bounds{Width: 200, Height: 40})
	large := btn.Layout(Bounds{Width: 300, Height: 60})
	assert.Equal(t, 20.0, small.CornerRadius)
	assert.Equal(t, 30.0, large.CornerRadius)
	assert.Equal(t, image.Rect(20, 9, 180, 31), small.Content)
}

func TestLayoutEmptyContentWhenInsetsExceedBounds(t *testing.T) {
	btn, err := New(Config{Size: SizeFull}, nil)
	require.NoError(t, err)

	l := btn.Layout(Bounds{Width: 30, Height: 20})
	assert.True(t, l.Content.Empty())
}
