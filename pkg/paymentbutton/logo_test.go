package paymentbutton

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleToHeightPreservesAspectRatio(t *testing.T) {
	got := ScaleToHeight(solidLogo(90, 30), 12)
	require.NotNil(t, got)
	assert.Equal(t, image.Rect(0, 0, 36, 12), got.Bounds())
}

func TestScaleToHeightKeepsMatchingImage(t *testing.T) {
	src := solidLogo(10, 24)
	assert.Same(t, src, ScaleToHeight(src, 24))
}

func TestScaleToHeightEdgeCases(t *testing.T) {
	assert.Nil(t, ScaleToHeight(nil, 10))
	assert.Nil(t, ScaleToHeight(solidLogo(10, 10), 0))

	thin := ScaleToHeight(solidLogo(1, 100), 10)
	require.NotNil(t, thin)
	assert.Equal(t, 1, thin.Bounds().Dx())
}
