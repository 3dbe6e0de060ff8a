package emoji

import (
	"strings"

	"github.com/drakos74/nn-playground/internal/math/ml"
)

// https://unicode.org/emoji/charts/full-emoji-list.html
const (
	HalfEclipse = "🌓"

	ThirdEclipse = "🌒"
	FullEclipse  = "🌑"
	EclipseFace  = "🌚"
	Comet        = "🪐"

	FirstEclipse = "🌔"
	FullMoon     = "🌕"
	SunFace      = "🌞"
	Star         = "🌟"

	DotSnow  = "❄"
	DotFire  = "🔥"
	DotWater = "💧"
)

// MapToSign maps the given float value according to it's sign.
func MapToSign(f float64) string {
	emo := DotSnow
	if f > 0 {
		emo = DotFire
	} else if f < 0 {
		emo = DotWater
	}
	return emo
}

// MapValue maps the given value to an emoji
// it returns valuable results for values between [-5,5]
func MapValue(value float64) string {
	if value >= 4 {
		return Star
	} else if value >= 3 {
		return SunFace
	} else if value >= 2 {
		return FullMoon
	} else if value >= 1 {
		return FirstEclipse
	} else if value <= -4 {
		return Comet
	} else if value <= -3 {
		return EclipseFace
	} else if value <= -2 {
		return FullEclipse
	} else if value <= -1 {
		return ThirdEclipse
	}
	return HalfEclipse
}

// MapPrediction maps a class 1 probability to the value scale,
// bright for class 1, dark for class 0 and half for undecided.
func MapPrediction(p float64) string {
	return MapValue((p - 0.5) * 10)
}

// Boundary draws the grid with y growing upwards, one row per line.
func Boundary(grid ml.Grid) string {
	rows := new(strings.Builder)
	for j := grid.Resolution - 1; j >= 0; j-- {
		for i := 0; i < grid.Resolution; i++ {
			rows.WriteString(MapPrediction(grid.At(i, j).Prediction))
		}
		rows.WriteString("\n")
	}
	return rows.String()
}
