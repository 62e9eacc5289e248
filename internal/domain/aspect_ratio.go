package domain

import "fmt"

// AspectRatio is the width:height ratio requested for a generated poster.
type AspectRatio string

// Supported aspect ratios, in presentation order.
const (
	AspectRatioSquare      AspectRatio = "1:1"
	AspectRatioLandscape   AspectRatio = "16:9"
	AspectRatioPortrait    AspectRatio = "9:16"
	AspectRatioClassic     AspectRatio = "4:3"
	AspectRatioClassicTall AspectRatio = "3:4"
)

// AspectRatios returns every supported aspect ratio in presentation order.
func AspectRatios() []AspectRatio {
	return []AspectRatio{
		AspectRatioSquare,
		AspectRatioLandscape,
		AspectRatioPortrait,
		AspectRatioClassic,
		AspectRatioClassicTall,
	}
}

// IsValid reports whether r is one of the supported aspect ratios.
func (r AspectRatio) IsValid() bool {
	for _, candidate := range AspectRatios() {
		if r == candidate {
			return true
		}
	}
	return false
}

// ParseAspectRatio converts s into an AspectRatio.
func ParseAspectRatio(s string) (AspectRatio, error) {
	r := AspectRatio(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAspectRatio, s)
	}
	return r, nil
}

// String returns the ratio in its "w:h" form.
func (r AspectRatio) String() string {
	return string(r)
}
