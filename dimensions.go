package uploadrules

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultHeaderLimit bounds how much of a file the dimensions rule reads
// while looking for the image header.
const DefaultHeaderLimit = 512 * KB

// Box holds optional pixel bounds for width and height.
type Box struct {
	W *int `json:"w,omitempty" yaml:"w,omitempty"`
	H *int `json:"h,omitempty" yaml:"h,omitempty"`
}

// Bounds holds optional minimum and maximum boxes. An unset bound imposes
// no constraint.
type Bounds struct {
	Min *Box `json:"min,omitempty" yaml:"min,omitempty"`
	Max *Box `json:"max,omitempty" yaml:"max,omitempty"`
}

// Px returns a pointer to n, for filling in a Box.
func Px(n int) *int { return &n }

// Fits reports whether an image of w x h pixels satisfies every set bound.
func (b Bounds) Fits(w, h int) bool {
	if b.Min != nil {
		if b.Min.W != nil && w < *b.Min.W {
			return false
		}
		if b.Min.H != nil && h < *b.Min.H {
			return false
		}
	}
	if b.Max != nil {
		if b.Max.W != nil && w > *b.Max.W {
			return false
		}
		if b.Max.H != nil && h > *b.Max.H {
			return false
		}
	}
	return true
}

// Validate checks that bounds are non-negative and that no minimum exceeds
// the maximum on the same axis.
func (b Bounds) Validate() error {
	for _, bound := range []struct {
		name string
		v    *int
	}{
		{"min.w", b.Min.width()},
		{"min.h", b.Min.height()},
		{"max.w", b.Max.width()},
		{"max.h", b.Max.height()},
	} {
		if bound.v != nil && *bound.v < 0 {
			return configError(RuleDimensions, "%s must not be negative, got %d", bound.name, *bound.v)
		}
	}

	if lo, hi := b.Min.width(), b.Max.width(); lo != nil && hi != nil && *lo > *hi {
		return configError(RuleDimensions, "min.w %d exceeds max.w %d", *lo, *hi)
	}
	if lo, hi := b.Min.height(), b.Max.height(); lo != nil && hi != nil && *lo > *hi {
		return configError(RuleDimensions, "min.h %d exceeds max.h %d", *lo, *hi)
	}
	return nil
}

func (b *Box) width() *int {
	if b == nil {
		return nil
	}
	return b.W
}

func (b *Box) height() *int {
	if b == nil {
		return nil
	}
	return b.H
}

func (b Bounds) String() string {
	var parts []string
	add := func(name, op string, v *int) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("%s %s %d", name, op, *v))
		}
	}
	add("width", ">=", b.Min.width())
	add("height", ">=", b.Min.height())
	add("width", "<=", b.Max.width())
	add("height", "<=", b.Max.height())
	if len(parts) == 0 {
		return "any dimensions"
	}
	return strings.Join(parts, ", ")
}

// DimensionsRule accepts images whose pixel size lies within Bounds.
// Anything that is not a decodable image is rejected.
type DimensionsRule struct {
	bounds      Bounds
	headerLimit int64
}

// DimensionsOption configures a DimensionsRule
type DimensionsOption func(*DimensionsRule)

// WithHeaderLimit bounds the bytes read while decoding the image header.
func WithHeaderLimit(n int64) DimensionsOption {
	return func(r *DimensionsRule) {
		if n > 0 {
			r.headerLimit = n
		}
	}
}

// Dimensions returns a rule enforcing bounds.
func Dimensions(bounds Bounds, opts ...DimensionsOption) (*DimensionsRule, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	r := &DimensionsRule{bounds: bounds, headerLimit: DefaultHeaderLimit}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Name implements Rule.
func (r *DimensionsRule) Name() string { return RuleDimensions }

// Bounds returns the configured bounds.
func (r *DimensionsRule) Bounds() Bounds { return r.bounds }

// Check implements Rule. Only the image header is decoded; non-image,
// corrupt or unreadable files yield false, never an error.
func (r *DimensionsRule) Check(ctx context.Context, file File) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	w, h, err := ImageSize(file.TmpName, r.headerLimit)
	if err != nil {
		return false, nil
	}
	return r.bounds.Fits(w, h), nil
}

func (r *DimensionsRule) String() string {
	return r.bounds.String()
}

// ImageSize decodes the header of the image at path, reading at most limit
// bytes, and returns its width and height.
func ImageSize(path string, limit int64) (int, int, error) {
	if limit <= 0 {
		limit = DefaultHeaderLimit
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(io.LimitReader(f, limit))
	if err != nil {
		return 0, 0, fmt.Errorf("cannot decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
