package pagescrape

// PageSize represents paper dimensions in centimeters.
type PageSize struct {
	Width  float64 // Width in centimeters.
	Height float64 // Height in centimeters.
}

// Standard paper sizes.
var (
	A4     = PageSize{Width: 21.0, Height: 29.7}
	Letter = PageSize{Width: 21.59, Height: 27.94}
	Legal  = PageSize{Width: 21.59, Height: 35.56}
)

// Orientation represents the page orientation.
type Orientation int

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = iota
	// Landscape rotates the page to horizontal orientation.
	Landscape
)

// Margin represents page margins in centimeters.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(cm float64) Margin {
	return Margin{Top: cm, Right: cm, Bottom: cm, Left: cm}
}

// PageConfig controls the layout of a PDF report.
//
// A nil PageConfig or zero-value fields use the defaults: A4 paper, portrait
// orientation, 1.5 cm margins, scale 1.0 and a page-number footer.
type PageConfig struct {
	Size        PageSize
	Orientation Orientation
	Margin      Margin

	// Scale of the report rendering, between 0.1 and 2.0.
	Scale float64

	// NoFooter suppresses the "page N of M" footer.
	NoFooter bool
}

// DefaultPageConfig returns the report layout defaults.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:   A4,
		Margin: UniformMargin(1.5),
		Scale:  1.0,
	}
}

// footerTemplate uses Chrome's print template classes.
const footerTemplate = `<div style="width:100%;font-size:8px;color:#888;text-align:center;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// resolved returns a PageConfig with all zero values replaced by defaults.
func (p *PageConfig) resolved() PageConfig {
	d := DefaultPageConfig()
	if p == nil {
		return d
	}
	r := *p
	if r.Size == (PageSize{}) {
		r.Size = d.Size
	}
	if r.Scale <= 0 {
		r.Scale = d.Scale
	}
	if r.Scale < 0.1 {
		r.Scale = 0.1
	}
	if r.Scale > 2 {
		r.Scale = 2
	}
	if r.Margin == (Margin{}) {
		r.Margin = d.Margin
	}
	return r
}

// cmToInches converts centimeters to inches.
func cmToInches(cm float64) float64 {
	return cm / 2.54
}

// paperDimensions returns the paper width and height in inches,
// accounting for orientation.
func (p PageConfig) paperDimensions() (width, height float64) {
	w := cmToInches(p.Size.Width)
	h := cmToInches(p.Size.Height)
	if p.Orientation == Landscape {
		return h, w
	}
	return w, h
}

// marginInches returns margins converted to inches.
func (p PageConfig) marginInches() (top, right, bottom, left float64) {
	return cmToInches(p.Margin.Top),
		cmToInches(p.Margin.Right),
		cmToInches(p.Margin.Bottom),
		cmToInches(p.Margin.Left)
}
