package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/shandysiswandi/gocountry/internal/country/usecase"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Width  = 800
	Height = 600

	topN = 5

	titleScale = 3
	textScale  = 2
)

var (
	colorText    = color.Black
	colorRanking = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	colorFooter  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Renderer draws the summary PNG.
type Renderer struct {
	printer *message.Printer
}

func NewRenderer() *Renderer {
	return &Renderer{printer: message.NewPrinter(language.English)}
}

// Render draws the total, the top countries by estimated GDP and the refresh
// timestamp on a white canvas and returns the PNG encoding.
func (r *Renderer) Render(countries []entity.Country, at time.Time) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	xdraw.Draw(img, img.Bounds(), image.White, image.Point{}, xdraw.Src)

	drawText(img, 50, 30, "Country Data Summary", colorText, titleScale)
	drawText(img, 50, 100, fmt.Sprintf("Total Countries: %d", len(countries)), colorText, textScale)
	drawText(img, 50, 150, "Top 5 by Estimated GDP:", colorText, textScale)

	y := 190
	for i, c := range TopByGDP(countries, topN) {
		line := fmt.Sprintf("%d. %s: $%s", i+1, c.Name, r.FormatAmount(*c.EstimatedGDP))
		drawText(img, 70, y, line, colorRanking, textScale)
		y += 40
	}

	stamp := at.UTC().Format("2006-01-02 15:04:05") + " UTC"
	drawText(img, 50, 500, "Last Updated: "+stamp, colorFooter, textScale)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode summary png: %w", err)
	}

	return buf.Bytes(), nil
}

// FormatAmount groups thousands and keeps two decimals, e.g. 1,234.50.
func (r *Renderer) FormatAmount(v float64) string {
	return r.printer.Sprintf("%.2f", v)
}

// TopByGDP returns at most n countries that have an estimated GDP, highest
// first. The input is not modified.
func TopByGDP(countries []entity.Country, n int) []entity.Country {
	items := make([]entity.Country, 0, len(countries))
	for _, c := range countries {
		if c.EstimatedGDP != nil {
			items = append(items, c)
		}
	}

	usecase.SortCountries(items, entity.SortGDPDesc)
	if len(items) > n {
		items = items[:n]
	}

	return items
}

// drawText renders s with the fixed 7x13 face and scales it up by scale.
func drawText(dst xdraw.Image, x, y int, s string, c color.Color, scale int) {
	face := basicfont.Face7x13
	metrics := face.Metrics()

	w := font.MeasureString(face, s).Ceil()
	h := metrics.Height.Ceil()
	if w == 0 || h == 0 {
		return
	}

	line := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  line,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(s)

	target := image.Rect(x, y, x+w*scale, y+h*scale)
	xdraw.NearestNeighbor.Scale(dst, target, line, line.Bounds(), xdraw.Over, nil)
}
