// ABOUTME: HTML rendering for the viewer page
// ABOUTME: Uses an embedded html/template; listing descriptions are inserted as raw markup

package web

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"etsy-viewer-api/core/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").Funcs(template.FuncMap{
		"price":       formatPrice,
		"description": descriptionHTML,
		"firstImage":  firstImage,
		"quantity":    formatQuantity,
	}).ParseFS(templateFS, "templates/index.html"),
)

// Render writes the viewer page for st
func Render(w io.Writer, st State) error {
	return pageTemplate.Execute(w, st)
}

// formatPrice prints amount/100 in shortest form: 2500 -> 25, 2599 -> 25.99
func formatPrice(m domain.Money) string {
	return strconv.FormatFloat(m.MajorUnits(), 'f', -1, 64)
}

// formatQuantity prints nothing when the backend sent no quantity
func formatQuantity(d *domain.ListingDetails) string {
	q, ok := d.QuantityValue()
	if !ok {
		return ""
	}
	return strconv.Itoa(q)
}

// descriptionHTML returns the description unsanitized; listing descriptions
// come from the backend and are rendered as markup.
func descriptionHTML(d *domain.ListingDetails) template.HTML {
	if d.Description == "" {
		return "No description available."
	}
	return template.HTML(d.Description)
}

func firstImage(d *domain.ListingDetails) *domain.ListingImage {
	img, ok := d.FirstImage()
	if !ok {
		return nil
	}
	return &img
}
