// ABOUTME: Listing provider that reads the public Etsy listing page
// ABOUTME: Extracts Open Graph tags and the JSON-LD Product block with goquery

package etsy

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	domainerrors "etsy-viewer-api/core/errors"
	"etsy-viewer-api/core/domain"
	"etsy-viewer-api/core/interfaces"
)

const scraperUserAgent = "Mozilla/5.0 (compatible; EtsyListingViewer/1.0)"

// PageScraper implements interfaces.ListingProvider by scraping listing pages.
// It is used when no API key is configured.
type PageScraper struct {
	http    interfaces.HTTPClient
	siteURL string
	logger  interfaces.Logger
}

var _ interfaces.ListingProvider = (*PageScraper)(nil)

// NewPageScraper creates a page-backed listing provider
func NewPageScraper(httpClient interfaces.HTTPClient, siteURL string, logger interfaces.Logger) *PageScraper {
	return &PageScraper{
		http:    httpClient,
		siteURL: strings.TrimRight(siteURL, "/"),
		logger:  logger,
	}
}

// FetchListing downloads and parses the listing page
func (s *PageScraper) FetchListing(ctx context.Context, listingID string) (*domain.ListingDetails, error) {
	pageURL := fmt.Sprintf("%s/listing/%s", s.siteURL, listingID)

	resp, err := s.http.Get(ctx, pageURL, map[string]string{
		"User-Agent": scraperUserAgent,
		"Accept":     "text/html",
	})
	if err != nil {
		return nil, &domainerrors.ExternalAPIError{StatusCode: http.StatusBadGateway, Message: err.Error(), API: apiName}
	}
	body := resp.Body()
	defer body.Close()

	switch status := resp.StatusCode(); {
	case status == http.StatusNotFound || status == http.StatusGone:
		return nil, &domainerrors.NotFoundError{Resource: "listing", ID: listingID}
	case status < 200 || status >= 300:
		return nil, &domainerrors.ExternalAPIError{StatusCode: status, Message: http.StatusText(status), API: apiName}
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, &domainerrors.ExternalAPIError{
			StatusCode: http.StatusBadGateway,
			Message:    "failed to parse listing page: " + err.Error(),
			API:        apiName,
		}
	}

	listing := parseListingPage(doc)
	if listing.Title == "" {
		if s.logger != nil {
			s.logger.Warn("Listing page had no product data", map[string]interface{}{
				"listing_id": listingID,
				"url":        pageURL,
			})
		}
		return nil, &domainerrors.ExternalAPIError{
			StatusCode: http.StatusBadGateway,
			Message:    "listing page did not contain product data",
			API:        apiName,
		}
	}

	if id, err := strconv.ParseInt(listingID, 10, 64); err == nil {
		listing.ListingID = id
	}
	if listing.URL == "" {
		listing.URL = pageURL
	}

	return listing, nil
}

// parseListingPage reads JSON-LD first and fills gaps from Open Graph tags
func parseListingPage(doc *goquery.Document) *domain.ListingDetails {
	listing := &domain.ListingDetails{Images: []domain.ListingImage{}}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		product := findProduct([]byte(sel.Text()))
		if product == nil {
			return true
		}
		applyProduct(listing, product)
		return false
	})

	meta := func(property string) string {
		return strings.TrimSpace(doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().AttrOr("content", ""))
	}

	if listing.Title == "" {
		listing.Title = meta("og:title")
	}
	if listing.Description == "" {
		listing.Description = meta("og:description")
	}
	if listing.URL == "" {
		listing.URL = meta("og:url")
	}
	if len(listing.Images) == 0 {
		doc.Find(`meta[property="og:image"]`).Each(func(_ int, sel *goquery.Selection) {
			if src := sel.AttrOr("content", ""); src != "" {
				listing.Images = append(listing.Images, domain.ListingImage{URLFullxFull: src})
			}
		})
	}
	if listing.Price.Amount == 0 {
		if amount, ok := toMinorUnits(meta("product:price:amount")); ok {
			listing.Price.Amount = amount
			listing.Price.Divisor = 100
		}
	}
	if listing.Price.CurrencyCode == "" {
		listing.Price.CurrencyCode = meta("product:price:currency")
	}

	return listing
}

// findProduct returns the first schema.org Product object in a JSON-LD
// document, looking through top-level arrays and @graph.
func findProduct(raw []byte) map[string]interface{} {
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return searchProduct(data)
}

func searchProduct(v interface{}) map[string]interface{} {
	switch node := v.(type) {
	case []interface{}:
		for _, item := range node {
			if p := searchProduct(item); p != nil {
				return p
			}
		}
	case map[string]interface{}:
		if isType(node["@type"], "Product") {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			return searchProduct(graph)
		}
	}
	return nil
}

func isType(v interface{}, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func applyProduct(listing *domain.ListingDetails, product map[string]interface{}) {
	listing.Title = stringField(product, "name")
	listing.Description = stringField(product, "description")
	listing.URL = stringField(product, "url")

	for _, src := range imageURLs(product["image"]) {
		listing.Images = append(listing.Images, domain.ListingImage{URLFullxFull: src})
	}

	offer := firstOffer(product["offers"])
	if offer == nil {
		return
	}
	price := offer["price"]
	if price == nil {
		price = offer["lowPrice"]
	}
	if amount, ok := toMinorUnits(price); ok {
		listing.Price.Amount = amount
		listing.Price.Divisor = 100
	}
	listing.Price.CurrencyCode = stringField(offer, "priceCurrency")
	if listing.URL == "" {
		listing.URL = stringField(offer, "url")
	}
	if inv, ok := offer["inventoryLevel"].(map[string]interface{}); ok {
		if q, ok := toInt(inv["value"]); ok {
			listing.Quantity = &q
		}
	}
}

func firstOffer(v interface{}) map[string]interface{} {
	switch o := v.(type) {
	case map[string]interface{}:
		return o
	case []interface{}:
		for _, item := range o {
			if m, ok := item.(map[string]interface{}); ok {
				return m
			}
		}
	}
	return nil
}

func imageURLs(v interface{}) []string {
	var urls []string
	switch img := v.(type) {
	case string:
		if img != "" {
			urls = append(urls, img)
		}
	case map[string]interface{}:
		if u := stringField(img, "contentURL"); u != "" {
			urls = append(urls, u)
		} else if u := stringField(img, "url"); u != "" {
			urls = append(urls, u)
		}
	case []interface{}:
		for _, item := range img {
			urls = append(urls, imageURLs(item)...)
		}
	}
	return urls
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// toMinorUnits converts "25.99" or 25.99 into 2599
func toMinorUnits(v interface{}) (float64, bool) {
	var f float64
	switch p := v.(type) {
	case float64:
		f = p
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(p), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return math.Round(f * 100), true
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}
