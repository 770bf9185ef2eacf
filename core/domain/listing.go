// ABOUTME: Listing domain model mirrors the Etsy Open API v3 listing resource
// ABOUTME: Only the fields the viewer reads plus a few identifying attributes

package domain

// ListingDetails is the listing record served by the backend and rendered by the viewer.
// JSON names follow the Etsy listing resource so upstream payloads decode directly.
type ListingDetails struct {
	ListingID   int64          `json:"listing_id,omitempty"`
	ShopID      int64          `json:"shop_id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	State       string         `json:"state,omitempty"`
	Quantity    *int           `json:"quantity,omitempty"`
	URL         string         `json:"url"`
	Price       Money          `json:"price"`
	Images      []ListingImage `json:"images"`
	Tags        []string       `json:"tags,omitempty"`
}

// Money is an amount in minor currency units.
type Money struct {
	// Amount is in minor units, e.g. 2599 for 25.99 USD. It is not
	// required to be whole.
	Amount float64 `json:"amount"`

	// Divisor is the Etsy-reported factor between minor and major units.
	Divisor int `json:"divisor,omitempty"`

	CurrencyCode string `json:"currency_code"`
}

// ListingImage is one image of a listing in the sizes Etsy publishes.
type ListingImage struct {
	ListingImageID int64  `json:"listing_image_id,omitempty"`
	URLFullxFull   string `json:"url_fullxfull"`
	URL570xN       string `json:"url_570xN,omitempty"`
	URL75x75       string `json:"url_75x75,omitempty"`
}

// QuantityValue returns the available quantity and whether it is known.
func (l *ListingDetails) QuantityValue() (int, bool) {
	if l == nil || l.Quantity == nil {
		return 0, false
	}
	return *l.Quantity, true
}

// FirstImage returns the first listing image, if any.
func (l *ListingDetails) FirstImage() (ListingImage, bool) {
	if l == nil || len(l.Images) == 0 {
		return ListingImage{}, false
	}
	return l.Images[0], true
}

// MajorUnits returns Amount / 100.
// The divisor is deliberately ignored: the viewer always displays amount/100.
func (m Money) MajorUnits() float64 {
	return m.Amount / 100
}
