package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractListingID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{
			name:   "canonical listing URL",
			input:  "https://www.etsy.com/listing/1234567890/handmade-ceramic-mug",
			wantID: "1234567890",
			wantOK: true,
		},
		{
			name:   "URL with query string",
			input:  "https://www.etsy.com/listing/987654321?ref=shop_home_active_1",
			wantID: "987654321",
			wantOK: true,
		},
		{
			name:   "case insensitive prefix",
			input:  "https://www.etsy.com/LISTING/42/thing",
			wantID: "42",
			wantOK: true,
		},
		{
			name:   "mixed case prefix",
			input:  "https://www.etsy.com/LiStInG/808/thing",
			wantID: "808",
			wantOK: true,
		},
		{
			name:   "long s is not folded to s",
			input:  "https://www.etsy.com/li\u017fting/123",
			wantOK: false,
		},
		{
			name:   "non-ASCII digits are not an id",
			input:  "https://www.etsy.com/listing/\u0661\u0662\u0663",
			wantOK: false,
		},
		{
			name:   "leading zeros preserved",
			input:  "https://www.etsy.com/listing/000123/x",
			wantID: "000123",
			wantOK: true,
		},
		{
			name:   "first occurrence wins",
			input:  "https://www.etsy.com/listing/111/a?next=/listing/222",
			wantID: "111",
			wantOK: true,
		},
		{
			name:   "first digit run only",
			input:  "listing/12a34",
			wantID: "12",
			wantOK: true,
		},
		{
			name:   "bare path without scheme",
			input:  "listing/5",
			wantID: "5",
			wantOK: true,
		},
		{
			name:   "skips non-digit occurrence and uses a later match",
			input:  "https://www.etsy.com/listing/abc?alt=listing/77",
			wantID: "77",
			wantOK: true,
		},
		{
			name:   "empty string",
			input:  "",
			wantOK: false,
		},
		{
			name:   "no listing segment",
			input:  "https://www.etsy.com/shop/SomeShop",
			wantOK: false,
		},
		{
			name:   "listing followed by non-digits",
			input:  "https://www.etsy.com/listing/handmade-mug",
			wantOK: false,
		},
		{
			name:   "listing without slash",
			input:  "https://www.etsy.com/listing1234",
			wantOK: false,
		},
		{
			name:   "plural listings segment still contains listing/",
			input:  "https://www.etsy.com/your/listings/55",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractListingID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestExtractListingID_LongInput(t *testing.T) {
	input := strings.Repeat("x", 1<<16) + "listing/31337"

	id, ok := ExtractListingID(input)

	assert.True(t, ok)
	assert.Equal(t, "31337", id)
}
