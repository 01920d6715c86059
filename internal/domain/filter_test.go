package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyFilterWithResetsPage(t *testing.T) {
	base := PropertyFilter{Type: PropertyTypeLand, City: "Abuja", Page: 4, Limit: 12}

	for _, field := range []string{FilterType, FilterCity, FilterMinPrice, FilterMaxPrice, FilterStatus, "unknown"} {
		t.Run(field, func(t *testing.T) {
			got := base.With(field, "x")
			assert.Equal(t, 1, got.Page)
			assert.Equal(t, 12, got.Limit)
			assert.Equal(t, 4, base.Page, "receiver must not change")
		})
	}
}

func TestPropertyFilterWithPageKeepsFields(t *testing.T) {
	f := PropertyFilter{Type: PropertyTypeCommercial, City: "Lagos", MinPrice: "100"}.WithPage(3)

	assert.Equal(t, 3, f.Page)
	assert.Equal(t, PropertyTypeCommercial, f.Type)
	assert.Equal(t, "Lagos", f.City)
	assert.Equal(t, "100", f.MinPrice)
	assert.Equal(t, 1, f.WithPage(0).Page)
}

func TestParsePropertyFilter(t *testing.T) {
	q, err := url.ParseQuery("type=LAND&city=%20Abuja%20&minPrice=5000&page=2")
	assert.NoError(t, err)

	f := ParsePropertyFilter(q)
	assert.Equal(t, PropertyTypeLand, f.Type)
	assert.Equal(t, "Abuja", f.City)
	assert.Equal(t, "5000", f.MinPrice)
	assert.Equal(t, "", f.MaxPrice)
	assert.Equal(t, 2, f.Page)

	assert.Equal(t, 1, ParsePropertyFilter(url.Values{"page": {"-3"}}).Page)
	assert.Equal(t, 1, ParsePropertyFilter(url.Values{"page": {"abc"}}).Page)
}

func TestPropertyFilterParamsOmitsEmpty(t *testing.T) {
	params := PropertyFilter{Type: PropertyTypeLand, Page: 1}.Params()
	assert.Equal(t, map[string]string{"type": "LAND", "page": "1"}, params)
}

func TestPropertyFilterPageURL(t *testing.T) {
	f := PropertyFilter{Type: PropertyTypeLand, City: "Abuja", Page: 1}
	assert.Equal(t, "/properties?city=Abuja&page=2&type=LAND", f.PageURL(2))
}

func TestPaginationPageNumbers(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4}, Pagination{Pages: 4}.PageNumbers())
	assert.Empty(t, Pagination{Pages: 0}.PageNumbers())
}

func TestPrimaryImage(t *testing.T) {
	tests := []struct {
		name   string
		images []PropertyImage
		wantID string
	}{
		{name: "flagged", images: []PropertyImage{{ID: "a"}, {ID: "b", IsPrimary: true}}, wantID: "b"},
		{name: "fallback to first", images: []PropertyImage{{ID: "a"}, {ID: "b"}}, wantID: "a"},
		{name: "none", images: nil, wantID: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Property{Images: tt.images}
			img := p.PrimaryImage()
			if tt.wantID == "" {
				assert.Nil(t, img)
				return
			}
			assert.Equal(t, tt.wantID, img.ID)
		})
	}
}

func TestEnumValid(t *testing.T) {
	assert.True(t, PropertyTypeIndustrial.Valid())
	assert.False(t, PropertyType("CASTLE").Valid())
	assert.True(t, PropertyStatusUnderConstruction.Valid())
	assert.False(t, PropertyStatus("").Valid())
	assert.True(t, InquiryStatusClosed.Valid())
	assert.False(t, InquiryStatus("OPEN").Valid())
}
