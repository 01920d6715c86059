package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter field names, shared by the URL, the API query string and the form.
const (
	FilterType     = "type"
	FilterCity     = "city"
	FilterMinPrice = "minPrice"
	FilterMaxPrice = "maxPrice"
	FilterStatus   = "status"
)

// PropertyFilter is the listing page's filter state. Values are passed to the
// backend verbatim; an empty field is omitted.
type PropertyFilter struct {
	Type     PropertyType
	City     string
	MinPrice string
	MaxPrice string
	Status   PropertyStatus
	Page     int
	Limit    int
}

// ParsePropertyFilter reads the filter from URL query values. A missing or
// invalid page becomes 1.
func ParsePropertyFilter(q url.Values) PropertyFilter {
	f := PropertyFilter{
		Type:     PropertyType(strings.TrimSpace(q.Get(FilterType))),
		City:     strings.TrimSpace(q.Get(FilterCity)),
		MinPrice: strings.TrimSpace(q.Get(FilterMinPrice)),
		MaxPrice: strings.TrimSpace(q.Get(FilterMaxPrice)),
		Status:   PropertyStatus(strings.TrimSpace(q.Get(FilterStatus))),
		Page:     1,
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		f.Page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		f.Limit = l
	}
	return f
}

// With returns a copy of f with one field changed. Any change resets the page
// to 1. Unknown field names only reset the page.
func (f PropertyFilter) With(field, value string) PropertyFilter {
	switch field {
	case FilterType:
		f.Type = PropertyType(value)
	case FilterCity:
		f.City = value
	case FilterMinPrice:
		f.MinPrice = value
	case FilterMaxPrice:
		f.MaxPrice = value
	case FilterStatus:
		f.Status = PropertyStatus(value)
	}
	f.Page = 1
	return f
}

// WithPage returns a copy of f pointing at page p, keeping every other field.
func (f PropertyFilter) WithPage(p int) PropertyFilter {
	if p < 1 {
		p = 1
	}
	f.Page = p
	return f
}

// Params returns the non-empty fields as API query parameters.
func (f PropertyFilter) Params() map[string]string {
	params := make(map[string]string)
	if f.Type != "" {
		params[FilterType] = string(f.Type)
	}
	if f.City != "" {
		params[FilterCity] = f.City
	}
	if f.MinPrice != "" {
		params[FilterMinPrice] = f.MinPrice
	}
	if f.MaxPrice != "" {
		params[FilterMaxPrice] = f.MaxPrice
	}
	if f.Status != "" {
		params[FilterStatus] = string(f.Status)
	}
	if f.Page > 0 {
		params["page"] = strconv.Itoa(f.Page)
	}
	if f.Limit > 0 {
		params["limit"] = strconv.Itoa(f.Limit)
	}
	return params
}

// Values is Params as url.Values.
func (f PropertyFilter) Values() url.Values {
	v := url.Values{}
	for k, val := range f.Params() {
		v.Set(k, val)
	}
	return v
}

// PageURL returns the listing URL for page p with the current filter applied.
func (f PropertyFilter) PageURL(p int) string {
	return "/properties?" + f.WithPage(p).Values().Encode()
}

// InquiryFilter selects a page of inquiries.
type InquiryFilter struct {
	Status InquiryStatus
	Page   int
	Limit  int
}

func (f InquiryFilter) Params() map[string]string {
	params := make(map[string]string)
	if f.Status != "" {
		params[FilterStatus] = string(f.Status)
	}
	if f.Page > 0 {
		params["page"] = strconv.Itoa(f.Page)
	}
	if f.Limit > 0 {
		params["limit"] = strconv.Itoa(f.Limit)
	}
	return params
}
