package domain

import "time"

type PropertyType string

const (
	PropertyTypeLand        PropertyType = "LAND"
	PropertyTypeResidential PropertyType = "RESIDENTIAL"
	PropertyTypeCommercial  PropertyType = "COMMERCIAL"
	PropertyTypeIndustrial  PropertyType = "INDUSTRIAL"
)

// PropertyTypes lists every property type in display order.
var PropertyTypes = []PropertyType{
	PropertyTypeLand,
	PropertyTypeResidential,
	PropertyTypeCommercial,
	PropertyTypeIndustrial,
}

func (t PropertyType) Valid() bool {
	for _, v := range PropertyTypes {
		if t == v {
			return true
		}
	}
	return false
}

type PropertyStatus string

const (
	PropertyStatusAvailable         PropertyStatus = "AVAILABLE"
	PropertyStatusSold              PropertyStatus = "SOLD"
	PropertyStatusReserved          PropertyStatus = "RESERVED"
	PropertyStatusUnderConstruction PropertyStatus = "UNDER_CONSTRUCTION"
)

var PropertyStatuses = []PropertyStatus{
	PropertyStatusAvailable,
	PropertyStatusSold,
	PropertyStatusReserved,
	PropertyStatusUnderConstruction,
}

func (s PropertyStatus) Valid() bool {
	for _, v := range PropertyStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "NEW"
	InquiryStatusContacted InquiryStatus = "CONTACTED"
	InquiryStatusClosed    InquiryStatus = "CLOSED"
)

var InquiryStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusContacted,
	InquiryStatusClosed,
}

func (s InquiryStatus) Valid() bool {
	for _, v := range InquiryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Property struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        PropertyType    `json:"type"`
	Status      PropertyStatus  `json:"status"`
	Price       float64         `json:"price"`
	Area        float64         `json:"area"`
	Location    string          `json:"location"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	State       string          `json:"state"`
	ZipCode     string          `json:"zipCode,omitempty"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
	Bedrooms    *int            `json:"bedrooms,omitempty"`
	Bathrooms   *int            `json:"bathrooms,omitempty"`
	Floors      *int            `json:"floors,omitempty"`
	YearBuilt   *int            `json:"yearBuilt,omitempty"`
	Features    map[string]any  `json:"features,omitempty"`
	Images      []PropertyImage `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PrimaryImage returns the image flagged as primary, falling back to the first
// image. It returns nil when the property has no images.
func (p Property) PrimaryImage() *PropertyImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

type PropertyImage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
}

// PropertyInput is the payload the admin form sends on create and update.
type PropertyInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        PropertyType   `json:"type"`
	Status      PropertyStatus `json:"status"`
	Price       float64        `json:"price"`
	Area        float64        `json:"area"`
	Location    string         `json:"location,omitempty"`
	Address     string         `json:"address"`
	City        string         `json:"city"`
	State       string         `json:"state"`
	Bedrooms    *int           `json:"bedrooms,omitempty"`
	Bathrooms   *int           `json:"bathrooms,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type ContactInquiry struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone,omitempty"`
	Message    string        `json:"message"`
	PropertyID string        `json:"propertyId,omitempty"`
	Status     InquiryStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

type InquiryInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Message    string `json:"message"`
	PropertyID string `json:"propertyId,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// PageNumbers returns every page number from 1 to Pages. The list is not
// windowed: one entry per page.
func (p Pagination) PageNumbers() []int {
	pages := make([]int, 0, p.Pages)
	for i := 1; i <= p.Pages; i++ {
		pages = append(pages, i)
	}
	return pages
}

type PropertyList struct {
	Properties []Property `json:"properties"`
	Pagination Pagination `json:"pagination"`
}

type InquiryList struct {
	Inquiries  []ContactInquiry `json:"inquiries"`
	Pagination Pagination       `json:"pagination"`
}

// PendingImage is a staged listing photo that has not reached the backend yet.
// It is owned by this application, not by the backend.
type PendingImage struct {
	ID         int64
	PropertyID string
	StorageKey string
	Filename   string
	MimeType   string
	Attempts   int
	LastError  string
	CreatedAt  time.Time
}
