package form

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/urbanhomes/internal/domain"
)

func TestContactFormValidation(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		values    url.Values
		wantField map[string]string
	}{
		{
			name:   "valid",
			values: url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"I want to see the plot."}},
		},
		{
			name:      "short message",
			values:    url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hi there"}},
			wantField: map[string]string{"message": "Message must be at least 10 characters"},
		},
		{
			name:      "whitespace padded message is trimmed before checking",
			values:    url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"   short    "}},
			wantField: map[string]string{"message": "Message must be at least 10 characters"},
		},
		{
			name:   "everything missing",
			values: url.Values{},
			wantField: map[string]string{
				"name":    "Name is required",
				"email":   "Invalid email",
				"message": "Message must be at least 10 characters",
			},
		},
		{
			name:      "bad email",
			values:    url.Values{"name": {"Ada"}, "email": {"not-an-email"}, "message": {"Long enough message"}},
			wantField: map[string]string{"email": "Invalid email"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(ParseContact(tt.values))
			if tt.wantField == nil {
				assert.Nil(t, errs)
				return
			}
			assert.Equal(t, Errors(tt.wantField), errs)
		})
	}
}

func TestContactFormInputKeepsPropertyReference(t *testing.T) {
	f := ParseContact(url.Values{"name": {"Ada"}, "propertyId": {"p-42"}})
	assert.Equal(t, "p-42", f.Input().PropertyID)
}

func TestLoginFormValidation(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.Validate(ParseLogin(url.Values{"email": {"admin@example.com"}, "password": {"secret1"}})))

	errs := v.Validate(ParseLogin(url.Values{"email": {"admin"}, "password": {"12345"}}))
	assert.Equal(t, "Invalid email", errs.Get("email"))
	assert.Equal(t, "Password must be at least 6 characters", errs.Get("password"))
}

func TestLoginFormDoesNotTrimPassword(t *testing.T) {
	f := ParseLogin(url.Values{"email": {" a@b.co "}, "password": {" pass "}})
	assert.Equal(t, "a@b.co", f.Email)
	assert.Equal(t, " pass ", f.Password)
}

func validPropertyValues() url.Values {
	return url.Values{
		"title":       {"Serviced plot"},
		"description": {"Dry land, C of O"},
		"type":        {"LAND"},
		"status":      {"AVAILABLE"},
		"price":       {"15000000"},
		"area":        {"600"},
		"address":     {"Plot 12"},
		"city":        {"Abuja"},
		"state":       {"FCT"},
	}
}

func TestPropertyFormValidation(t *testing.T) {
	v := NewValidator()
	require.Nil(t, v.Validate(ParseProperty(validPropertyValues())))

	tests := []struct {
		field string
		value string
		want  string
	}{
		{"title", "", "Title is required"},
		{"type", "CASTLE", "Choose a property type"},
		{"status", "GONE", "Choose a listing status"},
		{"price", "-1", "Price must be a non-negative number"},
		{"price", "abc", "Price must be a non-negative number"},
		{"area", "", "Area is required"},
		{"bedrooms", "two", "Bedrooms must be a whole number"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			values := validPropertyValues()
			values.Set(tt.field, tt.value)
			errs := v.Validate(ParseProperty(values))
			assert.Equal(t, tt.want, errs.Get(tt.field))
		})
	}
}

func TestPropertyFormDefaults(t *testing.T) {
	f := NewPropertyForm()
	assert.Equal(t, "LAND", f.Type)
	assert.Equal(t, "AVAILABLE", f.Status)

	values := validPropertyValues()
	values.Del("status")
	assert.Equal(t, "AVAILABLE", ParseProperty(values).Status)
}

func TestPropertyFormInput(t *testing.T) {
	values := validPropertyValues()
	values.Set("bedrooms", "4")
	in := ParseProperty(values).Input()

	assert.Equal(t, domain.PropertyTypeLand, in.Type)
	assert.Equal(t, 15000000.0, in.Price)
	assert.Equal(t, 600.0, in.Area)
	require.NotNil(t, in.Bedrooms)
	assert.Equal(t, 4, *in.Bedrooms)
	assert.Nil(t, in.Bathrooms)
}

func TestPropertyFormFromRoundTrip(t *testing.T) {
	beds := 3
	p := &domain.Property{
		Title: "Duplex", Type: domain.PropertyTypeResidential, Status: domain.PropertyStatusSold,
		Price: 1250000.5, Area: 320, Bedrooms: &beds,
	}
	f := PropertyFormFrom(p)
	assert.Equal(t, "1250000.5", f.Price)
	assert.Equal(t, "320", f.Area)
	assert.Equal(t, "3", f.Bedrooms)
	assert.Equal(t, "", f.Bathrooms)
}
