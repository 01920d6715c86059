package form

import (
	"net/url"
	"strconv"

	"github.com/vbonduro/urbanhomes/internal/domain"
)

type ContactForm struct {
	Name       string `form:"name" validate:"min=2"`
	Email      string `form:"email" validate:"email"`
	Phone      string `form:"phone" validate:"max=40"`
	Message    string `form:"message" validate:"min=10"`
	PropertyID string `form:"propertyId" validate:"max=100"`
}

func ParseContact(v url.Values) ContactForm {
	return ContactForm{
		Name:       trimmed(v, "name"),
		Email:      trimmed(v, "email"),
		Phone:      trimmed(v, "phone"),
		Message:    trimmed(v, "message"),
		PropertyID: trimmed(v, "propertyId"),
	}
}

func (ContactForm) messages() map[string]string {
	return map[string]string{
		"name.min":    "Name is required",
		"email.email": "Invalid email",
		"message.min": "Message must be at least 10 characters",
	}
}

func (f ContactForm) Input() domain.InquiryInput {
	return domain.InquiryInput{
		Name:       f.Name,
		Email:      f.Email,
		Phone:      f.Phone,
		Message:    f.Message,
		PropertyID: f.PropertyID,
	}
}

type LoginForm struct {
	Email    string `form:"email" validate:"email"`
	Password string `form:"password" validate:"min=6"`
}

// ParseLogin trims the email but never the password.
func ParseLogin(v url.Values) LoginForm {
	return LoginForm{Email: trimmed(v, "email"), Password: v.Get("password")}
}

func (LoginForm) messages() map[string]string {
	return map[string]string{
		"email.email":  "Invalid email",
		"password.min": "Password must be at least 6 characters",
	}
}

type RegisterForm struct {
	Name     string `form:"name" validate:"min=2"`
	Email    string `form:"email" validate:"email"`
	Password string `form:"password" validate:"min=6"`
}

func (RegisterForm) messages() map[string]string {
	return map[string]string{
		"name.min":     "Name is required",
		"email.email":  "Invalid email",
		"password.min": "Password must be at least 6 characters",
	}
}

// PropertyForm keeps raw strings so an invalid submission re-renders exactly
// what was typed.
type PropertyForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"required"`
	Type        string `form:"type" validate:"oneof=LAND RESIDENTIAL COMMERCIAL INDUSTRIAL"`
	Status      string `form:"status" validate:"oneof=AVAILABLE SOLD RESERVED UNDER_CONSTRUCTION"`
	Price       string `form:"price" validate:"required,nonneg"`
	Area        string `form:"area" validate:"required,nonneg"`
	Location    string `form:"location" validate:"max=200"`
	Address     string `form:"address" validate:"required"`
	City        string `form:"city" validate:"required"`
	State       string `form:"state" validate:"required"`
	Bedrooms    string `form:"bedrooms" validate:"omitempty,number"`
	Bathrooms   string `form:"bathrooms" validate:"omitempty,number"`
}

// NewPropertyForm returns the blank create form.
func NewPropertyForm() PropertyForm {
	return PropertyForm{
		Type:   string(domain.PropertyTypeLand),
		Status: string(domain.PropertyStatusAvailable),
	}
}

// PropertyFormFrom pre-fills the edit form from an existing property.
func PropertyFormFrom(p *domain.Property) PropertyForm {
	f := PropertyForm{
		Title:       p.Title,
		Description: p.Description,
		Type:        string(p.Type),
		Status:      string(p.Status),
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Area:        strconv.FormatFloat(p.Area, 'f', -1, 64),
		Location:    p.Location,
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
	}
	if p.Bedrooms != nil {
		f.Bedrooms = strconv.Itoa(*p.Bedrooms)
	}
	if p.Bathrooms != nil {
		f.Bathrooms = strconv.Itoa(*p.Bathrooms)
	}
	return f
}

func ParseProperty(v url.Values) PropertyForm {
	f := PropertyForm{
		Title:       trimmed(v, "title"),
		Description: trimmed(v, "description"),
		Type:        trimmed(v, "type"),
		Status:      trimmed(v, "status"),
		Price:       trimmed(v, "price"),
		Area:        trimmed(v, "area"),
		Location:    trimmed(v, "location"),
		Address:     trimmed(v, "address"),
		City:        trimmed(v, "city"),
		State:       trimmed(v, "state"),
		Bedrooms:    trimmed(v, "bedrooms"),
		Bathrooms:   trimmed(v, "bathrooms"),
	}
	if f.Status == "" {
		f.Status = string(domain.PropertyStatusAvailable)
	}
	return f
}

func (PropertyForm) messages() map[string]string {
	return map[string]string{
		"type.oneof":   "Choose a property type",
		"status.oneof": "Choose a listing status",
		"area.nonneg":  "Area must be a non-negative number",
	}
}

// Input converts a validated form to the API payload.
func (f PropertyForm) Input() domain.PropertyInput {
	price, _ := strconv.ParseFloat(f.Price, 64)
	area, _ := strconv.ParseFloat(f.Area, 64)
	return domain.PropertyInput{
		Title:       f.Title,
		Description: f.Description,
		Type:        domain.PropertyType(f.Type),
		Status:      domain.PropertyStatus(f.Status),
		Price:       price,
		Area:        area,
		Location:    f.Location,
		Address:     f.Address,
		City:        f.City,
		State:       f.State,
		Bedrooms:    optionalInt(f.Bedrooms),
		Bathrooms:   optionalInt(f.Bathrooms),
	}
}

func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
