package devapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/urbanhomes/internal/domain"
)

// Seeded admin credentials.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "secret1"
)

func intPtr(i int) *int { return &i }

func (s *Server) seed() {
	if err := s.addAccount(domain.User{ID: uuid.NewString(), Email: AdminEmail, Name: "Admin", Role: "ADMIN"}, AdminPassword); err != nil {
		panic(err)
	}

	listings := []domain.PropertyInput{
		{
			Title: "Dry corner plot in Dutse", Type: domain.PropertyTypeLand, Status: domain.PropertyStatusAvailable,
			Price: 15000000, Area: 600, Location: "Dutse Alhaji", Address: "Plot 12, Dutse Alhaji Road",
			City: "Abuja", State: "FCT",
			Description: "A fenced, dry corner plot with a certificate of occupancy, minutes from the Dutse interchange.",
		},
		{
			Title: "Four-bedroom duplex in Lugbe", Type: domain.PropertyTypeResidential, Status: domain.PropertyStatusAvailable,
			Price: 85000000, Area: 350, Location: "Lugbe", Address: "14 Federal Housing Estate",
			City: "Abuja", State: "FCT", Bedrooms: intPtr(4), Bathrooms: intPtr(5),
			Description: "A fully detached duplex with a boys' quarters, fitted kitchen and paved compound.",
		},
		{
			Title: "Shop units on Ahmadu Bello Way", Type: domain.PropertyTypeCommercial, Status: domain.PropertyStatusReserved,
			Price: 120000000, Area: 420, Location: "Garki", Address: "22 Ahmadu Bello Way",
			City: "Abuja", State: "FCT",
			Description: "Six ground-floor shop units with frontage on a busy commercial road.",
		},
		{
			Title: "Warehouse in Idu industrial layout", Type: domain.PropertyTypeIndustrial, Status: domain.PropertyStatusUnderConstruction,
			Price: 250000000, Area: 2000, Location: "Idu", Address: "Block C, Idu Industrial Layout",
			City: "Abuja", State: "FCT",
			Description: "A steel-frame warehouse with loading bays and three-phase power.",
		},
		{
			Title: "Residential plots in Kubwa", Type: domain.PropertyTypeLand, Status: domain.PropertyStatusSold,
			Price: 9000000, Area: 450, Location: "Kubwa", Address: "Phase 4 extension",
			City: "Abuja", State: "FCT",
			Description: "Serviced residential plots inside a gated estate with good road access.",
		},
		{
			Title: "Three-bedroom flat in Wuse II", Type: domain.PropertyTypeResidential, Status: domain.PropertyStatusAvailable,
			Price: 65000000, Area: 180, Location: "Wuse II", Address: "7 Aminu Kano Crescent",
			City: "Abuja", State: "FCT", Bedrooms: intPtr(3), Bathrooms: intPtr(3),
			Description: "A serviced flat with 24-hour power and security, close to shops and restaurants.",
		},
	}

	// Listed newest first; stagger creation times so ordering is stable.
	base := s.now().UTC().Add(-time.Duration(len(listings)) * time.Hour)
	for i, in := range listings {
		created := base.Add(time.Duration(len(listings)-i) * time.Hour)
		p := &domain.Property{ID: uuid.NewString(), Images: []domain.PropertyImage{}, CreatedAt: created}
		apply(p, in, created)
		s.properties = append(s.properties, p)
	}

	now := s.now().UTC()
	s.inquiries = append(s.inquiries, &domain.ContactInquiry{
		ID:         uuid.NewString(),
		Name:       "Amina Bello",
		Email:      "amina@example.com",
		Phone:      "+234 800 000 0000",
		Message:    "Is the Lugbe duplex still available for inspection this weekend?",
		PropertyID: s.properties[1].ID,
		Status:     domain.InquiryStatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}
