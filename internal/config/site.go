package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Site is the marketing copy rendered by the public pages.
type Site struct {
	CompanyName string        `yaml:"company_name"`
	Tagline     string        `yaml:"tagline"`
	Division    string        `yaml:"division"`
	Email       string        `yaml:"email"`
	Phones      []string      `yaml:"phones"`
	Office      []string      `yaml:"office"`
	Hours       []string      `yaml:"hours"`
	Mission     string        `yaml:"mission"`
	Vision      string        `yaml:"vision"`
	Story       []string      `yaml:"story"`
	Reasons     []string      `yaml:"reasons"`
	Stats       []Achievement `yaml:"achievements"`
}

type Achievement struct {
	Number string `yaml:"number"`
	Label  string `yaml:"label"`
}

// DefaultSite is used when no SITE_CONFIG file is set.
func DefaultSite() *Site {
	return &Site{
		CompanyName: "Iconic Urban Homes",
		Tagline:     "Lands, Buildings, and Construction Services",
		Division:    "Iconic Urban Homes A Division of Iconic Holdings Limited",
		Email:       "info@realestate.com",
		Phones:      []string{"+234 806 486 0707", "+234 803 918 8575"},
		Office:      []string{"M539 Dutse Interchange,", "Dutse Alhaji Junction, FCT Abuja, Nigeria"},
		Hours: []string{
			"Monday - Friday: 9:00 AM - 6:00 PM",
			"Saturday: 10:00 AM - 4:00 PM",
			"Sunday: Closed",
		},
		Mission: "To provide exceptional real estate services that exceed client expectations, delivering quality properties and professional guidance throughout the buying and selling process.",
		Vision:  "To be the most trusted and preferred real estate partner in Nigeria, known for integrity, innovation, and outstanding customer service.",
		Story: []string{
			"Founded with a passion for helping people build their dream properties, Iconic Urban Homes is growing to become one of the most trusted names in Nigerian real estate.",
			"With years of experience in the industry, we've successfully helped clients invest in properties across Nigeria.",
			"We understand that buying property is one of the most important decisions you'll make. That's why we're dedicated to providing expert guidance, transparent transactions, and personalized service every step of the way.",
		},
		Reasons: []string{
			"Expert knowledge of local real estate market",
			"Personalized service tailored to your needs",
			"Wide range of premium properties",
			"Transparent and honest transactions",
			"Professional guidance from start to finish",
			"Competitive pricing and flexible payment options",
		},
		Stats: []Achievement{
			{Number: "50+", Label: "Properties Sold"},
			{Number: "100+", Label: "Happy Clients"},
			{Number: "3+", Label: "Years Experience"},
			{Number: "98%", Label: "Client Satisfaction"},
		},
	}
}

// LoadSite reads site copy from a YAML file. Fields missing from the file keep
// their default values. An empty path returns the defaults.
func LoadSite(path string) (*Site, error) {
	site := DefaultSite()
	if path == "" {
		return site, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site config: %w", err)
	}
	if err := yaml.Unmarshal(data, site); err != nil {
		return nil, fmt.Errorf("parse site config %s: %w", path, err)
	}
	return site, nil
}
