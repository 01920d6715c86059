package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected *Field
	}{
		{
			name:     "title",
			line:     "title | Bright two-bedroom flat",
			expected: &Field{Name: "title", Value: "Bright two-bedroom flat"},
		},
		{
			name:     "case and bullets",
			line:     "- Feature | Gated estate",
			expected: &Field{Name: "feature", Value: "Gated estate"},
		},
		{
			name:     "value keeps later pipes",
			line:     "description | Open plan | lots of light",
			expected: &Field{Name: "description", Value: "Open plan | lots of light"},
		},
		{
			name:     "no separator",
			line:     "Here is your listing:",
			expected: nil,
		},
		{
			name:     "empty value",
			line:     "feature |   ",
			expected: nil,
		},
		{
			name:     "empty name",
			line:     " | something",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLine(tt.line))
		})
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		title    string
		text     string
		features []string
	}{
		{
			name: "full listing",
			raw: `title | Modern duplex in Dutse
description | A four-bedroom duplex with a paved compound.
feature | Fitted kitchen
feature | Boys quarters`,
			title:    "Modern duplex in Dutse",
			text:     "A four-bedroom duplex with a paved compound.",
			features: []string{"Fitted kitchen", "Boys quarters"},
		},
		{
			name: "chatter and repeated description",
			raw: `Sure! Here is a suggestion:

title | Corner plot
title | ignored second title
description | Dry land.
description | Close to the expressway.
colour | green`,
			title:    "Corner plot",
			text:     "Dry land. Close to the expressway.",
			features: []string{},
		},
		{
			name:     "nothing usable",
			raw:      "I cannot see a property in this photo.",
			features: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseResponse(tt.raw)
			assert.Equal(t, tt.title, d.Title)
			assert.Equal(t, tt.text, d.Text)
			assert.Equal(t, tt.features, d.Features)
			assert.Equal(t, tt.raw, d.RawResponse)
		})
	}
}
