package vision

import "strings"

// Field is one "field | value" line of a model response.
type Field struct {
	Name  string
	Value string
}

// ParseLine parses a single "field | value" line. It returns nil for lines
// without a separator or with an empty field name or value.
func ParseLine(line string) *Field {
	name, value, ok := strings.Cut(line, "|")
	if !ok {
		return nil
	}
	name = strings.ToLower(strings.Trim(strings.TrimSpace(name), "-*"))
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return nil
	}
	return &Field{Name: name, Value: value}
}

// ParseResponse folds model output into a Description. Unknown field names are
// ignored. Repeated description lines are joined with a space; the first title
// wins.
func ParseResponse(raw string) *Description {
	d := &Description{Features: []string{}, RawResponse: raw}
	var text []string
	for _, line := range strings.Split(raw, "\n") {
		f := ParseLine(line)
		if f == nil {
			continue
		}
		switch f.Name {
		case "title":
			if d.Title == "" {
				d.Title = f.Value
			}
		case "description":
			text = append(text, f.Value)
		case "feature":
			d.Features = append(d.Features, f.Value)
		}
	}
	d.Text = strings.Join(text, " ")
	return d
}
