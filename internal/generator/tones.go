package generator

import "strings"

// ToneProfile parameterizes prompt construction with a named writing style.
// The keyword set only enriches the prompt; it is never enforced on output.
type ToneProfile struct {
	Name        string
	Description string
	Style       string
	Keywords    []string
}

// DefaultTone is the fallback profile name for unknown tones.
const DefaultTone = "professional"

// Catalogue is an immutable, ordered set of tone profiles. Construct with
// NewCatalogue or DefaultCatalogue; the zero value is empty.
type Catalogue struct {
	profiles map[string]ToneProfile
	order    []string
}

// NewCatalogue builds a catalogue from profiles, preserving their order for
// listing. Later duplicates of a name override earlier ones.
func NewCatalogue(profiles []ToneProfile) Catalogue {
	c := Catalogue{profiles: make(map[string]ToneProfile, len(profiles))}
	for _, p := range profiles {
		key := strings.ToLower(p.Name)
		if _, seen := c.profiles[key]; !seen {
			c.order = append(c.order, key)
		}
		c.profiles[key] = p
	}
	return c
}

// DefaultCatalogue returns the built-in tone profiles.
func DefaultCatalogue() Catalogue {
	return NewCatalogue([]ToneProfile{
		{
			Name:        "professional",
			Description: "Formal, business-focused language",
			Style:       "formal and authoritative",
			Keywords:    []string{"professional", "quality", "reliable", "trusted", "premium"},
		},
		{
			Name:        "casual",
			Description: "Friendly, conversational tone",
			Style:       "friendly and approachable",
			Keywords:    []string{"great", "awesome", "perfect", "love", "enjoy"},
		},
		{
			Name:        "luxury",
			Description: "Sophisticated, high-end positioning",
			Style:       "sophisticated and exclusive",
			Keywords:    []string{"exclusive", "premium", "sophisticated", "elegant", "luxury"},
		},
		{
			Name:        "energetic",
			Description: "Dynamic, exciting language",
			Style:       "energetic and enthusiastic",
			Keywords:    []string{"amazing", "incredible", "exciting", "dynamic", "powerful"},
		},
		{
			Name:        "minimalist",
			Description: "Clean, simple, direct language",
			Style:       "clean and direct",
			Keywords:    []string{"simple", "clean", "essential", "pure", "minimal"},
		},
	})
}

// Get returns the profile for name (case-insensitive). Unknown names fall
// back to the professional profile, or to the first profile in the catalogue
// when a custom catalogue has no professional entry.
func (c Catalogue) Get(name string) ToneProfile {
	if p, ok := c.profiles[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	if p, ok := c.profiles[DefaultTone]; ok {
		return p
	}
	if len(c.order) > 0 {
		return c.profiles[c.order[0]]
	}
	return ToneProfile{}
}

// Names returns the profile names in catalogue order.
func (c Catalogue) Names() []string {
	return append([]string(nil), c.order...)
}

// Profiles returns all profiles in catalogue order.
func (c Catalogue) Profiles() []ToneProfile {
	out := make([]ToneProfile, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.profiles[name])
	}
	return out
}
