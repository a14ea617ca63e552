package domain

import "fmt"

// Transition names the visual transition of a pushed item.
type Transition string

const (
	TransitionAutomatic Transition = "automatic"
	TransitionZoom      Transition = "zoom"
)

// Presentation is the style used to present a child stack.
type Presentation int

const (
	PresentationSheet Presentation = iota
	PresentationFullScreen
	PresentationBottomSheet
	PresentationFormSheet
	PresentationPageSheet
)

var presentationNames = map[Presentation]string{
	PresentationSheet:       "sheet",
	PresentationFullScreen:  "full_screen",
	PresentationBottomSheet: "bottom_sheet",
	PresentationFormSheet:   "form_sheet",
	PresentationPageSheet:   "page_sheet",
}

func (p Presentation) String() string {
	if name, ok := presentationNames[p]; ok {
		return name
	}
	return fmt.Sprintf("presentation(%d)", int(p))
}

// IsFullScreen reports whether the stack covers the whole screen.
func (p Presentation) IsFullScreen() bool {
	return p == PresentationFullScreen
}

// ParsePresentation maps a presentation name back to its value.
func ParsePresentation(name string) (Presentation, error) {
	for p, n := range presentationNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown presentation %q", name)
}

// MarshalText encodes the presentation by name.
func (p Presentation) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a presentation name.
func (p *Presentation) UnmarshalText(text []byte) error {
	parsed, err := ParsePresentation(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
