package scenario

import (
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Screen is the view destination of every scenario screen.
type Screen struct {
	Name   string
	Refs   []domain.Reference
	Reqs   []domain.RequirementIdentifier
	Action *domain.NavigationAction
}

func (s Screen) PreferredAction() domain.NavigationAction {
	if s.Action != nil {
		return *s.Action
	}
	return domain.Pushing()
}

func (s Screen) References() []domain.Reference { return s.Refs }

func (s Screen) Requirements() []domain.RequirementIdentifier { return s.Reqs }

func (s Screen) DestinationName() string { return s.Name }

// screen builds the destination of spec.
func (spec ScreenSpec) screen() Screen {
	s := Screen{Name: spec.Name}
	for _, ref := range spec.References {
		s.Refs = append(s.Refs, domain.Reference(ref))
	}
	for _, req := range spec.Requirements {
		s.Reqs = append(s.Reqs, domain.RequirementIdentifier(req))
	}
	if spec.Present != "" {
		// Validate has already checked the name.
		p, _ := domain.ParsePresentation(spec.Present)
		a := domain.PresentingWith(p, spec.Modal, nil)
		s.Action = &a
	}
	return s
}

// withParams names s after the captured deep link parameters, e.g. order(id=42).
func (s Screen) withParams(params map[string]string) Screen {
	if len(params) == 0 {
		return s
	}
	pairs := make([]string, 0, len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		pairs = append(pairs, k+"="+params[k])
	}
	s.Name += "(" + strings.Join(pairs, ",") + ")"
	return s
}
