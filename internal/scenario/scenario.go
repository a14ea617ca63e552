// Package scenario drives a headless wayfinder.App from a YAML script: tabs,
// screens, requirements and deep link routes are declared up front, then the
// steps run in order and the tree is reported after each one.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Scenario is the root of a scenario file.
type Scenario struct {
	Name         string                `yaml:"name" json:"name"`
	Deeplinks    domain.DeeplinkConfig `yaml:"deeplinks" json:"deeplinks"`
	Requirements []RequirementSpec     `yaml:"requirements" json:"requirements"`
	Screens      []ScreenSpec          `yaml:"screens" json:"screens"`
	Tabs         []TabSpec             `yaml:"tabs" json:"tabs"`
	Routes       []RouteSpec           `yaml:"routes" json:"routes"`
	Steps        []Step                `yaml:"steps" json:"steps"`
}

// RequirementSpec declares a requirement backed by the scenario's state store.
type RequirementSpec struct {
	ID        string `yaml:"id" json:"id"`
	Satisfied bool   `yaml:"satisfied" json:"satisfied"`
	// ResolveOnDemand makes resolution succeed, as if the user logged in when asked.
	ResolveOnDemand bool `yaml:"resolve_on_demand" json:"resolve_on_demand"`
}

// ScreenSpec declares a screen.
type ScreenSpec struct {
	Name         string   `yaml:"name" json:"name"`
	References   []string `yaml:"references" json:"references"`
	Requirements []string `yaml:"requirements" json:"requirements"`
	// Present is the preferred presentation, e.g. sheet. Empty means push.
	Present string `yaml:"present" json:"present"`
	Modal   bool   `yaml:"modal" json:"modal"`
}

// TabSpec declares a tab and the screen at its root.
type TabSpec struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Root  string `yaml:"root" json:"root"`
}

// RouteSpec maps a deep link pattern to a screen. Named groups of the pattern
// end up in the screen's name.
type RouteSpec struct {
	Pattern   string `yaml:"pattern" json:"pattern"`
	Screen    string `yaml:"screen" json:"screen"`
	Universal bool   `yaml:"universal" json:"universal"`
}

// Step is one action of a scenario. Exactly one action field must be set.
type Step struct {
	Push      string `yaml:"push,omitempty" json:"push,omitempty"`
	Present   string `yaml:"present,omitempty" json:"present,omitempty"`
	Deeplink  string `yaml:"deeplink,omitempty" json:"deeplink,omitempty"`
	Back      bool   `yaml:"back,omitempty" json:"back,omitempty"`
	BackTo    string `yaml:"back_to,omitempty" json:"back_to,omitempty"`
	Tab       string `yaml:"tab,omitempty" json:"tab,omitempty"`
	Dismiss   bool   `yaml:"dismiss,omitempty" json:"dismiss,omitempty"`
	Alert     string `yaml:"alert,omitempty" json:"alert,omitempty"`
	Satisfy   string `yaml:"satisfy,omitempty" json:"satisfy,omitempty"`
	Revoke    string `yaml:"revoke,omitempty" json:"revoke,omitempty"`
	PopToRoot bool   `yaml:"pop_to_root,omitempty" json:"pop_to_root,omitempty"`

	// Modifiers.
	As        string `yaml:"as,omitempty" json:"as,omitempty"`
	Modal     bool   `yaml:"modal,omitempty" json:"modal,omitempty"`
	Reference string `yaml:"reference,omitempty" json:"reference,omitempty"`
	Last      bool   `yaml:"last,omitempty" json:"last,omitempty"`

	// Expect is the visible stack of the top-most coordinator after the step, root first.
	Expect []string `yaml:"expect,omitempty" json:"expect,omitempty"`
	// ExpectBlocked is the requirement blocking the top-most item after the step.
	ExpectBlocked string `yaml:"expect_blocked,omitempty" json:"expect_blocked,omitempty"`
	// ExpectError is a substring of the error the step must fail with.
	ExpectError string `yaml:"expect_error,omitempty" json:"expect_error,omitempty"`
}

// String describes the action of the step.
func (s Step) String() string {
	switch {
	case s.Push != "":
		return "push " + s.Push
	case s.Present != "":
		if s.As != "" {
			return fmt.Sprintf("present %s as %s", s.Present, s.As)
		}
		return "present " + s.Present
	case s.Deeplink != "":
		return "deeplink " + s.Deeplink
	case s.Back:
		return "back"
	case s.BackTo != "":
		return "back to " + s.BackTo
	case s.Tab != "":
		return "tab " + s.Tab
	case s.Dismiss:
		return "dismiss"
	case s.Alert != "":
		return "alert " + s.Alert
	case s.Satisfy != "":
		return "satisfy " + s.Satisfy
	case s.Revoke != "":
		return "revoke " + s.Revoke
	case s.PopToRoot:
		return "pop to root"
	}
	return "noop"
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Push != "", s.Present != "", s.Deeplink != "", s.Back, s.BackTo != "",
		s.Tab != "", s.Dismiss, s.Alert != "", s.Satisfy != "", s.Revoke != "",
		s.PopToRoot && s.Tab == "",
	} {
		if set {
			n++
		}
	}
	return n
}

// Load reads a scenario from a YAML or JSON file and validates it.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// Parse decodes and validates a scenario.
func Parse(data []byte, isJSON bool) (*Scenario, error) {
	var s Scenario
	if isJSON {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse scenario: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every name used by tabs, routes and steps is declared.
func (s *Scenario) Validate() error {
	var errs []error
	fail := func(key, reason string, args ...any) {
		errs = append(errs, &ValidationError{Key: key, Reason: fmt.Sprintf(reason, args...)})
	}

	requirements := make(map[string]bool)
	for i, r := range s.Requirements {
		if r.ID == "" {
			fail(fmt.Sprintf("requirements[%d].id", i), "is required")
		}
		requirements[r.ID] = true
	}

	screens := make(map[string]bool)
	for i, sc := range s.Screens {
		key := fmt.Sprintf("screens[%d]", i)
		if sc.Name == "" {
			fail(key+".name", "is required")
		}
		if screens[sc.Name] {
			fail(key+".name", "duplicate screen %q", sc.Name)
		}
		screens[sc.Name] = true
		for _, req := range sc.Requirements {
			if !requirements[req] {
				fail(key+".requirements", "unknown requirement %q", req)
			}
		}
		if sc.Present != "" {
			if _, err := domain.ParsePresentation(sc.Present); err != nil {
				fail(key+".present", "%v", err)
			}
		}
	}

	if len(s.Tabs) == 0 {
		fail("tabs", "at least one tab is required")
	}
	for i, t := range s.Tabs {
		if t.ID == "" {
			fail(fmt.Sprintf("tabs[%d].id", i), "is required")
		}
		if !screens[t.Root] {
			fail(fmt.Sprintf("tabs[%d].root", i), "unknown screen %q", t.Root)
		}
	}

	for i, r := range s.Routes {
		key := fmt.Sprintf("routes[%d]", i)
		if !screens[r.Screen] {
			fail(key+".screen", "unknown screen %q", r.Screen)
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			fail(key+".pattern", "%v", err)
		}
	}

	for i, step := range s.Steps {
		key := fmt.Sprintf("steps[%d]", i)
		if n := step.actions(); n != 1 {
			fail(key, "exactly one action is required, got %d", n)
			continue
		}
		for _, name := range []string{step.Push, step.Present} {
			if name != "" && !screens[name] {
				fail(key, "unknown screen %q", name)
			}
		}
		for _, id := range []string{step.Satisfy, step.Revoke} {
			if id != "" && !requirements[id] {
				fail(key, "unknown requirement %q", id)
			}
		}
		if step.As != "" {
			if _, err := domain.ParsePresentation(step.As); err != nil {
				fail(key+".as", "%v", err)
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func (s *Scenario) screen(name string) ScreenSpec {
	for _, sc := range s.Screens {
		if sc.Name == name {
			return sc
		}
	}
	return ScreenSpec{Name: name}
}
