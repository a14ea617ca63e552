package deeplink

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Param returns a named capture group matching one path segment or query value.
func Param(name string) string {
	return fmt.Sprintf("(?P<%s>[^/?&]*?)", name)
}

// Parameters are the non-empty named groups captured from a deep link,
// already percent decoded.
type Parameters map[string]string

// Get returns the value of name or "".
func (p Parameters) Get(name string) string {
	return p[name]
}

// Lookup reports whether name was captured.
func (p Parameters) Lookup(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// Int parses the value of name.
func (p Parameters) Int(name string) (int, bool) {
	v, ok := p[name]
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Decode fills out from the parameters. Field names are matched by their
// "mapstructure" tag and strings are converted to the field types.
func (p Parameters) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]string(p)); err != nil {
		return fmt.Errorf("failed to decode deeplink parameters: %w", err)
	}
	return nil
}
