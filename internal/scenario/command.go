package scenario

import (
	"fmt"
	"strings"
)

// ParseCommand reads a step written the way Step.String prints it, for
// example "push settings", "present account as full_screen modal",
// "back to settings last" or "tab home pop".
func ParseCommand(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, fmt.Errorf("empty command")
	}
	verb, rest := strings.ToLower(fields[0]), fields[1:]

	arg := func() (string, error) {
		if len(rest) == 0 {
			return "", fmt.Errorf("%s: missing argument", verb)
		}
		return rest[0], nil
	}

	var step Step
	switch verb {
	case "push":
		name, err := arg()
		if err != nil {
			return Step{}, err
		}
		step.Push = name
		if len(rest) == 3 && rest[1] == "ref" {
			step.Reference = rest[2]
		}
	case "present":
		name, err := arg()
		if err != nil {
			return Step{}, err
		}
		step.Present = name
		for i := 1; i < len(rest); i++ {
			switch {
			case rest[i] == "modal":
				step.Modal = true
			case rest[i] == "as" && i+1 < len(rest):
				step.As = rest[i+1]
				i++
			default:
				return Step{}, fmt.Errorf("present: unexpected %q", rest[i])
			}
		}
	case "deeplink", "open":
		u, err := arg()
		if err != nil {
			return Step{}, err
		}
		step.Deeplink = u
	case "back":
		if len(rest) == 0 {
			step.Back = true
			break
		}
		if rest[0] != "to" || len(rest) < 2 {
			return Step{}, fmt.Errorf("back: expected \"back to <reference>\"")
		}
		step.BackTo = rest[1]
		step.Last = len(rest) > 2 && rest[2] == "last"
	case "tab":
		id, err := arg()
		if err != nil {
			return Step{}, err
		}
		step.Tab = id
		step.PopToRoot = len(rest) > 1 && rest[1] == "pop"
	case "dismiss":
		step.Dismiss = true
	case "alert":
		if len(rest) == 0 {
			return Step{}, fmt.Errorf("alert: missing title")
		}
		step.Alert = strings.Join(rest, " ")
	case "satisfy", "revoke":
		id, err := arg()
		if err != nil {
			return Step{}, err
		}
		if verb == "satisfy" {
			step.Satisfy = id
		} else {
			step.Revoke = id
		}
	case "pop":
		step.PopToRoot = true
	default:
		return Step{}, fmt.Errorf("unknown command %q", verb)
	}
	return step, nil
}
