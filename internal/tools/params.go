package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/thenewheretics/blogtools/internal/blogapi"
)

// Params are the named parameters a host injects into a tool. A missing key,
// a nil value and an empty string all mean the parameter was not provided.
type Params map[string]any

// ParamError reports a parameter whose value has an unusable type.
type ParamError struct {
	Name string
	Want string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s must be %s.", e.Name, e.Want)
}

// provided returns the value of name, or false when it is absent.
func (p Params) provided(name string) (any, bool) {
	v, ok := p[name]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && s == "" {
		return nil, false
	}
	return v, true
}

// Has reports whether name was provided.
func (p Params) Has(name string) bool {
	_, ok := p.provided(name)
	return ok
}

// String returns the text of name. Numbers and booleans are formatted.
func (p Params) String(name string) (string, bool) {
	v, ok := p.provided(name)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return fmt.Sprint(x), true
	}
}

// Bool returns name as a boolean. Strings are parsed with strconv.ParseBool.
func (p Params) Bool(name string) (*bool, error) {
	v, ok := p.provided(name)
	if !ok {
		return nil, nil
	}
	switch x := v.(type) {
	case bool:
		return &x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return nil, &ParamError{Name: name, Want: "true or false"}
		}
		return &b, nil
	}
	return nil, &ParamError{Name: name, Want: "true or false"}
}

// Int returns name as an integer. It accepts integral JSON numbers, Go
// integers and numeric strings; an absent parameter reads as 0.
func (p Params) Int(name string) (int64, error) {
	v, ok := p.provided(name)
	if !ok {
		return 0, nil
	}

	bad := &ParamError{Name: name, Want: "an integer"}
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, bad
		}
		return int64(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, bad
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, bad
		}
		return n, nil
	}
	return 0, bad
}

// Float returns name as a float, or def when it is absent.
func (p Params) Float(name string, def float64) (float64, error) {
	v, ok := p.provided(name)
	if !ok {
		return def, nil
	}

	bad := &ParamError{Name: name, Want: "a number"}
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, bad
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, bad
		}
		return f, nil
	}
	return 0, bad
}

// Tags returns name as a tag list. A comma-separated string is split; a list
// is taken element by element. Elements are trimmed and empty ones dropped.
func (p Params) Tags(name string) ([]string, error) {
	v, ok := p.provided(name)
	if !ok {
		return nil, nil
	}

	switch x := v.(type) {
	case string:
		return blogapi.ParseTags(x), nil
	case []string:
		return cleanTags(x), nil
	case []any:
		tags := make([]string, 0, len(x))
		for _, item := range x {
			s, isString := item.(string)
			if !isString {
				return nil, &ParamError{Name: name, Want: "a comma-separated string or a list of strings"}
			}
			tags = append(tags, s)
		}
		return cleanTags(tags), nil
	}
	return nil, &ParamError{Name: name, Want: "a comma-separated string or a list of strings"}
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
