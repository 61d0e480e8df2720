package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// UnnamedRecipe is displayed for catalog entries without a name.
const UnnamedRecipe = "Unnamed"

// Recipe is an immutable catalog entry.
type Recipe struct {
	Name         string       `json:"name"`
	Ingredients  []string     `json:"ingredients"`
	Instructions Instructions `json:"instructions"`
}

// DisplayName returns the recipe name, or UnnamedRecipe when it is blank.
func (r Recipe) DisplayName() string {
	if strings.TrimSpace(r.Name) == "" {
		return UnnamedRecipe
	}
	return r.Name
}

// UnmarshalJSON decodes a catalog record. Ingredient elements that are not
// strings are coerced with CoerceString; null elements are dropped.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type alias Recipe
	aux := &struct {
		Name        any   `json:"name"`
		Ingredients []any `json:"ingredients"`
		*alias
	}{
		alias: (*alias)(r),
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(aux); err != nil {
		return err
	}

	r.Name, _ = CoerceString(aux.Name)
	r.Ingredients = CoerceStrings(aux.Ingredients)
	return nil
}

// Instructions holds the preparation steps of a recipe. It decodes from
// either a single newline-separated string or a list of strings. Steps are
// trimmed and blank steps dropped.
type Instructions []string

// UnmarshalJSON accepts a JSON string, a JSON array, or null.
func (in *Instructions) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	var steps []string
	switch v := raw.(type) {
	case nil:
	case []any:
		for _, elem := range v {
			s, ok := CoerceString(elem)
			if !ok {
				continue
			}
			steps = appendStep(steps, s)
		}
	default:
		text, _ := CoerceString(v)
		for line := range strings.SplitSeq(text, "\n") {
			steps = appendStep(steps, line)
		}
	}

	*in = steps
	return nil
}

func appendStep(steps []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return steps
	}
	return append(steps, s)
}

// CoerceString converts a decoded JSON value to the string a user would
// expect to see. Strings are returned as is, numbers keep their JSON text,
// booleans become "true" or "false", and arrays or objects are rendered as
// compact JSON. It reports false for null.
func CoerceString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// CoerceStrings applies CoerceString to each element, dropping nulls.
// It returns an empty, non-nil slice for empty input.
func CoerceStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := CoerceString(v); ok {
			out = append(out, s)
		}
	}
	return out
}
