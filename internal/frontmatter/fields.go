package frontmatter

import (
	"fmt"
	"time"
)

// Recognized header keys. Anything else passes through opaquely in Extra.
const (
	KeyLayout        = "layout"
	KeyTitle         = "title"
	KeyDate          = "date"
	KeyPublished     = "published"
	KeyLimit         = "limit"
	KeyShowExcerpts  = "show_excerpts"
	KeyEntriesLayout = "entries_layout"
)

// dateLayouts lists accepted formats for the date header field.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Fields is the typed view over a decoded header map.
//
// Zero values mean "not set": the store applies defaults (layout) and
// filename-derived values (date) afterwards. Published defaults to true.
type Fields struct {
	Layout        string
	Title         string
	Date          time.Time
	Published     *bool
	Limit         int
	ShowExcerpts  bool
	EntriesLayout string

	// Extra holds unrecognized keys, passed through to templates untouched.
	Extra map[string]any
}

// DecodeFields interprets the recognized keys of a header map.
func DecodeFields(m map[string]any) (Fields, error) {
	f := Fields{Extra: map[string]any{}}

	for k, v := range m {
		switch k {
		case KeyLayout:
			s, err := asString(k, v)
			if err != nil {
				return Fields{}, err
			}
			f.Layout = s
		case KeyTitle:
			s, err := asString(k, v)
			if err != nil {
				return Fields{}, err
			}
			f.Title = s
		case KeyDate:
			t, err := asTime(v)
			if err != nil {
				return Fields{}, err
			}
			f.Date = t
		case KeyPublished:
			b, ok := v.(bool)
			if !ok {
				return Fields{}, fmt.Errorf("header field %q: expected bool, got %T", k, v)
			}
			f.Published = &b
		case KeyLimit:
			n, err := asInt(k, v)
			if err != nil {
				return Fields{}, err
			}
			f.Limit = n
		case KeyShowExcerpts:
			b, ok := v.(bool)
			if !ok {
				return Fields{}, fmt.Errorf("header field %q: expected bool, got %T", k, v)
			}
			f.ShowExcerpts = b
		case KeyEntriesLayout:
			s, err := asString(k, v)
			if err != nil {
				return Fields{}, err
			}
			f.EntriesLayout = s
		default:
			f.Extra[k] = v
		}
	}

	return f, nil
}

// Map rebuilds the header map from typed fields. Only set fields appear, so
// DecodeFields(Encode(f.Map())) round-trips to the same Fields value.
func (f Fields) Map() map[string]any {
	m := make(map[string]any, len(f.Extra)+7)
	for k, v := range f.Extra {
		m[k] = v
	}
	if f.Layout != "" {
		m[KeyLayout] = f.Layout
	}
	if f.Title != "" {
		m[KeyTitle] = f.Title
	}
	if !f.Date.IsZero() {
		m[KeyDate] = f.Date.Format(time.RFC3339)
	}
	if f.Published != nil {
		m[KeyPublished] = *f.Published
	}
	if f.Limit != 0 {
		m[KeyLimit] = f.Limit
	}
	if f.ShowExcerpts {
		m[KeyShowExcerpts] = true
	}
	if f.EntriesLayout != "" {
		m[KeyEntriesLayout] = f.EntriesLayout
	}
	return m
}

// IsPublished reports the publication flag, defaulting to true when unset.
func (f Fields) IsPublished() bool {
	return f.Published == nil || *f.Published
}

func asString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("header field %q: expected string, got %T", key, v)
	}
	return s, nil
}

func asInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("header field %q: expected integer, got %T", key, v)
	}
}

func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("header field %q: unrecognized date %q", KeyDate, t)
	default:
		return time.Time{}, fmt.Errorf("header field %q: expected date, got %T", KeyDate, v)
	}
}
