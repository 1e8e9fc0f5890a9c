package logtail

import (
	"strconv"
	"strings"
)

// Attr is one key=value pair from a log line.
type Attr struct {
	Key   string
	Value string
}

// Record is a parsed slog text-handler line. Lines that are not in that
// format come back with only Raw set.
type Record struct {
	Raw     string
	Time    string
	Level   string
	Message string
	Attrs   []Attr
}

// Parse splits a slog text line into its fields.
func Parse(line string) Record {
	rec := Record{Raw: line}
	attrs, ok := splitPairs(line)
	if !ok {
		return rec
	}
	for _, a := range attrs {
		switch a.Key {
		case "time":
			rec.Time = a.Value
		case "level":
			rec.Level = a.Value
		case "msg":
			rec.Message = a.Value
		default:
			rec.Attrs = append(rec.Attrs, a)
		}
	}
	if rec.Level == "" && rec.Message == "" {
		return Record{Raw: line}
	}
	return rec
}

// ShortTime trims a RFC 3339 timestamp down to hh:mm:ss.
func (r Record) ShortTime() string {
	t := r.Time
	if i := strings.IndexByte(t, 'T'); i >= 0 {
		t = t[i+1:]
	}
	if len(t) > 8 {
		t = t[:8]
	}
	return t
}

func splitPairs(line string) ([]Attr, bool) {
	var attrs []Attr
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \"") {
			return nil, false
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, "\"") {
			end := closingQuote(rest)
			if end < 0 {
				return nil, false
			}
			unquoted, err := strconv.Unquote(rest[:end+1])
			if err != nil {
				return nil, false
			}
			value = unquoted
			rest = rest[end+1:]
		} else {
			sp := strings.IndexByte(rest, ' ')
			if sp < 0 {
				sp = len(rest)
			}
			value = rest[:sp]
			rest = rest[sp:]
		}
		attrs = append(attrs, Attr{Key: key, Value: value})
		rest = strings.TrimLeft(rest, " ")
	}
	return attrs, len(attrs) > 0
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
