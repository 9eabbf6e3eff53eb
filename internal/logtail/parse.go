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

// Entry is a parsed log/slog text-handler line.
type Entry struct {
	Time    string
	Level   string
	Message string
	Attrs   []Attr
	Raw     string
}

// Parsed reports whether the line looked like a structured record.
func (e Entry) Parsed() bool {
	return e.Level != "" || e.Message != ""
}

// Parse splits a text-handler line into its fields. Lines that are not
// key=value records come back with only Raw set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	for _, kv := range splitPairs(line) {
		switch kv.Key {
		case "time":
			entry.Time = kv.Value
		case "level":
			entry.Level = strings.ToUpper(kv.Value)
		case "msg":
			entry.Message = kv.Value
		default:
			entry.Attrs = append(entry.Attrs, kv)
		}
	}
	if !entry.Parsed() {
		return Entry{Raw: line}
	}
	return entry
}

// ParseAll parses each line.
func ParseAll(lines []string) []Entry {
	out := make([]Entry, len(lines))
	for i, line := range lines {
		out[i] = Parse(line)
	}
	return out
}

// LevelRank orders slog level names; unknown levels rank with INFO.
func LevelRank(level string) int {
	base, _, _ := strings.Cut(strings.ToUpper(level), "+")
	base, _, _ = strings.Cut(base, "-")
	switch base {
	case "DEBUG":
		return 0
	case "WARN":
		return 2
	case "ERROR":
		return 3
	default:
		return 1
	}
}

// Filter keeps entries at or above minLevel. Unstructured lines are kept.
func Filter(entries []Entry, minLevel string) []Entry {
	threshold := LevelRank(minLevel)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Parsed() || LevelRank(e.Level) >= threshold {
			out = append(out, e)
		}
	}
	return out
}

func splitPairs(line string) []Attr {
	var out []Attr
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \t\"") {
			return nil
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := closingQuote(rest)
			if end < 0 {
				return nil
			}
			unquoted, err := strconv.Unquote(rest[:end+1])
			if err != nil {
				return nil
			}
			value = unquoted
			rest = rest[end+1:]
		} else {
			sp := strings.IndexAny(rest, " \t")
			if sp < 0 {
				sp = len(rest)
			}
			value = rest[:sp]
			rest = rest[sp:]
		}
		out = append(out, Attr{Key: key, Value: value})
		rest = strings.TrimLeft(rest, " \t")
	}
	return out
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
