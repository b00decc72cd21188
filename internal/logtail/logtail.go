package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Attr is one key=value pair of a log record.
type Attr struct {
	Key   string
	Value string
}

// Entry is a log line split into its slog text fields.
type Entry struct {
	Time    string
	Level   string
	Message string
	Attrs   []Attr
}

// Parse splits a line written by slog's text handler. Lines that carry
// neither a level nor a message are returned with the raw text as Message.
func Parse(line string) Entry {
	var e Entry
	rest := strings.TrimSpace(line)
	for rest != "" {
		key, value, next, ok := nextPair(rest)
		if !ok {
			break
		}
		switch key {
		case "time":
			e.Time = value
		case "level":
			e.Level = strings.ToUpper(value)
		case "msg":
			e.Message = value
		default:
			e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
		}
		rest = strings.TrimLeft(next, " ")
	}
	if e.Level == "" && e.Message == "" {
		return Entry{Message: line}
	}
	return e
}

// Attr returns the value of key, if present.
func (e Entry) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func nextPair(s string) (key, value, rest string, ok bool) {
	eq := strings.IndexByte(s, '=')
	if eq <= 0 || strings.ContainsAny(s[:eq], " \"") {
		return "", "", "", false
	}
	key = s[:eq]
	s = s[eq+1:]
	if strings.HasPrefix(s, `"`) {
		quoted, err := strconv.QuotedPrefix(s)
		if err != nil {
			return "", "", "", false
		}
		value, err = strconv.Unquote(quoted)
		if err != nil {
			return "", "", "", false
		}
		return key, value, s[len(quoted):], true
	}
	if sp := strings.IndexByte(s, ' '); sp >= 0 {
		return key, s[:sp], s[sp:], true
	}
	return key, s, "", true
}
