package logtail

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-logfmt/logfmt"
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

// Entry is one parsed logfmt record.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	// Fields holds the remaining key=value pairs in their original order.
	Fields [][2]string
	Raw    string
}

var levelRank = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
	"fatal": 4,
}

// ParseLine decodes a logfmt line. Lines that are not logfmt come back with
// only Raw and Message set.
func ParseLine(line string) Entry {
	entry := Entry{Raw: line}
	dec := logfmt.NewDecoder(strings.NewReader(line))
	if !dec.ScanRecord() {
		entry.Message = line
		return entry
	}
	for dec.ScanKeyval() {
		key := string(dec.Key())
		val := string(dec.Value())
		switch key {
		case "time":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				entry.Time = t
			}
		case "level":
			entry.Level = strings.ToLower(val)
		case "msg":
			entry.Message = val
		case "prefix":
		default:
			entry.Fields = append(entry.Fields, [2]string{key, val})
		}
	}
	if dec.Err() != nil || (entry.Level == "" && entry.Message == "") {
		return Entry{Raw: line, Message: line}
	}
	return entry
}

// Filter parses lines and keeps those at or above minLevel. An empty
// minLevel keeps everything; unparsed lines are kept only in that case.
func Filter(lines []string, minLevel string) []Entry {
	minLevel = strings.ToLower(strings.TrimSpace(minLevel))
	threshold, filtering := levelRank[minLevel]
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry := ParseLine(line)
		if filtering {
			rank, ok := levelRank[entry.Level]
			if !ok || rank < threshold {
				continue
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// FormatFields renders the extra fields back into key=value form.
func (e Entry) FormatFields() string {
	if len(e.Fields) == 0 {
		return ""
	}
	var buf bytes.Buffer
	enc := logfmt.NewEncoder(&buf)
	for _, kv := range e.Fields {
		if err := enc.EncodeKeyval(kv[0], kv[1]); err != nil {
			continue
		}
	}
	return buf.String()
}
