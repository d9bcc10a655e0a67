// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sdf splits SD files into records and parses their data items.
// A record's molfile payload stays opaque here: structure parsing belongs
// to the chem toolkit. Raw record text is preserved verbatim so failed
// records can be re-emitted byte for byte.
package sdf

import (
	"bufio"
	"io"
	"strings"
)

// recordSeparator terminates each record in an SD file.
const recordSeparator = "$$$$"

// isSeparator reports whether line is a record separator. Trailing blanks
// and carriage returns are tolerated; leading whitespace is not, so the
// scanner and the separator count agree on the same bytes.
func isSeparator(line string) bool {
	return strings.TrimRight(line, " \t\r") == recordSeparator
}

// maxLine bounds a single input line. SD lines are short by specification;
// this guards against binary garbage blowing up the scanner.
const maxLine = 1 << 20

// Tag is one data item of a record, in file order.
type Tag struct {
	Name  string
	Value string
}

// Record is one entry of an SD file.
type Record struct {
	// Index is the 1-based position of the record in the file.
	Index int

	// Raw is the verbatim record text, excluding the "$$$$" line.
	Raw string

	// Molblock is the structure portion, through "M  END" when present.
	Molblock string

	// Name is the molfile title line.
	Name string

	// Tags are the record's data items in file order.
	Tags []Tag
}

// Scanner reads an SD file as a finite, forward-only record sequence.
type Scanner struct {
	sc    *bufio.Scanner
	rec   *Record
	index int
	err   error
	done  bool
}

// NewScanner returns a Scanner over r. The sequence is not restartable;
// re-iteration requires re-reading the source.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return &Scanner{sc: sc}
}

// Scan advances to the next record. It returns false at end of input or on
// a read error; Err disambiguates.
func (s *Scanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}

	var lines []string
	for s.sc.Scan() {
		line := s.sc.Text()
		if isSeparator(line) {
			s.index++
			s.rec = parseRecord(s.index, lines)
			return true
		}
		lines = append(lines, line)
	}
	if err := s.sc.Err(); err != nil {
		s.err = err
		return false
	}
	s.done = true

	// A trailing record without its separator still counts.
	if hasContent(lines) {
		s.index++
		s.rec = parseRecord(s.index, lines)
		return true
	}
	return false
}

// Record returns the record produced by the last successful Scan.
func (s *Scanner) Record() *Record {
	return s.rec
}

// Err returns the first read error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

// parseRecord splits raw record lines into the molblock and data items.
func parseRecord(index int, lines []string) *Record {
	rec := &Record{
		Index: index,
		Raw:   strings.Join(lines, "\n"),
	}
	if len(lines) > 0 {
		rec.Name = strings.TrimSpace(lines[0])
	}

	// The molblock ends at "M  END"; data items follow. Records missing
	// "M  END" keep everything up to the first data-item header so the
	// structure parser can report the real problem.
	molEnd := len(lines)
	for i, line := range lines {
		if strings.HasPrefix(line, "M  END") {
			molEnd = i + 1
			break
		}
		if strings.HasPrefix(line, ">") && strings.Contains(line, "<") {
			molEnd = i
			break
		}
	}
	rec.Molblock = strings.Join(lines[:molEnd], "\n")
	rec.Tags = parseTags(lines[molEnd:])
	return rec
}

// parseTags reads "> <NAME>" data-item blocks. A value runs until the next
// blank line; multi-line values are joined with newlines.
func parseTags(lines []string) []Tag {
	var tags []Tag
	i := 0
	for i < len(lines) {
		name, ok := tagName(lines[i])
		if !ok {
			i++
			continue
		}
		i++
		var value []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			if _, isHeader := tagName(lines[i]); isHeader {
				break
			}
			value = append(value, strings.TrimRight(lines[i], "\r"))
			i++
		}
		tags = append(tags, Tag{Name: name, Value: strings.Join(value, "\n")})
	}
	return tags
}

// tagName extracts NAME from a "> <NAME>" data-item header. Headers may
// carry extra annotations after the closing angle bracket.
func tagName(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ">") {
		return "", false
	}
	open := strings.IndexByte(trimmed, '<')
	if open < 0 {
		return "", false
	}
	close := strings.IndexByte(trimmed[open:], '>')
	if close < 0 {
		return "", false
	}
	name := trimmed[open+1 : open+close]
	if name == "" {
		return "", false
	}
	return name, true
}

// CountRecords counts "$$$$" separators in r, the cheap record total used
// as a cross-check against the parsed record count.
func CountRecords(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	count := 0
	for sc.Scan() {
		if isSeparator(sc.Text()) {
			count++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
