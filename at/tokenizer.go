package at

import (
	"bufio"
	"bytes"
	"strings"
)

// Splitter is used for tokenizing captured module replies. It uses
// the signature of bufio.SplitFunc so it can be directly used with bufio.Scanner.
//
// It splits the input on CRLF line endings and also accepts a bare LF or CR,
// which some firmware revisions emit after the version string.
//
// The atEOF parameter indicates whether any more data will be available.
// When true, any remaining data is returned as the final token.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// 1. Match standard line ending with CRLF
	if i := bytes.Index(data, []byte(CRLF)); i >= 0 {
		if j := bytes.IndexAny(data[:i], "\r\n"); j >= 0 {
			return j + 1, data[0:j], nil
		}
		return i + len(CRLF), data[0:i], nil
	}

	// 2. Bare LF or CR
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		// A CR at the end of the buffer may be the first half of a CRLF.
		if data[i] == '\r' && i == len(data)-1 && !atEOF {
			return 0, nil, nil
		}
		return i + 1, data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter

// Lines splits a captured reply into its non-empty, trimmed lines.
func Lines(response string) []string {
	scanner := bufio.NewScanner(strings.NewReader(response))
	scanner.Split(Splitter)

	var lines []string
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
