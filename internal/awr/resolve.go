package awr

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const defaultMaxBytes = 50 * 1024 * 1024

// Input types reported by DetectInputType.
const (
	InputHTML    = "html"
	InputText    = "text"
	InputUnknown = "unknown"
)

// Resolve reads an AWR report from a file, "-" (stdin) or "" (interactive)
// and parses it.
func Resolve(input string) (*Report, error) {
	data, err := ReadInput(input)
	if err != nil {
		return nil, err
	}
	return ParseInput(data, input)
}

// ParseInput checks that data is an HTML report before parsing it. name is
// used for extension sniffing and error messages.
func ParseInput(data []byte, name string) (*Report, error) {
	switch DetectInputType(data, name) {
	case InputHTML:
		return ParseReader(bytes.NewReader(data))
	case InputText:
		return nil, fmt.Errorf(`%s: text AWR reports are not supported - generate the HTML variant:

SQL> @?/rdbms/admin/awrrpt.sql   (report_type: html)`, inputLabel(name))
	default:
		return nil, fmt.Errorf("unable to detect input type for %s: expected an AWR HTML report", inputLabel(name))
	}
}

func ReadInput(input string) ([]byte, error) {
	switch input {
	case "":
		return readInteractive()
	case "-":
		return readLimited(os.Stdin, "stdin")
	default:
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readLimited(f, input)
	}
}

func readInteractive() ([]byte, error) {
	fmt.Print("Paste AWR HTML report")
	if runtime.GOOS == "windows" {
		fmt.Print(" (Ctrl+Z, Enter to submit)\n")
	} else {
		fmt.Print(" (Ctrl+D to submit)\n")
	}

	data, err := readLimited(os.Stdin, "stdin")
	if err != nil {
		return nil, err
	}

	lower := bytes.ToLower(data)
	if bytes.Contains(lower, []byte("<html")) && !bytes.Contains(lower, []byte("</html>")) {
		return nil, fmt.Errorf("input appears truncated; for large reports use: awrlens analyze <file>")
	}

	return data, nil
}

func maxBytes() int64 {
	v := os.Getenv("AWRLENS_MAX_BYTES")
	if v == "" {
		return defaultMaxBytes
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return defaultMaxBytes
	}
	return n
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	limit := maxBytes()
	data, err := io.ReadAll(&io.LimitedReader{R: r, N: limit + 1})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s exceeds max size (%d bytes); set AWRLENS_MAX_BYTES to override", name, limit)
	}
	return data, nil
}

// DetectInputType classifies input by extension first, then by content.
func DetectInputType(data []byte, filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return InputHTML
	case ".txt", ".lst":
		return InputText
	}

	trimmed := bytes.TrimSpace(data)
	lower := bytes.ToLower(trimmed)

	if bytes.Contains(lower, []byte("<html")) || bytes.Contains(lower, []byte("<table")) {
		return InputHTML
	}
	if bytes.HasPrefix(bytes.ToUpper(trimmed), []byte("WORKLOAD REPOSITORY")) {
		return InputText
	}

	return InputUnknown
}

func inputLabel(input string) string {
	switch input {
	case "", "-":
		return "stdin"
	default:
		return input
	}
}
