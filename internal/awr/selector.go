package awr

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

var ErrUnsupportedVersion = errors.New("unsupported Oracle version")

type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported Oracle version: %s", e.Version)
}

func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

type parserRoute struct {
	majors []string
	build  func() Parser
	// approximate routes reuse a parser built for a different release
	approximate bool
}

var parserRoutes = []parserRoute{
	{majors: []string{"19", "21", "23"}, build: func() Parser { return Oracle19c{} }},
	// TODO: dedicated 12c parser (PDB sections, older Top SQL headers)
	{majors: []string{"12"}, build: func() Parser { return Oracle19c{} }, approximate: true},
	{majors: []string{"11"}, build: func() Parser { return Oracle19c{} }, approximate: true},
}

// SelectParser maps a detected version to its parser by major version.
func SelectParser(version string) (Parser, error) {
	major, _, _ := strings.Cut(strings.TrimSpace(version), ".")

	for _, route := range parserRoutes {
		if !slices.Contains(route.majors, major) {
			continue
		}
		p := route.build()
		if route.approximate {
			slog.Warn("no dedicated parser for version, using approximation",
				"version", version, "parser", p.Name())
		} else {
			slog.Info("selected parser", "version", version, "parser", p.Name())
		}
		return p, nil
	}

	return nil, &UnsupportedVersionError{Version: version}
}
