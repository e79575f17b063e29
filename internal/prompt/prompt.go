// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt collects a search query from an interactive terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

// Supported filing years, inclusive.
const (
	FirstYear = 2008
	LastYear  = 2024
)

// SupportedYears returns the filing years the portal is known to serve,
// newest first.
func SupportedYears() []int {
	years := make([]int, 0, LastYear-FirstYear+1)
	for y := LastYear; y >= FirstYear; y-- {
		years = append(years, y)
	}
	return years
}

// Prompter reads answers line by line from an input stream. When the input
// ends, every method returns io.EOF.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	years []int
}

// New returns a Prompter reading from r and writing prompts to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w, years: SupportedYears()}
}

// CollectQuery asks for a filing year until a supported one is given, then
// asks once for a last name. The name is trimmed and may be empty.
func (p *Prompter) CollectQuery() (types.SearchQuery, error) {
	year, err := p.askYear()
	if err != nil {
		return types.SearchQuery{}, err
	}
	fmt.Fprint(p.out, "\nEnter a last name to search (e.g., Smith):\n> ")
	name, err := p.readLine()
	if err != nil {
		return types.SearchQuery{}, err
	}
	return types.SearchQuery{Year: year, LastName: name}, nil
}

func (p *Prompter) askYear() (int, error) {
	for {
		fmt.Fprintf(p.out, "Available years: %d-%d\n", LastYear, FirstYear)
		fmt.Fprint(p.out, "\nEnter the year you'd like to download PDFs for (e.g., 2022):\n> ")
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		year, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(p.out, "Invalid year. Please enter a valid 4-digit year like 2022.")
			continue
		}
		if !slices.Contains(p.years, year) {
			fmt.Fprintln(p.out, "That year may not be available. Please try one of the listed years.")
			continue
		}
		return year, nil
	}
}

// Confirm asks question and reports whether the answer was y or yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "\n%s (y/n):\n> ", question)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// readLine returns the next line with surrounding whitespace removed. A
// final line without a newline is still returned; io.EOF comes after it.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
