// Package cli implements the interactive menus used to pick a database file
// and the tables to export.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sqlite2jsonl/dbexport"
)

// ErrCancelled is returned when the user quits a menu.
var ErrCancelled = errors.New("cancelled by user")

// ErrNoSources is returned when the directory holds no database file.
var ErrNoSources = errors.New("no database files found")

// Prompter reads menu answers from In and writes menus to Out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter. Nil arguments default to stdin and stdout.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// ask prints prompt and returns the next input line; io.EOF when input ends.
func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isQuit(s string) bool {
	return strings.EqualFold(s, "q")
}

// ListSourceFiles returns the names of regular files in dir whose extension
// is one of exts (case-insensitive), sorted by name.
func ListSourceFiles(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && dbexport.HasExtension(e.Name(), exts) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// SelectSource shows the database files of dir and returns the absolute path
// of the chosen one, or ErrCancelled.
func (p *Prompter) SelectSource(dir string, exts []string) (string, error) {
	files, err := ListSourceFiles(dir, exts)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s (%s)", ErrNoSources, dir, strings.Join(exts, ", "))
	}

	fmt.Fprintln(p.out, "\nSelect a database file to convert:")
	for i, f := range files {
		fmt.Fprintf(p.out, "[%d] %s\n", i+1, f)
	}
	for {
		answer, err := p.ask("Enter the file number (or 'q' to quit): ")
		if err == io.EOF {
			return "", ErrCancelled
		}
		if err != nil {
			return "", err
		}
		if isQuit(answer) {
			return "", ErrCancelled
		}
		idx, err := ParseIndex(answer, len(files))
		if err != nil {
			fmt.Fprintf(p.out, "Invalid input: %v. Try again.\n", err)
			continue
		}
		return filepath.Abs(filepath.Join(dir, files[idx]))
	}
}

// SelectTables shows tables and returns the chosen ones in catalog order,
// without duplicates. Quitting or end of input yields an empty selection.
func (p *Prompter) SelectTables(tables []string) ([]string, error) {
	if len(tables) == 0 {
		return nil, errors.New("no tables found in the database")
	}

	fmt.Fprintln(p.out, "\nSelect the tables to convert:")
	for i, t := range tables {
		fmt.Fprintf(p.out, "[%d] %s\n", i+1, t)
	}
	for {
		answer, err := p.ask("Enter table numbers separated by commas (e.g. '1,3,5'), 'all', or 'q' to quit: ")
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if isQuit(answer) {
			return nil, nil
		}
		indices, err := ParseSelection(answer, len(tables))
		if err != nil {
			fmt.Fprintf(p.out, "Invalid input: %v. Try again.\n", err)
			continue
		}
		selected := make([]string, len(indices))
		for i, idx := range indices {
			selected[i] = tables[idx]
		}
		return selected, nil
	}
}
