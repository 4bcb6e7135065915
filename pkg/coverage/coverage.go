// Package coverage reads code coverage reports for the CRAP analyzer.
package coverage

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/panbanda/depend/pkg/ast"
	"github.com/panbanda/depend/pkg/logger"
)

// Report returns the percentage of a callable's statements that ran.
type Report interface {
	Coverage(fn *ast.Callable) float64
}

var _ Report = (*Clover)(nil)

type cloverLine struct {
	Num   int    `xml:"num,attr"`
	Type  string `xml:"type,attr"`
	Count int    `xml:"count,attr"`
}

type cloverFile struct {
	Name  string       `xml:"name,attr"`
	Lines []cloverLine `xml:"line"`
}

type cloverPackage struct {
	Files []cloverFile `xml:"file"`
}

type cloverDocument struct {
	XMLName xml.Name `xml:"coverage"`
	Project struct {
		Files    []cloverFile    `xml:"file"`
		Packages []cloverPackage `xml:"package"`
	} `xml:"project"`
}

// statement is one executable line of a covered file.
type statement struct {
	line    int
	covered bool
}

// Clover is a Clover XML report. The file is read on first use and the
// result is kept for the lifetime of the value, including a load error.
type Clover struct {
	path  string
	once  sync.Once
	files map[string][]statement
	err   error
}

// NewClover returns a report backed by the Clover file at path.
func NewClover(path string) *Clover {
	return &Clover{path: path}
}

// ParseClover reads a Clover document from r.
func ParseClover(r io.Reader) (*Clover, error) {
	c := &Clover{}
	c.once.Do(func() { c.err = c.decode(r) })
	if c.err != nil {
		return nil, c.err
	}
	return c, nil
}

// Path returns the report file path, empty for parsed reports.
func (c *Clover) Path() string { return c.path }

// Load reads the report if it was not read yet and returns the load error.
func (c *Clover) Load() error {
	c.once.Do(func() {
		f, err := os.Open(c.path)
		if err != nil {
			c.err = fmt.Errorf("open clover report: %w", err)
			return
		}
		defer f.Close()
		c.err = c.decode(f)
		if c.err == nil {
			logger.Debug("Loaded coverage report", "path", c.path, "files", len(c.files))
		}
	})
	return c.err
}

// Err returns the error of the first load attempt, if any.
func (c *Clover) Err() error {
	return c.Load()
}

func (c *Clover) decode(r io.Reader) error {
	var doc cloverDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("decode clover report: %w", err)
	}
	c.files = make(map[string][]statement)
	add := func(f cloverFile) {
		name := filepath.Clean(f.Name)
		for _, l := range f.Lines {
			if l.Type != "stmt" {
				continue
			}
			c.files[name] = append(c.files[name], statement{line: l.Num, covered: l.Count > 0})
		}
	}
	for _, f := range doc.Project.Files {
		add(f)
	}
	for _, p := range doc.Project.Packages {
		for _, f := range p.Files {
			add(f)
		}
	}
	return nil
}

// Coverage returns the covered share of the statements between the
// callable's start and end lines, as a percentage. A range without
// statements counts as fully covered; an unreadable report covers nothing.
func (c *Clover) Coverage(fn *ast.Callable) float64 {
	if c.Load() != nil {
		return 0
	}
	total, covered := 0, 0
	for _, s := range c.files[filepath.Clean(fn.File())] {
		if s.line < fn.StartLine() || s.line > fn.EndLine() {
			continue
		}
		total++
		if s.covered {
			covered++
		}
	}
	if total == 0 {
		return 100
	}
	return float64(covered) * 100 / float64(total)
}
