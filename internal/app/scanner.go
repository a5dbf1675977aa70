// Package app composes the parser adapter with the extraction engine over
// raw source, single files, and directory trees. All three entry points
// return the same lazy record sequence; a caller that stops ranging stops
// further file reads and tree walks.
package app

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/corey/dartscan/internal/domain/extract"
	"github.com/corey/dartscan/internal/domain/policy"
	"github.com/corey/dartscan/internal/domain/report"
	"github.com/corey/dartscan/internal/ports"
)

// SourceSuffix is the file suffix recognized by directory scans.
const SourceSuffix = ".dart"

// skipDirs lists directories never descended into (matches the watcher).
var skipDirs = map[string]bool{
	".git":         true,
	".dart_tool":   true,
	".idea":        true,
	".vscode":      true,
	"build":        true,
	"node_modules": true,
}

// Scanner drives scans. The gitignore matcher is optional; nil disables
// gitignore filtering.
type Scanner struct {
	parser ports.Parser
	ignore *ignore.GitIgnore
}

// NewScanner creates a scanner around the given parser collaborator.
func NewScanner(parser ports.Parser) *Scanner {
	return &Scanner{parser: parser}
}

// SetIgnore installs a gitignore matcher consulted during directory scans.
func (s *Scanner) SetIgnore(matcher *ignore.GitIgnore) {
	s.ignore = matcher
}

// LoadGitignore compiles <root>/.gitignore when present, nil otherwise.
// An unreadable or malformed file disables filtering rather than failing
// the scan.
func LoadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	matcher, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return matcher
}

// ScanSource parses one in-memory source and yields its report records.
// filePath may be "" for anonymous sources; it is carried into each record.
func (s *Scanner) ScanSource(source []byte, filePath string, pol *policy.Policy) iter.Seq2[report.Record, error] {
	return func(yield func(report.Record, error) bool) {
		tree, err := s.parser.Parse(source)
		if err != nil {
			yield(nil, fmt.Errorf("parse %s: %w", displayPath(filePath), err))
			return
		}
		for rec := range extract.Extract(tree, filePath, pol) {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// ScanFile reads one file and yields its report records. Read failures are
// yielded as an error, never swallowed.
func (s *Scanner) ScanFile(path string, pol *policy.Policy) iter.Seq2[report.Record, error] {
	return func(yield func(report.Record, error) bool) {
		source, err := os.ReadFile(path)
		if err != nil {
			yield(nil, err)
			return
		}
		for rec, err := range s.ScanSource(source, path, pol) {
			if !yield(rec, err) {
				return
			}
		}
	}
}

// ScanDir walks root and concatenates the record sequence of every Dart file
// it finds, one file at a time, in enumeration order. Symbolic links are not
// followed. A missing or unreadable root, or a read failure on any file,
// surfaces as a yielded error and ends the sequence.
func (s *Scanner) ScanDir(root string, pol *policy.Policy) iter.Seq2[report.Record, error] {
	return func(yield func(report.Record, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (skipDirs[d.Name()] || s.ignored(root, path)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), SourceSuffix) {
				return nil
			}
			if s.ignored(root, path) {
				return nil
			}
			for rec, scanErr := range s.ScanFile(path, pol) {
				if scanErr != nil {
					return scanErr
				}
				if !yield(rec, nil) {
					return fs.SkipAll
				}
			}
			return nil
		})
		// WalkDir reports SkipAll as success, so yield is never called again
		// after the consumer stops.
		if err != nil {
			yield(nil, err)
		}
	}
}

// ignored reports whether the gitignore matcher excludes path.
func (s *Scanner) ignored(root, path string) bool {
	if s.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return s.ignore.MatchesPath(rel)
}

func displayPath(filePath string) string {
	if filePath == "" {
		return "<source>"
	}
	return filePath
}
