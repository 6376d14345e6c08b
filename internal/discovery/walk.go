package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"renamer/internal/selection"
	"renamer/internal/services"
)

// Options controls which files Walk returns.
type Options struct {
	// Extensions restricts results to these suffixes (with or without the
	// leading dot, any case). Empty accepts every file.
	Extensions    []string
	IncludeHidden bool
}

// extensionSet matches file suffixes case-insensitively. A nil set accepts
// everything. Not safe for concurrent use: cases.Caser carries state.
type extensionSet struct {
	exts  map[string]struct{}
	caser cases.Caser
}

func newExtensionSet(exts []string) *extensionSet {
	if len(exts) == 0 {
		return nil
	}
	set := &extensionSet{exts: make(map[string]struct{}, len(exts)), caser: cases.Lower(language.Und)}
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set.exts[set.caser.String(ext)] = struct{}{}
	}
	return set
}

func (s *extensionSet) accepts(name string) bool {
	if s == nil {
		return true
	}
	_, ok := s.exts[s.caser.String(filepath.Ext(name))]
	return ok
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Walk returns a candidate for every matching regular file below root, in
// lexical path order. Symbolic links are not followed.
func Walk(ctx context.Context, root string, opts Options) ([]selection.Candidate, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "discover", "resolve input root", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "discover", "stat input root", abs, err)
		}
		return nil, services.Wrap(services.ErrValidation, "discover", "stat input root", abs, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "discover", "stat input root", fmt.Sprintf("%s is not a directory", abs), nil)
	}

	exts := newExtensionSet(opts.Extensions)
	var candidates []selection.Candidate
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != abs && !opts.IncludeHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || !exts.accepts(d.Name()) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		c, err := selection.NewCandidate(abs, path, fi.Size())
		if err != nil {
			return err
		}
		candidates = append(candidates, c)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, services.Wrap(services.ErrValidation, "discover", "walk input root", abs, err)
	}
	return candidates, nil
}
