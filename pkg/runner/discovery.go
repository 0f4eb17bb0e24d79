package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// ErrInvalidPattern indicates an ignore pattern that does not compile.
var ErrInvalidPattern = errors.New("invalid ignore pattern")

// matcher holds the compiled ignore patterns of one run.
type matcher struct {
	patterns []glob.Glob
}

func newMatcher(patterns []string) (*matcher, error) {
	m := &matcher{}
	for _, pattern := range patterns {
		compiled, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
		}
		m.patterns = append(m.patterns, compiled)
	}
	return m, nil
}

// ignored reports whether relPath, or its base name, matches a pattern.
// Directories are also tried with a trailing slash so "vendor/**" skips
// the vendor directory itself.
func (m *matcher) ignored(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	candidates := []string{relPath, filepath.Base(relPath)}
	if isDir {
		candidates = append(candidates, relPath+"/")
	}
	return lo.SomeBy(m.patterns, func(g glob.Glob) bool {
		return lo.SomeBy(candidates, g.Match)
	})
}

// CompilePatterns validates ignore patterns without running discovery.
func CompilePatterns(patterns []string) error {
	_, err := newMatcher(patterns)
	return err
}

// Discover returns the sorted absolute paths of the files a run processes.
// Hidden files and directories are skipped unless named explicitly.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	ignore, err := newMatcher(opts.Ignore)
	if err != nil {
		return nil, err
	}

	walker := &walker{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.extensions(),
		ignore:     ignore,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
	}

	for _, input := range opts.paths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := input
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if info.IsDir() {
			if err := walker.walk(absPath); err != nil {
				return nil, err
			}
			continue
		}
		// Explicit files bypass the hidden-name rule but not the filters.
		walker.consider(absPath)
	}

	slices.Sort(walker.files)
	return walker.files, nil
}

type walker struct {
	ctx        context.Context //nolint:containedctx // Scoped to one Discover call.
	workDir    string
	extensions []string
	ignore     *matcher
	follow     bool
	seen       map[string]struct{}
	files      []string
}

func (w *walker) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := strings.HasPrefix(entry.Name(), ".") && path != root
		if entry.IsDir() {
			if hidden || w.ignore.ignored(w.rel(path), true) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !w.follow {
					return nil
				}
				return w.walk(target)
			}
		}

		w.consider(path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (w *walker) consider(path string) {
	if !slices.Contains(w.extensions, strings.ToLower(filepath.Ext(path))) {
		return
	}
	if w.ignore.ignored(w.rel(path), false) {
		return
	}
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd() //nolint:wrapcheck // Wrapped by the caller.
	}
	return filepath.Abs(workDir) //nolint:wrapcheck // Wrapped by the caller.
}
