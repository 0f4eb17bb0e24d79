package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/yaklabco/gorichtext/pkg/document"
	"github.com/yaklabco/gorichtext/pkg/fsutil"
	"github.com/yaklabco/gorichtext/pkg/sanitize"
	"github.com/yaklabco/gorichtext/pkg/textdiff"
)

// Pipeline error categories.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrTokenize         = errors.New("tokenize failure")
	ErrWriteFailure     = errors.New("write failure")
)

// FileResult is the outcome of processing one file.
type FileResult struct {
	// Path is the source file.
	Path string

	// OutputPath receives the sanitized markup. It equals Path for HTML.
	OutputPath string

	Format Format

	// Blocks is the number of root elements, removed ones included.
	Blocks int

	// Changes lists what the sanitizer did.
	Changes []sanitize.Change

	// Output is the sanitized document.
	Output []byte

	// Modified is true when Output differs from the current content of
	// OutputPath.
	Modified bool

	// Diff is set in dry-run mode for modified files.
	Diff *textdiff.Diff

	Skipped       bool
	SkipReason    string
	BackupCreated bool
	Written       bool
}

// Summary returns a short human-readable status.
func (fr *FileResult) Summary() string {
	switch {
	case fr.Skipped:
		return "skipped: " + fr.SkipReason
	case fr.Written && fr.BackupCreated:
		return "sanitized (backup created)"
	case fr.Written:
		return "sanitized"
	case fr.Modified:
		return "changes pending"
	default:
		return "ok"
	}
}

// Pipeline processes single files.
type Pipeline struct {
	Serializer *document.Serializer

	// Flavor is the Markdown flavor for Markdown inputs.
	Flavor string
}

// NewPipeline creates a Pipeline.
func NewPipeline(serializer *document.Serializer, flavor string) *Pipeline {
	return &Pipeline{Serializer: serializer, Flavor: flavor}
}

// ProcessFile sanitizes path and, in fix mode, writes the result:
//  1. Read and hash the source.
//  2. Serialize it (Markdown is rendered to HTML first).
//  3. Compare with the current output file.
//  4. In dry-run mode, produce a diff and stop; without fix mode, stop.
//  5. Skip if the source changed while processing.
//  6. Back up the output file, then write it atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*FileResult, error) {
	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content)
	if err != nil {
		return nil, err
	}

	current := content
	mode := snap.Mode
	if result.OutputPath != path {
		current, mode, err = readExisting(result.OutputPath)
		if err != nil {
			return nil, categorizeError(err)
		}
	}
	result.Modified = !bytes.Equal(current, result.Output)

	if !result.Modified {
		return result, nil
	}
	if opts.DryRun {
		result.Diff, err = textdiff.Generate(result.OutputPath, current, result.Output)
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	if !opts.Fix {
		return result, nil
	}

	changed, err := fsutil.Modified(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if changed {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if current != nil {
		result.BackupCreated, err = fsutil.CreateBackup(ctx, result.OutputPath, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
		}
	}

	if err := fsutil.WriteAtomic(ctx, result.OutputPath, result.Output, mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	return result, nil
}

// ProcessContent sanitizes in-memory content. The format is chosen from
// name and content; nothing is written.
func (p *Pipeline) ProcessContent(ctx context.Context, name string, content []byte) (*FileResult, error) {
	format := DetectFormat(name, content)
	result := &FileResult{
		Path:       name,
		OutputPath: OutputPath(name, format),
		Format:     format,
	}

	var (
		serialized *document.Result
		err        error
	)
	if format == FormatMarkdown {
		serialized, err = p.Serializer.SerializeMarkdown(ctx, content, p.Flavor)
	} else {
		serialized, err = p.Serializer.Serialize(ctx, string(content))
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("processing cancelled: %w", ctxErr)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrTokenize, name, err)
	}

	result.Blocks = len(serialized.Blocks)
	result.Changes = serialized.Changes
	result.Output = []byte(serialized.HTML)
	if len(result.Output) > 0 {
		result.Output = append(result.Output, '\n')
	}
	return result, nil
}

// readExisting returns the content and mode of an output file, or nil
// content when it does not exist yet.
func readExisting(path string) ([]byte, os.FileMode, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fsutil.DefaultFileMode, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return content, stat.Mode(), nil
}

func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError reports whether err belongs to a pipeline category.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrTokenize) ||
		errors.Is(err, ErrWriteFailure)
}
