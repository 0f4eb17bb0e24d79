package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/yaklabco/gorichtext/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return filepath.ToSlash(relPath)
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	tagMap   map[string]*TagAnalysis
	fileMap  map[string]*FileAnalysis
	tagFiles map[string]map[string]bool
	fileTags map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		tagMap:   make(map[string]*TagAnalysis),
		fileMap:  make(map[string]*FileAnalysis),
		tagFiles: make(map[string]map[string]bool),
		fileTags: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) fileAnalysis(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileTags[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) tagAnalysis(tagName string) *TagAnalysis {
	if _, ok := ctx.tagMap[tagName]; !ok {
		ctx.tagMap[tagName] = &TagAnalysis{TagName: tagName}
		ctx.tagFiles[tagName] = make(map[string]bool)
	}
	return ctx.tagMap[tagName]
}

func (ctx *analysisContext) buildByTag(opts Options) []TagAnalysis {
	result := make([]TagAnalysis, 0, len(ctx.tagMap))
	for tagName, ta := range ctx.tagMap {
		ta.Files = lo.Keys(ctx.tagFiles[tagName])
		slices.Sort(ta.Files)
		result = append(result, *ta)
	}
	sortAnalysis(result, opts, func(ta TagAnalysis) (string, Counts) { return ta.TagName, ta.Counts })
	return result
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Changes == 0 {
			continue
		}
		fa.Tags = lo.Keys(ctx.fileTags[path])
		slices.Sort(fa.Tags)
		result = append(result, *fa)
	}
	sortAnalysis(result, opts, func(fa FileAnalysis) (string, Counts) { return fa.Path, fa.Counts })
	return result
}

// Analyze transforms a runner.Result into a Report in a single pass over
// the changes of every file.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for _, file := range result.Files {
		report.Totals.Files++
		if file.Error != nil {
			report.Totals.FilesErrored++
			continue
		}
		if file.Result == nil {
			continue
		}
		if len(file.Result.Changes) > 0 {
			report.Totals.FilesWithChanges++
		}

		displayPath := makeRelativePath(file.Path, opts.WorkingDir)
		fa := ctx.fileAnalysis(displayPath)

		for _, change := range file.Result.Changes {
			report.Totals.add(change.Kind)
			fa.add(change.Kind)
			ctx.fileTags[displayPath][change.TagName] = true

			ta := ctx.tagAnalysis(change.TagName)
			ta.add(change.Kind)
			ctx.tagFiles[change.TagName][displayPath] = true

			if opts.IncludeChanges {
				report.Changes = append(report.Changes, ChangeEntry{
					FilePath: displayPath,
					Kind:     change.Kind,
					Context:  change.Context,
					Block:    change.Block,
					Child:    change.Child,
					TagName:  change.TagName,
					Detail:   change.Detail,
					Message:  change.String(),
				})
			}
		}
	}

	if opts.IncludeByTag {
		report.ByTag = ctx.buildByTag(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}

	return report
}

// sortAnalysis orders rows by the selected field. Ties are broken by name
// so output is deterministic.
func sortAnalysis[T any](rows []T, opts Options, key func(T) (string, Counts)) {
	slices.SortFunc(rows, func(left, right T) int {
		leftName, leftCounts := key(left)
		rightName, rightCounts := key(right)

		var result int
		switch opts.SortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(leftName, rightName)
		case SortByRemovals:
			result = cmp.Compare(rightCounts.Removals(), leftCounts.Removals())
			if result == 0 {
				result = cmp.Compare(rightCounts.Changes, leftCounts.Changes)
			}
		default: // SortByCount
			result = cmp.Compare(leftCounts.Changes, rightCounts.Changes)
			if opts.SortDesc {
				result = -result
			}
		}
		if result == 0 {
			result = cmp.Compare(leftName, rightName)
		}
		return result
	})
}
