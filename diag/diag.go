// Package diag turns an AST node's byte-offset position into a
// human-readable source location, and optionally maps a generated position
// back through a source map to the file/line/column an embedder's bundler
// produced it from - useful when append_code has concatenated several
// logical scripts (§6) and a debugger wants to point at the originating
// file rather than the combined program's own offsets.
package diag

import (
	"fmt"

	sourcemap "gopkg.in/sourcemap.v1"

	"stepjs/ast"
)

// LineColumn is a 1-based line, 0-based column pair, matching
// ast.LineColumn's convention.
type LineColumn struct {
	Line   int
	Column int
}

func (lc LineColumn) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// OffsetToLineColumn walks src once, converting a byte offset into a
// LineColumn, for callers that parsed without the Locations option and only
// have a node's raw Start/End offsets to report.
func OffsetToLineColumn(src string, offset int) LineColumn {
	line, col := 1, 0
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return LineColumn{Line: line, Column: col}
}

// Location describes where a node came from, preferring the parser's own
// Loc (when the Locations option was on) over a recomputed offset.
type Location struct {
	Start, End LineColumn
}

// Describe reports n's source location, computing it from src's text if
// the node wasn't parsed with locations enabled.
func Describe(src string, n ast.Node) Location {
	pos := n.Pos()
	if pos.Loc != nil {
		return Location{
			Start: LineColumn{Line: pos.Loc.Start.Line, Column: pos.Loc.Start.Column},
			End:   LineColumn{Line: pos.Loc.End.Line, Column: pos.Loc.End.Column},
		}
	}
	return Location{
		Start: OffsetToLineColumn(src, pos.Start),
		End:   OffsetToLineColumn(src, pos.End),
	}
}

// SourceMapper resolves a generated-program position back to the original
// source it was bundled from, via a standard source map.
type SourceMapper struct {
	consumer *sourcemap.Consumer
}

// NewSourceMapper parses raw source map JSON (as produced by a bundler
// alongside the concatenated source append_code was given).
func NewSourceMapper(raw []byte) (*SourceMapper, error) {
	consumer, err := sourcemap.Parse("", raw)
	if err != nil {
		return nil, fmt.Errorf("diag: parsing source map: %w", err)
	}
	return &SourceMapper{consumer: consumer}, nil
}

// Original maps a generated LineColumn to the file/line/column of the
// original source it came from. ok is false when the map has no entry
// covering this position (e.g. it falls in synthesized/polyfill code).
func (m *SourceMapper) Original(gen LineColumn) (file string, orig LineColumn, ok bool) {
	source, _, line, col, ok := m.consumer.Source(gen.Line, gen.Column)
	if !ok {
		return "", LineColumn{}, false
	}
	return source, LineColumn{Line: line, Column: col}, true
}
