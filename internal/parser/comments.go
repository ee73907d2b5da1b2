package parser

import "sort"

// Range is a half-open byte range [Start, End) of the source.
type Range struct {
	Start int
	End   int
}

// CommentRanges indexes the comments of a token stream by position.
type CommentRanges []Range

// CommentRangesFrom builds the comment index from a token stream.
func CommentRangesFrom(tokens []Token) CommentRanges {
	var ranges CommentRanges
	for _, t := range tokens {
		if t.Kind == TokenComment {
			ranges = append(ranges, Range{Start: t.Start, End: t.End})
		}
	}
	return ranges
}

// Intersects reports whether any comment lies within [start, end).
func (c CommentRanges) Intersects(start, end int) bool {
	i := sort.Search(len(c), func(i int) bool { return c[i].End > start })
	return i < len(c) && c[i].Start < end
}

// Len returns the number of comments.
func (c CommentRanges) Len() int {
	return len(c)
}
