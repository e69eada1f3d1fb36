package bates

// Range describes a contiguous block of Bates numbers stamped onto one
// document: the first and last formatted identifiers, the page count, and
// the numbering space (prefix/suffix) they belong to. FirstNumber and
// LastNumber are derived from the identifiers on construction and never
// mutated afterward.
type Range struct {
	First       string `json:"first"`
	Last        string `json:"last"`
	PageCount   int    `json:"page_count"`
	Prefix      string `json:"prefix"`
	Suffix      string `json:"suffix"`
	FirstNumber int64  `json:"first_number"`
	LastNumber  int64  `json:"last_number"`
}

// NewRange builds a Range from formatted identifiers, extracting the
// numeric bounds from the first digit run of each.
func NewRange(first, last string, pageCount int, prefix, suffix string) Range {
	return Range{
		First:       first,
		Last:        last,
		PageCount:   pageCount,
		Prefix:      prefix,
		Suffix:      suffix,
		FirstNumber: ExtractNumber(first),
		LastNumber:  ExtractNumber(last),
	}
}

// SameSpace reports whether two ranges share a numbering space.
// Ranges with different prefixes or suffixes can never collide.
func (r Range) SameSpace(other Range) bool {
	return r.Prefix == other.Prefix && r.Suffix == other.Suffix
}

// Overlaps reports whether the numeric intervals of two ranges in the
// same numbering space intersect.
func (r Range) Overlaps(other Range) bool {
	if !r.SameSpace(other) {
		return false
	}
	return !(r.LastNumber < other.FirstNumber || other.LastNumber < r.FirstNumber)
}

// Contains reports whether the numeric component of id falls within the
// range's bounds.
func (r Range) Contains(id string) bool {
	n := ExtractNumber(id)
	return r.FirstNumber <= n && n <= r.LastNumber
}

// Sequential reports whether the range is internally consistent: a
// contiguous block of LastNumber - FirstNumber + 1 numbers covering
// exactly PageCount pages.
func (r Range) Sequential() bool {
	return r.LastNumber-r.FirstNumber+1 == int64(r.PageCount)
}

// PaddingWidth returns the digit width observed on the range's last
// identifier, used when suggesting follow-on ranges.
func (r Range) PaddingWidth() int {
	return PaddingOf(r.Last)
}
