package text

import "github.com/rivo/uniseg"

// Cluster is one extended grapheme cluster within a run: the atomic unit
// that shaping groups into glyphs and that cursor navigation steps over.
type Cluster struct {
	Text       string
	ByteOffset int // offset within the owning run's text
	RuneCount  int
}

// SegmentClusters walks s grapheme-cluster by grapheme-cluster (UAX #29 via
// rivo/uniseg) and returns them in logical (source byte) order.
func SegmentClusters(s string) []Cluster {
	if s == "" {
		return nil
	}
	var clusters []Cluster
	offset := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		c := g.Str()
		clusters = append(clusters, Cluster{
			Text:       c,
			ByteOffset: offset,
			RuneCount:  len(g.Runes()),
		})
		offset += len(c)
	}
	return clusters
}

// IsWhitespaceCluster reports whether a cluster is a single whitespace rune,
// a soft-break candidate for Stage 3 line breaking.
func IsWhitespaceCluster(c Cluster) bool {
	if c.Text == "" {
		return false
	}
	r := []rune(c.Text)
	if len(r) != 1 {
		return false
	}
	switch r[0] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// IsSoftHyphen reports whether a cluster is the soft-hyphen break
// opportunity (U+00AD).
func IsSoftHyphen(c Cluster) bool {
	r := []rune(c.Text)
	return len(r) == 1 && r[0] == '­'
}
