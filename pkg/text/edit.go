package text

import "sort"

// EditOp is a single logical-text edit at a byte offset: DeleteLen bytes
// are removed there and then Insert is inserted in their place (either may
// be empty).
type EditOp struct {
	ByteOffset int
	DeleteLen  int
	Insert     string
}

// ApplyEdits applies ops to logical text, left-to-right, re-basing each
// subsequent op's offset by the net length delta of the edits applied
// before it — spec.md's rule for multi-cursor edits: "applied left-to-right
// with offsets re-based after each edit."
func ApplyEdits(src string, ops []EditOp) string {
	sorted := make([]EditOp, len(ops))
	copy(sorted, ops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ByteOffset < sorted[j].ByteOffset })

	delta := 0
	out := []byte(src)
	for _, op := range sorted {
		pos := op.ByteOffset + delta
		if pos < 0 {
			pos = 0
		}
		if pos > len(out) {
			pos = len(out)
		}
		end := pos + op.DeleteLen
		if end > len(out) {
			end = len(out)
		}
		var next []byte
		next = append(next, out[:pos]...)
		next = append(next, []byte(op.Insert)...)
		next = append(next, out[end:]...)
		delta += len(op.Insert) - (end - pos)
		out = next
	}
	return string(out)
}

// InsertAt returns the edit for typing s at byte offset at.
func InsertAt(at int, s string) EditOp { return EditOp{ByteOffset: at, Insert: s} }

// DeleteBackward returns the edit for backspace: deletes the grapheme
// cluster ending at byte offset at.
func DeleteBackward(text string, at int) EditOp {
	if at > len(text) {
		at = len(text)
	}
	clusters := SegmentClusters(text[:at])
	if len(clusters) == 0 {
		return EditOp{ByteOffset: 0, DeleteLen: 0}
	}
	last := clusters[len(clusters)-1]
	return EditOp{ByteOffset: last.ByteOffset, DeleteLen: len(last.Text)}
}

// DeleteForward returns the edit for the delete key: deletes the grapheme
// cluster starting at byte offset at.
func DeleteForward(text string, at int) EditOp {
	if at >= len(text) {
		return EditOp{ByteOffset: at, DeleteLen: 0}
	}
	clusters := SegmentClusters(text[at:])
	if len(clusters) == 0 {
		return EditOp{ByteOffset: at, DeleteLen: 0}
	}
	return EditOp{ByteOffset: at, DeleteLen: len(clusters[0].Text)}
}

// DeleteRange returns the edit removing [start,end) of the logical text.
// Per spec.md, a cross-run range deletion is expected to merge adjacent
// runs of equivalent style; that merge happens at the Run level by the
// caller re-segmenting bidi/style runs over the edited text, not here —
// this function only performs the byte-level splice.
func DeleteRange(start, end int) EditOp {
	if end < start {
		start, end = end, start
	}
	return EditOp{ByteOffset: start, DeleteLen: end - start}
}
