package ips

import "sort"

// Overlaps lists every pair of records whose byte ranges intersect, ordered by
// (First, Second). Zero-length records never overlap.
func (p *Patch) Overlaps() []Overlap {
	type ref struct {
		idx int
		rec Record
	}
	refs := make([]ref, 0, len(p.records))
	for i, r := range p.records {
		if r.Len() > 0 {
			refs = append(refs, ref{i, r})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].rec.Offset < refs[j].rec.Offset
	})

	var out []Overlap
	for a := range refs {
		for b := a + 1; b < len(refs) && refs[a].rec.Overlaps(refs[b].rec); b++ {
			first, second := refs[a].idx, refs[b].idx
			if first > second {
				first, second = second, first
			}
			out = append(out, Overlap{First: first, Second: second})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].First != out[j].First {
			return out[i].First < out[j].First
		}
		return out[i].Second < out[j].Second
	})
	return out
}

// Conflicts lists every pair of records, one from a and one from b, whose
// byte ranges intersect. Applying a then b lets b win in those ranges.
func Conflicts(a, b *Patch) []Conflict {
	type ref struct {
		src int
		idx int
		rec Record
	}
	refs := make([]ref, 0, len(a.records)+len(b.records))
	for i, r := range a.records {
		if r.Len() > 0 {
			refs = append(refs, ref{0, i, r})
		}
	}
	for i, r := range b.records {
		if r.Len() > 0 {
			refs = append(refs, ref{1, i, r})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].rec.Offset < refs[j].rec.Offset
	})

	var out []Conflict
	for x := range refs {
		for y := x + 1; y < len(refs) && refs[x].rec.Overlaps(refs[y].rec); y++ {
			if refs[x].src == refs[y].src {
				continue
			}
			c := Conflict{A: refs[x].idx, B: refs[y].idx}
			if refs[x].src == 1 {
				c = Conflict{A: refs[y].idx, B: refs[x].idx}
			}
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}
