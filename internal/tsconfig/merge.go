package tsconfig

// Merge returns a new tree holding override folded onto base. Neither input
// is modified and the result shares no mutable values with them.
func Merge(base, override Tree) Tree {
	out := Clone(base)
	for k, ov := range override {
		if bv, ok := out[k]; ok {
			bt, baseIsTree := AsTree(bv)
			ot, overrideIsTree := AsTree(ov)
			if baseIsTree && overrideIsTree {
				out[k] = Merge(bt, ot)
				continue
			}
		}
		out[k] = Normalize(ov)
	}
	return out
}
