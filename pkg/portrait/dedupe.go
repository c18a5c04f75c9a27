package portrait

type dedupeState int

const (
	undecided dedupeState = iota
	kept
	removed
)

// dedupe removes every portrait whose id is a colabel of a portrait that
// is kept. A portrait folded only into removed portraits is kept. When
// portraits fold into each other in a cycle the earliest one is kept.
func dedupe(portraits []*Microportrait) []*Microportrait {
	index := make(map[string]int, len(portraits))
	for i, p := range portraits {
		index[p.ID] = i
	}

	absorbers := make([][]int, len(portraits))
	for i, p := range portraits {
		for _, c := range p.Colabels {
			if j, ok := index[c]; ok && j != i {
				absorbers[j] = append(absorbers[j], i)
			}
		}
	}

	state := make([]dedupeState, len(portraits))
	for {
		changed := true
		for changed {
			changed = false
			for i := range portraits {
				if state[i] != undecided {
					continue
				}
				allRemoved := true
				for _, a := range absorbers[i] {
					if state[a] == kept {
						state[i] = removed
						changed = true
						break
					}
					if state[a] != removed {
						allRemoved = false
					}
				}
				if state[i] == undecided && allRemoved {
					state[i] = kept
					changed = true
				}
			}
		}

		next := -1
		for i, s := range state {
			if s == undecided {
				next = i
				break
			}
		}
		if next < 0 {
			break
		}
		state[next] = kept
	}

	out := make([]*Microportrait, 0, len(portraits))
	for i, p := range portraits {
		if state[i] == kept {
			out = append(out, p)
		}
	}
	return out
}
