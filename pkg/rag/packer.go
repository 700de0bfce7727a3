package rag

// Candidate is one token-counted entry competing for prompt space.
type Candidate struct {
	Text   string
	Tokens int
}

// Pack selects context and history candidates under a total token budget.
//
// The budget is split in half. The context half is filled greedily from
// the front of contextItems; the history half is filled from the most
// recent end of historyItems (which is given in chronological order). A
// candidate that would push its half-budget negative is pushed back and
// that phase stops. Whatever budget is left after both phases is drained
// back into context, continuing from where the first phase stopped —
// unused history capacity benefits retrieval context, never the other way
// around. The selected history is returned in chronological order.
//
// With no historyItems the whole budget ends up in context, which is the
// single-shot answer mode.
func Pack(budget int, contextItems, historyItems []Candidate) (packedContext, packedHistory []Candidate) {
	contextBudget := budget / 2
	historyBudget := budget - contextBudget

	packedContext = make([]Candidate, 0)
	next := 0
	for next < len(contextItems) {
		candidate := contextItems[next]
		if contextBudget-candidate.Tokens < 0 {
			break
		}
		contextBudget -= candidate.Tokens
		packedContext = append(packedContext, candidate)
		next++
	}

	newestFirst := make([]Candidate, 0)
	for i := len(historyItems) - 1; i >= 0; i-- {
		candidate := historyItems[i]
		if historyBudget-candidate.Tokens < 0 {
			break
		}
		historyBudget -= candidate.Tokens
		newestFirst = append(newestFirst, candidate)
	}
	packedHistory = make([]Candidate, len(newestFirst))
	for i, candidate := range newestFirst {
		packedHistory[len(newestFirst)-1-i] = candidate
	}

	leftover := contextBudget + historyBudget
	for next < len(contextItems) {
		candidate := contextItems[next]
		if leftover-candidate.Tokens < 0 {
			break
		}
		leftover -= candidate.Tokens
		packedContext = append(packedContext, candidate)
		next++
	}

	return packedContext, packedHistory
}
