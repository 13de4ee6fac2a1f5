package services

// packContext selects hits under a character budget, breadth before
// depth. Hits must already be sorted ascending by score. Round one
// takes the best chunk from each distinct document; each further round
// takes the next-best remaining chunk from every document whose
// addition still fits, until no document can contribute further.
func packContext(hits []hit, budget int) []hit {
	if len(hits) == 0 {
		return hits
	}

	// Group by document, preserving score order within each group and
	// ordering documents by their best chunk.
	queues := make(map[string][]hit)
	var docOrder []string
	for _, h := range hits {
		if _, seen := queues[h.DocumentID]; !seen {
			docOrder = append(docOrder, h.DocumentID)
		}
		queues[h.DocumentID] = append(queues[h.DocumentID], h)
	}

	var packed []hit
	used := 0
	for {
		took := false
		for _, docID := range docOrder {
			queue := queues[docID]
			if len(queue) == 0 {
				continue
			}
			next := queue[0]
			if used+len(next.Text) > budget {
				continue
			}
			packed = append(packed, next)
			queues[docID] = queue[1:]
			used += len(next.Text)
			took = true
		}
		if !took {
			return packed
		}
	}
}
