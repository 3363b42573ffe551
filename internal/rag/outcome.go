package rag

import "github.com/vokinneberg/rag-chat-assistant/internal/types"

// retrieval is the outcome of the search step: either the documents found,
// or an empty list standing in for a failed search.
type retrieval struct {
	results []types.SearchResult
	cause   error
}

func foundRetrieval(results []types.SearchResult) retrieval {
	if results == nil {
		results = []types.SearchResult{}
	}
	return retrieval{results: results}
}

func emptyRetrieval(cause error) retrieval {
	return retrieval{results: []types.SearchResult{}, cause: cause}
}

func (r retrieval) degraded() bool {
	return r.cause != nil
}

// generation is the outcome of the completion step: either the model's text,
// or a canned apology standing in for a missing or failed completion.
type generation struct {
	text  string
	cause error
}

func completedGeneration(text string) generation {
	return generation{text: text}
}

func apologyGeneration(apology string, cause error) generation {
	return generation{text: apology, cause: cause}
}

func (g generation) degraded() bool {
	return g.cause != nil
}
