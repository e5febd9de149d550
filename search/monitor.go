package search

import "github.com/poiesic/vecpipe/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	AfterVectorSearch(ids []uint64)
	AfterRerank(scores []float32)
	VerbatimHit(artifact *core.Artifact)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)    {}
func (n *noopMonitor) AfterVectorSearch(_ []uint64)       {}
func (n *noopMonitor) AfterRerank(_ []float32)            {}
func (n *noopMonitor) VerbatimHit(_ *core.Artifact)       {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)      {}
