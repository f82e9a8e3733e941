package match

import (
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/lexical"
)

// Monitor provides hooks to observe an invocation stage by stage.
// Hooks are called from the invoking goroutine in pipeline order.
type Monitor interface {
	Start(req Request)
	AfterLexicalRetrieval(hits []lexical.Hit)
	AfterRecordRetrieval(found, requested int)
	AfterSemanticScoring(scores map[core.ID]float64)
	Degraded(d *core.Degradation)
	PairScored(result *core.MatchResult)
	PairSkipped(documentID core.ID, err error)
	AfterFiltering(kept, scored int)
	Finish(results []*core.MatchResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Request)                            {}
func (n *noopMonitor) AfterLexicalRetrieval(_ []lexical.Hit)      {}
func (n *noopMonitor) AfterRecordRetrieval(_, _ int)              {}
func (n *noopMonitor) AfterSemanticScoring(_ map[core.ID]float64) {}
func (n *noopMonitor) Degraded(_ *core.Degradation)               {}
func (n *noopMonitor) PairScored(_ *core.MatchResult)             {}
func (n *noopMonitor) PairSkipped(_ core.ID, _ error)             {}
func (n *noopMonitor) AfterFiltering(_, _ int)                    {}
func (n *noopMonitor) Finish(_ []*core.MatchResult)               {}
