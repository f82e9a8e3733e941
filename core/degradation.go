package core

import "fmt"

// Stage names a retrieval stage that can fall back to neutral scoring.
type Stage string

const (
	StageLexical  Stage = "lexical"
	StageSemantic Stage = "semantic"
)

// Degradation describes a retrieval stage that lost discrimination and
// substituted a neutral score for some or all documents.
type Degradation struct {
	Stage    Stage
	Reason   string
	Affected int
	Err      error
}

func (d *Degradation) String() string {
	if d.Err != nil {
		return fmt.Sprintf("%s degraded (%s, %d documents): %v", d.Stage, d.Reason, d.Affected, d.Err)
	}
	return fmt.Sprintf("%s degraded (%s, %d documents)", d.Stage, d.Reason, d.Affected)
}
