package match

import (
	"fmt"
	"time"

	"github.com/poiesic/talentmatch/attributes"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/scoring"
	"github.com/poiesic/talentmatch/semantic"
	"github.com/poiesic/talentmatch/skills"
)

type pairInput struct {
	direction   core.Direction
	documentID  core.ID
	candidate   *core.CandidateProfile
	job         *core.JobPosting
	lexical     float64
	semantic    float64
	hasSemantic bool
	computedAt  time.Time
}

// scorePair runs the skill matcher, attribute scorer and blender for one pair.
func (e *Engine) scorePair(p pairInput) (*core.MatchResult, error) {
	const op = "score pair"
	switch {
	case p.candidate == nil:
		return nil, newError(KindPairScoringFailed, op, fmt.Errorf("candidate record missing for document %d", p.documentID))
	case p.job == nil:
		return nil, newError(KindPairScoringFailed, op, fmt.Errorf("job record missing for document %d", p.documentID))
	case !p.job.IsActive():
		return nil, newError(KindPairScoringFailed, op, fmt.Errorf("job %d is not active", p.job.Id))
	}

	sem := p.semantic
	if !p.hasSemantic {
		sem = semantic.NeutralScore
	}

	skillResult := skills.Match(p.candidate.Skills, p.job.RequiredSkills, p.job.PreferredSkills)
	attrs := attributes.Score(p.candidate, p.job)
	blend := e.blender.Blend(scoring.Inputs{
		Lexical:    p.lexical,
		Semantic:   sem,
		Skills:     skillResult,
		Attributes: attrs,
	})

	return &core.MatchResult{
		CandidateId:        p.candidate.Id,
		JobId:              p.job.Id,
		Direction:          p.direction,
		Lexical:            p.lexical,
		Semantic:           sem,
		SkillOverlap:       skillResult.Overlap,
		Hybrid:             blend.Hybrid,
		Traditional:        blend.Traditional,
		Final:              blend.Final,
		Quality:            blend.Quality,
		MatchedSkills:      skillResult.Matched,
		MissingSkills:      skillResult.Missing,
		MustHaveCompliance: skillResult.MustHaveCompliance,
		Experience:         attrs.Experience,
		Education:          attrs.Education,
		Location:           attrs.Location,
		Salary:             attrs.Salary,
		Certification:      attrs.Certification,
		ExperienceGap:      attrs.ExperienceGap,
		SalaryGap:          attrs.SalaryGap,
		ComputedAt:         p.computedAt,
	}, nil
}
