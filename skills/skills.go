// Package skills compares a candidate's skills with a job's required and
// preferred skill sets.
package skills

import "strings"

// Result is the outcome of comparing one candidate with one job.
type Result struct {
	// Overlap is |Matched| / |required ∪ preferred|, or 1 when the job lists no skills.
	Overlap float64

	// Matched holds the lower-cased job skills covered by the candidate,
	// required skills first.
	Matched []string

	// Missing holds the lower-cased required skills the candidate lacks.
	// Preferred skills are never missing.
	Missing []string

	// MustHaveCompliance is true when no required skill is missing.
	MustHaveCompliance bool
}

// Match compares skills case-insensitively. A candidate skill covers a job
// skill when either contains the other, so "js" covers "javascript" and
// "postgresql" covers "postgres".
func Match(candidate, required, preferred []string) Result {
	have := lowered(candidate, nil)

	seen := make(map[string]bool)
	req := lowered(required, seen)
	pref := lowered(preferred, seen)

	total := len(req) + len(pref)
	if total == 0 {
		return Result{Overlap: 1.0, Matched: []string{}, Missing: []string{}, MustHaveCompliance: true}
	}

	matched := make([]string, 0, total)
	missing := make([]string, 0, len(req))
	for _, skill := range req {
		if covered(have, skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	for _, skill := range pref {
		if covered(have, skill) {
			matched = append(matched, skill)
		}
	}

	return Result{
		Overlap:            float64(len(matched)) / float64(total),
		Matched:            matched,
		Missing:            missing,
		MustHaveCompliance: len(missing) == 0,
	}
}

// lowered trims and lower-cases skills, dropping blanks and entries already in seen.
func lowered(skills []string, seen map[string]bool) []string {
	if seen == nil {
		seen = make(map[string]bool, len(skills))
	}
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func covered(have []string, skill string) bool {
	for _, h := range have {
		if strings.Contains(h, skill) || strings.Contains(skill, h) {
			return true
		}
	}
	return false
}
