// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package attributes scores the structured fit of a candidate for a job.
// Every scorer returns a value in [0,100].
package attributes

import (
	"math"
	"strings"

	"github.com/poiesic/talentmatch/core"
)

// Scores holds the attribute sub-scores of one candidate/job pair.
type Scores struct {
	Experience    float64
	Education     float64
	Location      float64
	Salary        float64
	Certification float64

	// ExperienceGap is candidate years minus required years.
	ExperienceGap int

	// SalaryGap is the signed distance outside the acceptable band:
	// negative below the minimum, positive above the maximum.
	SalaryGap float64
}

// Score runs every attribute scorer for the pair.
func Score(candidate *core.CandidateProfile, job *core.JobPosting) Scores {
	experience, gap := Experience(candidate.EffectiveExperienceYears(), job.RequiredExperienceYears)
	salary, salaryGap := Salary(candidate.SalaryExpectation, job.Salary)

	return Scores{
		Experience:    experience,
		Education:     Education(candidate.Education, job.RequiredEducation),
		Location:      Location(candidate.Location, candidate.RemotePreference, job.Location, job.Remote),
		Salary:        salary,
		Certification: Certifications(candidate.Certifications, job.RequiredCertifications),
		ExperienceGap: -gap,
		SalaryGap:     salaryGap,
	}
}

// Experience scores years of experience against the requirement and
// returns the gap as required minus candidate years.
//
// Meeting the requirement scores 100. Beyond a two year grace band every
// full three excess years cost 10 points, down to 80. Falling short scores
// 70 within one year, 50 within three years and 30 otherwise.
func Experience(candidateYears, requiredYears int) (float64, int) {
	gap := requiredYears - candidateYears
	if gap <= 0 {
		excess := -gap
		score := 100.0
		if excess > 2 {
			score -= 10 * float64((excess-2)/3)
		}
		return max(score, 80), gap
	}

	switch {
	case gap <= 1:
		return 70, gap
	case gap <= 3:
		return 50, gap
	}
	return 30, gap
}

// Education scores the ordinal level against the requirement. Each level
// short of the requirement costs 20 points. An unspecified requirement is
// always met.
func Education(candidate, required core.EducationLevel) float64 {
	if required == core.EducationUnspecified || candidate >= required {
		return 100
	}
	return max(100-20*float64(required-candidate), 0)
}

// Location scores remote and on-site compatibility.
func Location(candidateLocation string, remotePreference bool, jobLocation string, remoteJob bool) float64 {
	switch {
	case remoteJob && remotePreference:
		return 100
	case remoteJob:
		return 80
	case remotePreference:
		return 60
	}

	c, j := NormalizeLocation(candidateLocation), NormalizeLocation(jobLocation)
	switch {
	case c == "" || j == "":
		return 50
	case c == j:
		return 100
	case strings.Contains(c, j) || strings.Contains(j, c):
		return 90
	}
	return 50
}

// NormalizeLocation lower-cases a location, collapses whitespace and drops
// repeated comma-separated parts.
func NormalizeLocation(loc string) string {
	loc = strings.ToLower(core.CleanText(loc))
	loc = strings.TrimSpace(strings.TrimPrefix(loc, "location:"))
	if loc == "" {
		return ""
	}

	seen := make(map[string]bool)
	var parts []string
	for _, p := range strings.Split(loc, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		parts = append(parts, p)
	}
	return strings.Join(parts, ", ")
}

// Salary scores an expectation against a salary range and returns the
// signed gap outside the acceptable band.
//
// A missing expectation or minimum is neutral (70), and so is any
// amount that is not a finite number. The band runs from the
// minimum to the maximum, or to 1.5 times the minimum when no maximum is
// given. Below the band the shortfall relative to the minimum scores 80, 60
// or 40 at 10%, 25% or more. Above it the excess relative to the expectation
// scores 80, 60 or 40 at 20%, 40% or more.
func Salary(expectation *float64, band core.SalaryRange) (float64, float64) {
	if expectation == nil || band.Min == nil || *band.Min <= 0 {
		return 70, 0
	}
	if !finite(*expectation) || !finite(*band.Min) || (band.Max != nil && !finite(*band.Max)) {
		return 70, 0
	}
	e, lo := *expectation, *band.Min
	hi := lo * 1.5
	if band.Max != nil {
		hi = *band.Max
	}

	switch {
	case e < lo:
		pct := (lo - e) / lo
		return tiered(pct, 0.10, 0.25), e - lo
	case e > hi:
		pct := (e - hi) / e
		return tiered(pct, 0.20, 0.40), e - hi
	}
	return 100, 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func tiered(pct, first, second float64) float64 {
	switch {
	case pct <= first:
		return 80
	case pct <= second:
		return 60
	}
	return 40
}

// Certifications scores the share of required certifications the candidate
// holds. A held certification covers a required one when either name
// contains the other, ignoring case. No requirement scores 100.
func Certifications(held, required []string) float64 {
	var wanted []string
	for _, r := range required {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			wanted = append(wanted, r)
		}
	}
	if len(wanted) == 0 {
		return 100
	}

	var have []string
	for _, h := range held {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			have = append(have, h)
		}
	}

	met := 0
	for _, w := range wanted {
		for _, h := range have {
			if strings.Contains(h, w) || strings.Contains(w, h) {
				met++
				break
			}
		}
	}
	return 100 * float64(met) / float64(len(wanted))
}
