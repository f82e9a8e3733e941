package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/talentmatch/core"
)

const profileResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "headline": {"type": "string"},
    "summary": {"type": "string"},
    "skills": {"type": "array", "items": {"type": "string"}},
    "experience_years": {"type": "integer", "minimum": 0},
    "experience_entries": {"type": "integer", "minimum": 0},
    "education": {"type": "string"},
    "certifications": {"type": "array", "items": {"type": "string"}},
    "location": {"type": "string"},
    "remote_preference": {"type": "boolean"},
    "salary_expectation": {"type": ["number", "null"]}
  },
  "required": ["headline", "skills", "experience_years", "education", "location", "remote_preference"],
  "additionalProperties": false
}`

const profilePromptTemplate = `Extract a structured candidate profile from the resume text and return it as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
or markdown. Start your response directly with the opening brace { and end with the closing brace }.

%s

Rules:
- headline is the candidate's current or target role in a few words.
- summary is at most two sentences in the third person.
- skills lists concrete technologies, languages, tools and methods. One skill per entry, no duplicates.
- experience_years is the total years of professional experience. Use 0 when it cannot be determined.
- experience_entries is the number of distinct positions listed.
- education is the highest level reached, one of: %s. Use "" when unknown.
- certifications lists certificate names exactly as written.
- location is the city and country as written, or "" when absent.
- remote_preference is true only when the resume states a preference for remote work.
- salary_expectation is an annual figure in the resume's currency, or null when not stated.
- Do not invent facts that are not in the text.

Example:
Input: "Jane Doe - Senior Backend Engineer, Berlin. 8 years building Go and Kafka services at two companies. MSc Computer Science. AWS Solutions Architect. Open to remote."
Output:
{
  "headline": "Senior Backend Engineer",
  "summary": "Backend engineer with 8 years of Go and Kafka services experience.",
  "skills": ["Go", "Kafka"],
  "experience_years": 8,
  "experience_entries": 2,
  "education": "master",
  "certifications": ["AWS Solutions Architect"],
  "location": "Berlin",
  "remote_preference": true,
  "salary_expectation": null
}`

func buildSystemPrompt() string {
	levels := []string{
		core.EducationHighSchool.String(),
		core.EducationAssociate.String(),
		core.EducationBachelor.String(),
		core.EducationMaster.String(),
		core.EducationDoctorate.String(),
	}
	return fmt.Sprintf(profilePromptTemplate, profileResponseSchema, strings.Join(levels, ", "))
}
