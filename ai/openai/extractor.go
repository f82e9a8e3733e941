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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// parseAttempts bounds how often a malformed model answer is re-requested.
const parseAttempts = 3

// ProfileExtractor implements ai.ProfileExtractor with a chat model in JSON mode.
type ProfileExtractor struct {
	client   llms.Model
	maxChars int
	logger   *slog.Logger
}

func newProfileExtractor(config *ai.Config) (*ProfileExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken(token(config)),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &ProfileExtractor{
		client:   client,
		maxChars: config.MaxResumeChars,
		logger:   slog.Default().With("component", "openai-extractor", "model", config.ExtractorModel),
	}, nil
}

// NewProfileExtractor creates an OpenAI-compatible resume extractor.
func NewProfileExtractor(config *ai.Config) (ai.ProfileExtractor, error) {
	return newProfileExtractor(config)
}

// ExtractProfile asks the model for a structured profile of text.
func (e *ProfileExtractor) ExtractProfile(ctx context.Context, text string) (*core.CandidateProfile, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty resume text", ai.ErrExtraction)
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildSystemPrompt()),
		llms.TextParts(llms.ChatMessageTypeHuman, truncateRunes(text, e.maxChars)),
	}

	var extracted ai.ExtractedProfile
	var lastErr error
	for attempt := 1; attempt <= parseAttempts; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt, "err", err)
			return nil, fmt.Errorf("%w: %w", ai.ErrExtraction, err)
		}
		if len(response.Choices) < 1 {
			return nil, fmt.Errorf("%w: model returned no choices", ai.ErrExtraction)
		}

		responseText := cleanModelJSON(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &extracted); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt,
				"response", responseText,
				"err", err)
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return nil, fmt.Errorf("%w: %w", ai.ErrExtraction, lastErr)
	}

	profile := extracted.ToCandidate(text)
	e.logger.Debug("extracted profile",
		"skills", len(profile.Skills),
		"experience_years", profile.ExperienceYears,
		"education", profile.Education)
	return profile, nil
}
