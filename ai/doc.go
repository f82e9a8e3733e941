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

// Package ai provides abstractions for the AI services talentmatch consumes.
//
// The engine depends only on the interfaces defined here:
//
//   - Embedder: turns free text into a fixed-length vector
//   - ProfileExtractor: turns resume text into a structured candidate profile
//   - AIProvider: aggregates both for initialization and lifecycle management
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible embeddings and extraction via langchaingo
//   - ai/gemini: Gemini embeddings via the genai SDK
//   - ai/cache: content-addressed embedding cache (memory or Redis)
//   - ai/mock: deterministic test doubles
//
// Production constructors return interface types. Mock constructors return
// concrete types so tests can inject behavior and inspect call counts.
//
//	provider, err := openai.NewProvider(ai.NewConfig(ai.WithHost("http://localhost:11434")))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Senior Go engineer, Kafka, Postgres")
//	profile, err := provider.ProfileExtractor().ExtractProfile(ctx, resumeText)
package ai
