// Package ingestion stores candidate profiles and job postings and keeps
// their derived data current.
//
// The Pipeline type manages the ingestion workflow, including:
//   - Validating and saving records
//   - Keeping the lexical index in sync with stored text and job status
//   - Regenerating embeddings asynchronously when searchable text changes
//   - Extracting candidate profiles from raw resume text
//
// Embedding runs on a worker pool. Its errors are logged and never fail the
// ingestion; a record without a vector scores neutrally until it is embedded.
package ingestion
