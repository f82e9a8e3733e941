// Package reembed regenerates the stored embeddings of every candidate
// profile and job posting, for example after switching embedding models.
//
// Records are processed in batches with retry and exponential backoff, and
// vectors are normalized before they are stored.
package reembed
