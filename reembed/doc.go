// Package reembed regenerates the embeddings of stored artifacts with a
// new or updated embedding model.
//
// This package supports batch processing of artifacts, progress
// tracking, retry logic with exponential backoff, and vector
// normalization to keep vectors compatible with cosine similarity
// search.
package reembed
