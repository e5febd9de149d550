// Package chunk extracts text from document files and splits it into
// fixed-size overlapping chunks suitable for embedding.
package chunk
