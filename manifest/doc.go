// Package manifest reads ordered work item lists from CSV manifests
// and supports offset/cap slicing and checkpoint-based resume
// filtering. Items always keep their original manifest index.
package manifest
