// Package fetch provides the download transform stage for URL
// manifests: it retrieves each work item's locator over HTTP and
// re-encodes the body as a base64 data URI payload.
package fetch
