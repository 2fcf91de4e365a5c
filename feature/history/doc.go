// Package history persists one summary row per completed conflict scan and
// serves them back over HTTP. It is optional: without a connected database
// the feature stays disabled and recording is a no-op.
package history
