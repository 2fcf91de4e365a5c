// Package conflicts detects mods that define the same resource key.
//
// A scan enumerates the package files under the configured root, recovers
// each file's resource keys through the dbpf reader (with a persisted parse
// cache for unchanged files), and groups keys claimed by two or more files
// into classified conflict records. Records carry a severity grade and a
// priority used for ordering, and can be condensed into per-folder load
// order advice.
//
// The feature exposes the scan over HTTP (start, status, cancel, results,
// load order) and synchronously for the CLI.
package conflicts
