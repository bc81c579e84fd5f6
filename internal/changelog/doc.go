// Package changelog implements the core changelog generation pipeline.
//
// This package implements:
//   - Commit message classification into Keep a Changelog categories
//     (conventional commit grammar first, keyword scan as fallback)
//   - Version grouping of commit history using tag boundaries
//   - Rendering to markdown, plain text, and a round-trippable YAML tree
//   - Conventional commit compliance reporting
//
// The pipeline is a pure in-memory transformation: raw commits and tags go
// in, a formatted document string comes out. Reading the repository and
// writing files are handled by the gitlog and writer packages.
package changelog
