// Package docindex turns multi-file AsciiDoc/Markdown documentation into a
// hierarchical, addressable section index.
//
// Parsing happens in two passes over a project's root file:
//
//  1. Include resolution expands include::path[] directives recursively into a
//     single flattened line stream. Every output line is tagged with the file
//     that physically contributed it. Recursion is bounded by a depth limit and
//     a visited-file set, so any include graph terminates.
//  2. Section building scans the flattened stream once, skipping header
//     detection inside delimited blocks (----, ...., ****, ====), and assigns
//     dotted hierarchical ids from an explicit stack of open sections.
//
// A parse pass is a pure function of the files on disk. Project wraps the
// parser for a whole directory and publishes each completed pass as an
// immutable Snapshot through a single atomic swap.
package docindex
