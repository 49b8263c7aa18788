// Package io reads and writes MEWC instances and solutions.
//
// # Instance Format (.in)
//
// The plain-text instance format has a header line with the vertex and edge
// counts, followed by one line per edge with its endpoints and weight:
//
//	4 4
//	1 2 6
//	1 3 3
//	1 4 4
//	2 4 5
//
// Vertices are numbered 1..n. Lines may only contain digits and spaces;
// blank lines are ignored. The number of edge lines must match the header.
// Use [ImportInstance] or [ReadInstance] to load one and [ExportInstance] or
// [WriteInstance] to write one.
//
// # JSON Format
//
// Graphs can also be exchanged as JSON, which allows sparse vertex ids:
//
//	{
//	  "vertices": [1, 2, 3, 4],
//	  "edges": [
//	    {"u": 1, "v": 2, "weight": 6},
//	    {"u": 2, "v": 4, "weight": 5}
//	  ]
//	}
//
// [Import] picks the format from the file extension.
//
// # Solution Format (.out)
//
// A solution is the clique size and weight on the first line and the member
// ids on the second:
//
//	3 15
//	1 2 4
//
// [OutputFilename] derives the solution file name from the instance path and
// the strategy, e.g. "10_50.in" solved with local-search becomes
// "10_50_local_search.out".
//
// All parse errors carry the INVALID_INSTANCE or INVALID_FORMAT code from
// package errors and name the offending line.
package io
