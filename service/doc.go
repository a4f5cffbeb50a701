// Package service provides reusable operations for partitioning documents
// into elements, staging them and loading them into relational, search and
// vector backends.
//
// This package is intended for embedding the pipeline into other programs
// without shelling out to the CLI.
package service
