// Package hcl loads workflow definitions written in HCL and translates
// them into the format-agnostic config model.
//
// A definition consists of exactly one workflow block, any number of job
// blocks, and an optional top-level defaults object holding submit
// attributes shared by all jobs. Expressions are evaluated with a small
// function table (format, join, range, chunks, ...), so vars lists can be
// generated rather than enumerated by hand.
package hcl
