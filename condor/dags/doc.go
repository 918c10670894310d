// Package dags models HTCondor DAGMan workflows and renders them to disk.
//
// A DAG is an ordered collection of node layers. Each layer pairs one submit
// descriptor with a list of per-node variable maps: a layer with N variable
// maps expands to N DAGMan nodes that share the submit file and differ only
// in their VARS lines. Parent/child relationships are declared between
// layers and expanded to node granularity when the DAG file is written.
//
// WriteDAG produces the artifacts HTCondor consumes directly: one submit
// file per layer, the .dag file itself, and an optional DAGMan configuration
// file. Output is deterministic so that regenerating an unchanged workflow
// yields byte-identical files.
package dags
