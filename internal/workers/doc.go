// Package workers computes worker pool sizes scaled to available CPUs,
// with an environment variable override for operators.
package workers
