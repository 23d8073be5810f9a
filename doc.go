// Package taskweave defines a typed dataflow task graph: nodes are
// callables of a statically declared input/output signature; edges
// are one-shot typed value slots handed from exactly one producer to
// zero or more consumers.
//
// # Reachability
//
// Every node caches a reachability value — the longest path from the
// node to any source in the graph, via ComputeReachability. The
// graph package uses it as a dispatch priority: within one Run call,
// nodes are submitted to the worker pool in ascending order of
// reachability.
//
// # Execute protocol
//
// A node's Execute method awaits every attached inward edge, marks
// itself Running, invokes the stored callable, produces the result on
// its outward edge, then marks itself Complete. Producing the outward
// edge always happens before the Complete transition; a consumer that
// observes Complete is guaranteed to also observe the latched edge.
//
// # Unattached inputs
//
// A node of positive declared arity (Node1, Node2, Node3, or a NodeN
// with width > 0) always reports a reachability of at least 1, even
// if none of its input slots are attached — an unattached slot
// contributes zero, the same as a hypothetical depth-zero producer.
// Only a node with zero declared inputs (Node0, or a NodeN
// constructed with width zero) is hardcoded to reachability zero.
//
// # Concurrency
//
// Edges use a mutex-guarded condition variable plus an atomic fast
// path for the latch. Per-node state transitions are written only by
// the worker executing that node. See the pool and graph packages for
// the worker pool and the executor built on top of this package.
package taskweave
