// Package store provides the push-based observable primitives consumed by
// the binding engine.
//
// A Readable delivers its current value synchronously on subscription and
// again on every change. A Writable additionally accepts new values via Set
// and Update. NewDerived combines one or more sources through a combinator
// and is glitch-free: a mutation of a shared ancestor produces exactly one
// recomputation, no matter how many dependency edges connect them.
package store
