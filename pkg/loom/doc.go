// Package loom renders tagged-template descriptions into live DOM subtrees
// and keeps them synchronized with observable stores, without a virtual-DOM
// diff pass.
//
// A Template pairs literal markup fragments with interpolated values. Compile
// turns it into placeholder markup plus a store table; Render parses the
// markup and binds every placeholder to its backing store with a surgical
// subscription that rewrites exactly the affected attribute, text run or
// node slot. Updates batch on a debouncer by default; Watch re-evaluates a
// render function when its declared dependencies change and rebinding only
// touches the links whose backing store identity changed.
package loom
