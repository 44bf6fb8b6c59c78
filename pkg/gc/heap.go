// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package gc implements the Slake value lifetime manager (spec §4.6):
// refcounted-with-cascade release on top of value.Value's own counters,
// plus a periodic tracing sweep that frees the reference cycles
// refcounting alone cannot (a class referring to its methods which refer
// back to the class; an object referring to its class).
//
// Grounded on the teacher's own allocation/statistics idiom
// (pkg/util/perfstats.go's before/after runtime.MemStats snapshot, logged
// through logrus) rather than go-corset's trace/column-allocation code,
// which has no lifetime-management analogue at all — go-corset's
// constraint traces are write-once and never freed mid-run.
package gc

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/emirpasic/gods/stacks/linkedliststack"
	log "github.com/sirupsen/logrus"

	"github.com/slake-lang/slake/pkg/value"
)

// DefaultSweepThreshold is the default bytes-allocated-since-last-sweep
// trigger (spec §4.6, "Trigger ... bytes-allocated-since-last-sweep
// exceeds a threshold"). Sized arbitrarily at 4 MiB of estimated payload
// weight; callers needing a different cadence pass their own via
// NewHeap's threshold argument.
const DefaultSweepThreshold = 4 << 20

// FiberRootProvider is injected by the runtime (which owns the live fiber
// set) so that Sweep can include every live fiber's stacks, locals,
// registers, `this` and result slots in its root set (spec §4.6) without
// pkg/gc importing pkg/interp.
type FiberRootProvider interface {
	LiveFiberRoots() []*value.Value
}

// DestructorInvoker runs a value's `delete` method, if it has one, before
// it is freed (spec §4.6, "Destructor dispatch"). Supplied by the runtime,
// which alone can drive the interpreter to make the call.
type DestructorInvoker interface {
	InvokeDestructor(obj *value.Value) error
}

// Heap is the allocator and lifetime manager for one runtime instance. It
// assigns identities, tracks every live value so the sweep can walk the
// full graph (Go gives no reflective access to arbitrary heap objects),
// and implements both the refcount-cascade release path and the tracing
// sweep.
type Heap struct {
	mu sync.Mutex

	nextID value.Id
	live    map[value.Id]*value.Value
	root    *value.Value

	bytesSinceSweep uint64
	threshold       uint64

	extraRoots map[value.Id]*value.Value

	fibers      FiberRootProvider
	destructors DestructorInvoker

	// inGC suppresses inline free-on-zero while a sweep is in progress (spec
	// §5, "while [in-gc] is set, release operations defer to the sweep's
	// post-pass rather than freeing inline").
	inGC bool
	// destructing suppresses reentrant sweeps while a destructor call is in
	// flight (spec §4.6, "The invoking thread is marked as 'destructing' to
	// suppress reentrant sweeps").
	destructing bool

	// freeHooks are invoked, in registration order, whenever a value is
	// actually freed — the generic instantiator uses this to evict its
	// cache entry once an instantiation becomes unreachable (spec §4.4,
	// "Record the reverse lookup ... so that when an instantiation becomes
	// unreachable the cache entry can be evicted").
	freeHooks []func(*value.Value)
}

// AddFreeHook registers fn to run whenever a value is freed.
func (h *Heap) AddFreeHook(fn func(*value.Value)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.freeHooks = append(h.freeHooks, fn)
}

// NewHeap constructs an empty heap with the given sweep threshold in
// estimated payload bytes; pass 0 to use DefaultSweepThreshold.
func NewHeap(threshold uint64) *Heap {
	if threshold == 0 {
		threshold = DefaultSweepThreshold
	}

	h := &Heap{
		live:       map[value.Id]*value.Value{},
		extraRoots: map[value.Id]*value.Value{},
		threshold:  threshold,
	}
	h.root = value.NewRoot(h.nextIdentity())
	h.live[h.root.Id()] = h.root

	return h
}

// SetFiberProvider wires in the runtime's live-fiber root source.
func (h *Heap) SetFiberProvider(p FiberRootProvider) { h.fibers = p }

// SetDestructorInvoker wires in the runtime's `delete`-method caller.
func (h *Heap) SetDestructorInvoker(inv DestructorInvoker) { h.destructors = inv }

// Root returns the single root value anchoring this heap's namespace
// (spec §3, "root: Scope of top-level modules. One per runtime instance").
func (h *Heap) Root() *value.Value { return h.root }

func (h *Heap) nextIdentity() value.Id {
	h.nextID++
	return h.nextID
}

func (h *Heap) alloc(kind value.Kind, typ *value.Type, payload any) *value.Value {
	id := h.nextIdentity()
	return value.New(id, kind, typ, payload)
}

// track registers a freshly-constructed value with the heap so the sweep
// can find it, and estimates its weight towards the next sweep trigger.
func (h *Heap) track(v *value.Value, weight uint64) *value.Value {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.live[v.Id()] = v
	h.bytesSinceSweep += weight

	return v
}

// Alloc constructs and tracks a new value of the given kind (spec §3's
// value constructors, wrapped so identity assignment and live-set
// membership stay centralised here rather than duplicated at every call
// site in pkg/loader/pkg/interp).
func (h *Heap) Alloc(kind value.Kind, typ *value.Type, payload any) *value.Value {
	v := h.alloc(kind, typ, payload)
	return h.track(v, estimateWeight(kind))
}

// NextID reserves and returns the next identity without constructing a
// value, for callers (pkg/loader) that build a *value.Value via one of
// pkg/value's own kind-specific constructors and then register it with
// Track.
func (h *Heap) NextID() value.Id {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.nextIdentity()
}

// Track registers a value constructed externally (via pkg/value's
// NewClass/NewModule/... family using an ID from NextID) so the sweep can
// reach it.
func (h *Heap) Track(v *value.Value) *value.Value {
	return h.track(v, estimateWeight(v.Kind()))
}

func estimateWeight(k value.Kind) uint64 {
	switch k {
	case value.KindObject, value.KindClass, value.KindInterface, value.KindTrait, value.KindModule:
		return 256
	case value.KindFn:
		return 512
	case value.KindArray, value.KindMap:
		return 64
	default:
		return 32
	}
}

// RegisterRoot marks v as an extra GC root (spec §4.6, "every extra-GC-
// target value registered by the runtime — used to keep temporaries alive
// across suspension points").
func (h *Heap) RegisterRoot(v *value.Value) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.extraRoots[v.Id()] = v
}

// UnregisterRoot removes a value previously registered with RegisterRoot.
func (h *Heap) UnregisterRoot(v *value.Value) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.extraRoots, v.Id())
}

// Retain increments v's runtime refcount. Callers establish an edge (e.g.
// installing v into a scope, or a var's held slot) before calling this.
func (h *Heap) Retain(v *value.Value) {
	if v != nil {
		v.Retain()
	}
}

// Release decrements v's runtime refcount and, if both counters reach
// zero and no sweep is in progress, frees v and cascades the release to
// every value it held an edge to (spec §3 invariant, §4.6).
func (h *Heap) Release(v *value.Value) {
	if v == nil {
		return
	}

	v.Release()
	h.maybeFree(v)
}

// ReleaseHost decrements v's host refcount (spec §4.6: host embedder
// edges), mirroring Release.
func (h *Heap) ReleaseHost(v *value.Value) {
	if v == nil {
		return
	}

	v.ReleaseHost()
	h.maybeFree(v)
}

func (h *Heap) maybeFree(v *value.Value) {
	h.mu.Lock()
	inGC := h.inGC
	h.mu.Unlock()

	if inGC {
		return
	}

	if !v.IsUnreferenced() {
		return
	}

	h.free(v)
}

// free runs v's destructor (if any) and releases everything v held an
// edge to, recursively. An alias's target is never cascaded through
// (spec §9, "Ownership of scopes": an alias is a weak pointer).
func (h *Heap) free(v *value.Value) {
	h.mu.Lock()
	if _, ok := h.live[v.Id()]; !ok {
		h.mu.Unlock()
		return
	}

	delete(h.live, v.Id())
	hooks := append([]func(*value.Value){}, h.freeHooks...)
	h.mu.Unlock()

	for _, hook := range hooks {
		hook(v)
	}

	if v.Kind() == value.KindObject && h.destructors != nil && !h.destructing {
		h.destructing = true

		if err := h.destructors.InvokeDestructor(v); err != nil {
			log.WithError(err).Warnf("slake: destructor failed for %s", v.QualifiedName())
		}

		h.destructing = false
	}

	if _, ok := v.AsAlias(); ok {
		return
	}

	for _, child := range Children(v) {
		h.Release(child)
	}
}

// RequestSweep runs the tracing sweep unconditionally (spec §4.6,
// "Trigger ... on explicit request from the host").
func (h *Heap) RequestSweep() {
	h.sweep()
}

// MaybeSweep runs the tracing sweep if bytes-allocated-since-last-sweep
// has crossed the configured threshold (spec §4.6, "Trigger ... when
// bytes-allocated-since-last-sweep exceeds a threshold"). Called by the
// interpreter between instructions (spec §5: "invoked only between
// instructions, never during one").
func (h *Heap) MaybeSweep() {
	h.mu.Lock()
	due := h.bytesSinceSweep >= h.threshold
	h.mu.Unlock()

	if due {
		h.sweep()
	}
}

// Shutdown runs a final sweep and then destructs and frees every
// remaining value (spec §4.6, "Trigger ... unconditionally at runtime
// shutdown").
func (h *Heap) Shutdown() {
	h.sweep()

	h.mu.Lock()
	remaining := make([]*value.Value, 0, len(h.live))
	for _, v := range h.live {
		remaining = append(remaining, v)
	}
	h.mu.Unlock()

	for _, v := range remaining {
		if v.Id() == h.root.Id() {
			continue
		}

		h.free(v)
	}
}

// sweep performs the mark phase from the root set, then releases every
// unreached value with zero host refcount (spec §4.6).
//
// The explicit work-stack (an emirpasic/gods LIFO, rather than a recursive
// walk) avoids unbounded Go call-stack growth on deep object graphs; the
// bits-and-blooms bitset records which identities have already been
// queued this pass, kept separate from each value's own persistent Walked
// flag so that flag continues to reflect only the most recently completed
// sweep once this one finishes.
func (h *Heap) sweep() {
	h.mu.Lock()
	h.inGC = true
	roots := h.rootSetLocked()
	h.mu.Unlock()

	queued := bitset.New(uint(h.nextID) + 1)
	stack := linkedliststack.New()

	for _, r := range roots {
		if r == nil || queued.Test(uint(r.Id())) {
			continue
		}

		queued.Set(uint(r.Id()))
		stack.Push(r)
	}

	reached := map[value.Id]*value.Value{}

	for !stack.Empty() {
		top, _ := stack.Pop()

		cur, ok := top.(*value.Value)
		if !ok || cur == nil {
			continue
		}

		cur.SetWalked(true)
		reached[cur.Id()] = cur

		for _, child := range Children(cur) {
			if child == nil || queued.Test(uint(child.Id())) {
				continue
			}

			queued.Set(uint(child.Id()))
			stack.Push(child)
		}
	}

	h.mu.Lock()
	unreached := make([]*value.Value, 0)

	for id, v := range h.live {
		if _, ok := reached[id]; ok {
			continue
		}

		v.SetWalked(false)

		if v.HostRefCount() == 0 {
			unreached = append(unreached, v)
		}
	}

	h.bytesSinceSweep = 0
	h.inGC = false
	h.mu.Unlock()

	if len(unreached) > 0 {
		log.Debugf("slake: gc sweep releasing %d unreachable value(s)", len(unreached))
	}

	for _, v := range unreached {
		h.free(v)
	}
}

// rootSetLocked assembles the sweep's root set (spec §4.6): the root
// value, every value with a non-zero host refcount, every live fiber's
// reachable state, and every registered extra root. Callers must hold
// h.mu.
func (h *Heap) rootSetLocked() []*value.Value {
	roots := []*value.Value{h.root}

	for _, v := range h.live {
		if v.HostRefCount() > 0 {
			roots = append(roots, v)
		}
	}

	for _, v := range h.extraRoots {
		roots = append(roots, v)
	}

	if h.fibers != nil {
		roots = append(roots, h.fibers.LiveFiberRoots()...)
	}

	return roots
}

// Stats renders a one-line summary of the heap's current size, used by
// the CLI's `gc` subcommand and debug logging.
func (h *Heap) Stats() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return fmt.Sprintf("%d live value(s), %d byte(s) since last sweep (threshold %d)",
		len(h.live), h.bytesSinceSweep, h.threshold)
}
