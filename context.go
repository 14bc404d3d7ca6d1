package tincan

import (
	"sync"

	"github.com/petermattis/goid"
)

// Everything ambient lives in this file: which observer the calling
// goroutine is currently executing, and which scoped runtimes it has
// entered. The graph code itself never consults goroutine identity; it
// takes the runtime and observer id explicitly.

type observerFrame struct {
	rt *Runtime
	id ID
}

type execContext struct {
	observers []observerFrame
	scopes    []*Runtime
}

// keyed by goroutine id; entries are removed as soon as both stacks drain
// so parked goroutines don't pin dead runtimes
var execContexts sync.Map

func loadContext() (*execContext, bool) {
	v, ok := execContexts.Load(goid.Get())
	if !ok {
		return nil, false
	}
	return v.(*execContext), true
}

func ensureContext() *execContext {
	gid := goid.Get()
	if v, ok := execContexts.Load(gid); ok {
		return v.(*execContext)
	}
	c := &execContext{}
	execContexts.Store(gid, c)
	return c
}

func releaseContextIfDrained(c *execContext) {
	if len(c.observers) == 0 && len(c.scopes) == 0 {
		execContexts.Delete(goid.Get())
	}
}

// activeObserver returns the observer reads should currently be attributed
// to. An observer belonging to another runtime does not count: a cell is
// only ever linked to observers of its own graph.
func activeObserver(rt *Runtime) (ID, bool) {
	c, ok := loadContext()
	if !ok || len(c.observers) == 0 {
		return 0, false
	}
	top := c.observers[len(c.observers)-1]
	if top.rt != rt {
		return 0, false
	}
	return top.id, true
}

func pushObserver(rt *Runtime, id ID) {
	c := ensureContext()
	c.observers = append(c.observers, observerFrame{rt: rt, id: id})
}

func popObserver() {
	c, ok := loadContext()
	if !ok || len(c.observers) == 0 {
		return
	}
	c.observers = c.observers[:len(c.observers)-1]
	releaseContextIfDrained(c)
}

func currentScope() *Runtime {
	c, ok := loadContext()
	if !ok || len(c.scopes) == 0 {
		return nil
	}
	return c.scopes[len(c.scopes)-1]
}

func pushScope(rt *Runtime) {
	c := ensureContext()
	c.scopes = append(c.scopes, rt)
}

func popScope() {
	c, ok := loadContext()
	if !ok || len(c.scopes) == 0 {
		return
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
	releaseContextIfDrained(c)
}
