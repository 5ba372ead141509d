// Package handlers loads user-supplied template filters and globals from a Lua
// side file shipped with an application template.
//
// Globals of the file are picked by name prefix: functions named "filter_*"
// and "global_*" become template functions, other "global_*" values become
// render data.
package handlers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/apex/log"
	lua "github.com/yuin/gopher-lua"
)

const (
	// FileName is the handlers file name looked up in a template root.
	FileName = "handlers.lua"

	filterPrefix = "filter_"
	globalPrefix = "global_"
)

// Registry holds the functions and values exported by a handlers file.
type Registry struct {
	// Filters are template functions named "filter_*".
	Filters map[string]any
	// Globals are "global_*" functions and values. Functions are template
	// functions, values are render data.
	Globals map[string]any

	mu    sync.Mutex
	state *lua.LState
}

// Load runs the Lua file at path and collects its filters and globals.
func Load(path string) (*Registry, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load handlers from %s: %w", path, err)
	}

	registry := &Registry{
		Filters: map[string]any{},
		Globals: map[string]any{},
		state:   L,
	}

	L.G.Global.ForEach(func(key, value lua.LValue) {
		name, ok := key.(lua.LString)
		if !ok {
			return
		}
		switch {
		case strings.HasPrefix(string(name), filterPrefix):
			fn, ok := value.(*lua.LFunction)
			if !ok {
				log.Warnf("Handler %q in %s is not a function and will be ignored.", name, path)
				return
			}
			registry.Filters[string(name)] = registry.wrap(string(name), fn)
		case strings.HasPrefix(string(name), globalPrefix):
			if fn, ok := value.(*lua.LFunction); ok {
				registry.Globals[string(name)] = registry.wrap(string(name), fn)
			} else {
				registry.Globals[string(name)] = fromLua(value)
			}
		}
	})

	for _, name := range sortedKeys(registry.Filters) {
		log.Debugf("Loaded filter %s from %s", name, path)
	}
	for _, name := range sortedKeys(registry.Globals) {
		log.Debugf("Loaded global %s from %s", name, path)
	}
	return registry, nil
}

// wrap makes a template function calling the Lua function fn.
func (r *Registry) wrap(name string, fn *lua.LFunction) func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.state == nil {
			return nil, fmt.Errorf("handler %s is called after the registry is closed", name)
		}

		L := r.state
		luaArgs := make([]lua.LValue, len(args))
		for i, arg := range args {
			luaArgs[i] = toLua(L, arg)
		}
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, luaArgs...); err != nil {
			return nil, fmt.Errorf("handler %s failed: %w", name, err)
		}
		ret := L.Get(-1)
		L.Pop(1)
		return fromLua(ret), nil
	}
}

// Funcs returns all template functions of the registry: filters and
// function-valued globals.
func (r *Registry) Funcs() map[string]any {
	funcs := make(map[string]any, len(r.Filters)+len(r.Globals))
	for name, fn := range r.Filters {
		funcs[name] = fn
	}
	for name, global := range r.Globals {
		if _, ok := global.(func(args ...any) (any, error)); ok {
			funcs[name] = global
		}
	}
	return funcs
}

// Values returns the non-function globals of the registry.
func (r *Registry) Values() map[string]any {
	values := make(map[string]any, len(r.Globals))
	for name, global := range r.Globals {
		if _, ok := global.(func(args ...any) (any, error)); !ok {
			values[name] = global
		}
	}
	return values
}

// Close releases the Lua state. Functions of a closed registry fail.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != nil {
		r.state.Close()
		r.state = nil
	}
}
