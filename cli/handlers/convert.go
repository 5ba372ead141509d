package handlers

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	lua "github.com/yuin/gopher-lua"
)

// toLua converts a Go value of a render context into a Lua value.
func toLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return x
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case float64:
		return lua.LNumber(x)
	case float32:
		return lua.LNumber(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case uint64:
		return lua.LNumber(x)
	case []any:
		table := L.CreateTable(len(x), 0)
		for _, item := range x {
			table.Append(toLua(L, item))
		}
		return table
	case map[string]any:
		table := L.CreateTable(0, len(x))
		for k, item := range x {
			table.RawSetString(k, toLua(L, item))
		}
		return table
	}

	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Slice, reflect.Array:
		table := L.CreateTable(value.Len(), 0)
		for i := 0; i < value.Len(); i++ {
			table.Append(toLua(L, value.Index(i).Interface()))
		}
		return table
	case reflect.Map:
		table := L.CreateTable(0, value.Len())
		iter := value.MapRange()
		for iter.Next() {
			table.RawSetString(fmt.Sprint(iter.Key().Interface()),
				toLua(L, iter.Value().Interface()))
		}
		return table
	default:
		return lua.LString(fmt.Sprint(v))
	}
}

// fromLua converts a Lua value into a Go value. Sequences and empty tables
// become []any, other tables become map[string]any keyed by the string form of
// their keys, array indexes included. Numbers are float64, the same as in
// decoded JSON.
func fromLua(v lua.LValue) any {
	switch x := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(x)
	case lua.LString:
		return string(x)
	case lua.LNumber:
		return float64(x)
	case *lua.LTable:
		m := map[string]any{}
		x.ForEach(func(key, value lua.LValue) {
			m[key.String()] = fromLua(value)
		})
		if n := x.MaxN(); len(m) == n {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				list = append(list, m[strconv.Itoa(i)])
			}
			return list
		}
		return m
	default:
		return v.String()
	}
}

// sortedKeys returns keys of m in lexical order.
func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
