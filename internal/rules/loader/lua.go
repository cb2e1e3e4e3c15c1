package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/lintite/internal/rules"
)

// luaTimeout bounds the execution of a rule script.
const luaTimeout = 2 * time.Second

// blockedGlobals are base library functions that reach the file system.
var blockedGlobals = []string{"dofile", "loadfile", "require", "module"}

// newLuaState creates a state with only the base, table and string
// libraries opened.
func newLuaState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})

	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("opening lua library %s: %w", lib.name, err)
		}
	}

	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L, nil
}

// decodeLua runs the script and converts its return value.
func decodeLua(path string, data []byte) ([]rules.Record, error) {
	L, err := newLuaState()
	if err != nil {
		return nil, err
	}
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), luaTimeout)
	defer cancel()
	L.SetContext(ctx)

	fn, err := L.Load(bytes.NewReader(data), path)
	if err != nil {
		return nil, parseError(path, 0, 0, err)
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) && apiErr.Object != nil {
			return nil, parseError(path, 0, 0, errors.New(apiErr.Object.String()))
		}
		return nil, parseError(path, 0, 0, err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return nil, nil
	case *lua.LTable:
		list := v
		if inner, ok := v.RawGetString("rules").(*lua.LTable); ok {
			list = inner
		}
		return luaRecords(list), nil
	}
	return nil, shapeError(path, ret.Type().String())
}

// luaRecords converts the array part of t to records.
func luaRecords(t *lua.LTable) []rules.Record {
	n := t.Len()
	out := make([]rules.Record, 0, n)
	for i := 1; i <= n; i++ {
		entry, ok := t.RawGetInt(i).(*lua.LTable)
		if !ok {
			out = append(out, nil)
			continue
		}
		rec := rules.Record{}
		entry.ForEach(func(k, v lua.LValue) {
			key, ok := k.(lua.LString)
			if !ok {
				return
			}
			rec[string(key)] = luaToGo(v)
		})
		out = append(out, rec)
	}
	return out
}

// luaToGo converts scalar Lua values. Anything else is returned as its
// Lua type name so validation reports it as a non-string field.
func luaToGo(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	case *lua.LNilType:
		return nil
	}
	return v.Type()
}
