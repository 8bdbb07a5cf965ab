// Package script runs the simulated client's scripts in an embedded Lua
// state.
//
// Scripts read and write client variables through the global "client"
// module and raise callbacks that plugins may answer:
//
//	client.int(name)          -> integer variable
//	client.set_int(name, v)
//	client.str(name)          -> string variable
//	client.set_str(name, v)
//	client.callback(name)     -> boolean result
package script

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/camerakeys/internal/host"
)

//go:embed scripts/*.lua
var builtin embed.FS

// DefaultTimeout bounds a single script invocation.
const DefaultTimeout = 250 * time.Millisecond

var (
	// ErrClosed is returned when using a closed engine.
	ErrClosed = errors.New("script engine is closed")

	// ErrUnknownScript is returned for script ids with no function.
	ErrUnknownScript = errors.New("unknown script")
)

// Host is the client state scripts operate on.
type Host interface {
	IntVar(name string) int
	SetIntVar(name string, value int)
	StrVar(name string) string
	SetStrVar(name, value string)
	// Callback raises a script callback and returns its answer.
	Callback(name string) bool
}

// Error is a failed script invocation.
type Error struct {
	Func string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Func, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// functions maps client script ids to the Lua functions implementing them.
var functions = map[host.ScriptID]string{
	host.ScriptCameraDoZoom: "camera_do_zoom",
	host.ScriptCompassOp:    "toplevel_compass_op",
}

// Engine is a Lua state loaded with the client scripts. It is not safe for
// concurrent use; the client calls it from its own thread only.
type Engine struct {
	L       *lua.LState
	host    Host
	timeout time.Duration
	closed  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-invocation timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// New creates an engine bound to h and loads the built-in scripts.
func New(h Host, opts ...Option) (*Engine, error) {
	e := &Engine{
		host:    h,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(e.L)
	e.registerClientModule()

	if err := e.loadFS(builtin, "scripts"); err != nil {
		e.L.Close()
		return nil, err
	}
	return e, nil
}

// openSafeLibraries opens the libraries scripts may use; no io, os or
// module loading.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (e *Engine) registerClientModule() {
	mod := e.L.SetFuncs(e.L.NewTable(), map[string]lua.LGFunction{
		"int": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.host.IntVar(L.CheckString(1))))
			return 1
		},
		"set_int": func(L *lua.LState) int {
			e.host.SetIntVar(L.CheckString(1), L.CheckInt(2))
			return 0
		},
		"str": func(L *lua.LState) int {
			L.Push(lua.LString(e.host.StrVar(L.CheckString(1))))
			return 1
		},
		"set_str": func(L *lua.LState) int {
			e.host.SetStrVar(L.CheckString(1), L.CheckString(2))
			return 0
		},
		"callback": func(L *lua.LState) int {
			L.Push(lua.LBool(e.host.Callback(L.CheckString(1))))
			return 1
		},
	})
	e.L.SetGlobal("client", mod)
}

// loadFS runs every .lua file under dir in name order.
func (e *Engine) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		if !ent.IsDir() && path.Ext(ent.Name()) == ".lua" {
			names = append(names, ent.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		src, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return err
		}
		if err := e.L.DoString(string(src)); err != nil {
			return &Error{Func: name, Err: err}
		}
	}
	return nil
}

// Load runs additional script source, for example to override a built-in
// function.
func (e *Engine) Load(name, src string) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.L.DoString(src); err != nil {
		return &Error{Func: name, Err: err}
	}
	return nil
}

// Run runs the client script with the given id.
func (e *Engine) Run(ctx context.Context, id host.ScriptID, args ...int) error {
	fn, ok := functions[id]
	if !ok {
		return &Error{Func: id.String(), Err: ErrUnknownScript}
	}
	values := make([]lua.LValue, len(args))
	for i, a := range args {
		values[i] = lua.LNumber(a)
	}
	_, err := e.Call(ctx, fn, values...)
	return err
}

// Call calls a global Lua function and returns its results.
func (e *Engine) Call(ctx context.Context, fn string, args ...lua.LValue) (results []lua.LValue, err error) {
	if e.closed {
		return nil, ErrClosed
	}

	fnVal := e.L.GetGlobal(fn)
	if fnVal.Type() != lua.LTFunction {
		return nil, &Error{Func: fn, Err: fmt.Errorf("not a function (got %s)", fnVal.Type())}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = &Error{Func: fn, Err: fmt.Errorf("lua panic: %v", r)}
		}
	}()

	top := e.L.GetTop()
	e.L.Push(fnVal)
	for _, a := range args {
		e.L.Push(a)
	}
	if err := e.L.PCall(len(args), lua.MultRet, nil); err != nil {
		return nil, &Error{Func: fn, Err: err}
	}

	n := e.L.GetTop() - top
	results = make([]lua.LValue, n)
	for i := 0; i < n; i++ {
		results[i] = e.L.Get(top + i + 1)
	}
	e.L.Pop(n)
	return results, nil
}

// CallBool calls fn and returns its first result as a boolean.
func (e *Engine) CallBool(ctx context.Context, fn string, args ...lua.LValue) (bool, error) {
	results, err := e.Call(ctx, fn, args...)
	if err != nil {
		return false, err
	}
	return len(results) > 0 && lua.LVAsBool(results[0]), nil
}

// Close releases the Lua state. It is safe to call Close more than once.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}
