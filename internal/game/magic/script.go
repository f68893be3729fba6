package magic

import (
	"context"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/castellan/skirmish/internal/game/rng"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// spell-script execution.
const DefaultInstructionLimit = 100_000

// countingContext is a context.Context that cancels itself after Done() has
// been called limit times. GopherLua's mainLoopWithContext calls Done() once
// per opcode, making this an exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done returns the underlying cancellation channel. Each call decrements the
// remaining counter; when it reaches zero the cancel function fires,
// terminating the Lua VM on the next opcode boundary.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newCountingContext returns a context that cancels after limit calls to Done().
// Precondition: limit > 0.
func newCountingContext(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{
		Context:   base,
		cancel:    cancel,
		remaining: rem,
	}, cancel
}

// newSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//   - math.random removed, so the only randomness available to scripts is the
//     roll() host function backed by the battle's source
//   - Execution limited to at most instLimit Lua opcodes (deterministic)
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// The caller owns the LState and must call L.Close() when done.
func newSandboxedState(instLimit int) *lua.LState {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Open only safe standard libraries.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Strip dangerous globals left by OpenBase.
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	// All combat randomness flows through the battle's source; scripts draw
	// via roll(), never math.random.
	mathTable := L.GetGlobal("math")
	L.SetField(mathTable, "random", lua.LNil)
	L.SetField(mathTable, "randomseed", lua.LNil)

	// countingContext.Done() is called by GopherLua's mainLoopWithContext on
	// every opcode; the context cancels itself after exactly limit opcodes.
	ctx, _ := newCountingContext(limit) //nolint:govet // cancel fires automatically when limit is reached
	L.SetContext(ctx)

	return L
}

// scriptSpell resolves a cast by running an embedded Lua script in a fresh
// sandboxed VM. The script must define
//
//	function cast(caster, target) ... end
//
// and return a table with any of the fields damage, healing, and message.
// caster and target are read-only tables of name, level, and attributes;
// target is nil for self-casts. The host function roll() yields a uniform
// draw in [0, 1) from the battle's randomness source.
type scriptSpell struct {
	d         *Descriptor
	source    string
	instLimit int
}

func (s *scriptSpell) Cast(caster Caster, target Target, src rng.Source) (Outcome, error) {
	L := newSandboxedState(s.instLimit)
	defer L.Close()

	L.SetGlobal("roll", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(src.Float64()))
		return 1
	}))

	if err := L.DoString(s.source); err != nil {
		return Outcome{}, fmt.Errorf("magic: script spell %q: %w", s.d.ID, err)
	}

	fn := L.GetGlobal("cast")
	if fn.Type() != lua.LTFunction {
		return Outcome{}, fmt.Errorf("magic: script spell %q defines no cast function", s.d.ID)
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, casterTable(L, s.d, caster), targetTable(L, target)); err != nil {
		return Outcome{}, fmt.Errorf("magic: script spell %q: %w", s.d.ID, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	result, ok := ret.(*lua.LTable)
	if !ok {
		return Outcome{}, fmt.Errorf("magic: script spell %q returned %s, want table", s.d.ID, ret.Type())
	}

	out := Outcome{
		Success: true,
		Damage:  intField(L, result, "damage"),
		Healing: intField(L, result, "healing"),
		Message: stringField(L, result, "message"),
	}
	if out.Message == "" {
		out.Message = fmt.Sprintf("%s casts %s", caster.Name(), s.d.Name)
	}
	return out, nil
}

// casterTable marshals the caster view handed to scripts, including the
// precomputed spell power for the descriptor's scaling stat.
func casterTable(L *lua.LState, d *Descriptor, caster Caster) *lua.LTable {
	attrs := caster.Attributes()
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(caster.Name()))
	L.SetField(t, "level", lua.LNumber(caster.Level()))
	L.SetField(t, "strength", lua.LNumber(attrs.Strength))
	L.SetField(t, "constitution", lua.LNumber(attrs.Constitution))
	L.SetField(t, "agility", lua.LNumber(attrs.Agility))
	L.SetField(t, "intelligence", lua.LNumber(attrs.Intelligence))
	L.SetField(t, "willpower", lua.LNumber(attrs.Willpower))
	L.SetField(t, "charisma", lua.LNumber(attrs.Charisma))
	L.SetField(t, "power", lua.LNumber(d.Power(caster)))
	return t
}

func targetTable(L *lua.LState, target Target) lua.LValue {
	if target == nil {
		return lua.LNil
	}
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(target.Name()))
	L.SetField(t, "willpower", lua.LNumber(target.Attributes().Willpower))
	return t
}

func intField(L *lua.LState, t *lua.LTable, key string) int {
	v := L.GetField(t, key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

func stringField(L *lua.LState, t *lua.LTable, key string) string {
	v := L.GetField(t, key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}
