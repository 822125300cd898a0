package main

import (
	"fmt"

	"github.com/cwbudde/algo-resynth/dsp/synth"
	"github.com/cwbudde/algo-resynth/host"
	lua "github.com/yuin/gopher-lua"
)

const defaultScriptVelocity = 100

// automation runs a Lua script's on_block hook before every block. The hook
// changes parameters and queues note events through the functions registered
// in register.
type automation struct {
	L      *lua.LState
	params host.Params
	events []synth.Event
}

func loadAutomation(path string) (*automation, error) {
	a := newAutomation()
	if err := a.L.DoFile(path); err != nil {
		a.Close()
		return nil, fmt.Errorf("lua script %s: %w", path, err)
	}
	return a, nil
}

func loadAutomationString(src string) (*automation, error) {
	a := newAutomation()
	if err := a.L.DoString(src); err != nil {
		a.Close()
		return nil, fmt.Errorf("lua script: %w", err)
	}
	return a, nil
}

func newAutomation() *automation {
	a := &automation{L: lua.NewState()}
	a.register()
	return a
}

// Close releases the Lua state.
func (a *automation) Close() { a.L.Close() }

func (a *automation) register() {
	a.L.SetGlobal("freeze", a.L.NewFunction(func(L *lua.LState) int {
		a.params.Freeze = L.CheckBool(1)
		return 0
	}))
	a.L.SetGlobal("transpose", a.L.NewFunction(func(L *lua.LState) int {
		a.params.Transpose = float64(L.CheckNumber(1))
		return 0
	}))
	a.L.SetGlobal("detune", a.L.NewFunction(func(L *lua.LState) int {
		a.params.Detune = float64(L.CheckNumber(1))
		return 0
	}))
	a.L.SetGlobal("synth_mode", a.L.NewFunction(func(L *lua.LState) int {
		a.params.SynthMode = L.CheckBool(1)
		return 0
	}))
	a.L.SetGlobal("gain", a.L.NewFunction(func(L *lua.LState) int {
		a.params.OutputGain = float64(L.CheckNumber(1))
		return 0
	}))
	a.L.SetGlobal("note_on", a.L.NewFunction(func(L *lua.LState) int {
		note := checkNote(L, 1)
		vel := L.OptInt(2, defaultScriptVelocity)
		if vel < 0 || vel > 127 {
			L.ArgError(2, "velocity must be in [0, 127]")
		}
		a.events = append(a.events, synth.NoteOn(L.OptInt(3, 0), note, uint8(vel)))
		return 0
	}))
	a.L.SetGlobal("note_off", a.L.NewFunction(func(L *lua.LState) int {
		a.events = append(a.events, synth.NoteOff(L.OptInt(2, 0), checkNote(L, 1)))
		return 0
	}))
}

func checkNote(L *lua.LState, n int) uint8 {
	note := L.CheckInt(n)
	if note < 0 || note > 127 {
		L.ArgError(n, "note must be in [0, 127]")
	}
	return uint8(note)
}

// Block calls on_block(index, seconds) if the script defines it and returns
// the updated parameters and the events queued during the call.
func (a *automation) Block(index int, seconds float64, params host.Params) (host.Params, []synth.Event, error) {
	a.params = params
	a.events = a.events[:0]

	fn := a.L.GetGlobal("on_block")
	if fn.Type() != lua.LTFunction {
		return params, nil, nil
	}
	err := a.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true},
		lua.LNumber(index), lua.LNumber(seconds))
	if err != nil {
		return params, nil, fmt.Errorf("lua on_block(%d): %w", index, err)
	}
	return a.params, a.events, nil
}
