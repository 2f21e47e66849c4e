// Package lua runs mask scripts in a sandboxed gopher-lua state.
//
// A mask script may define any of three global functions:
//
//	function preprocess(s)  -- s = {value=, from=, to=, data=}; returns s
//	function postprocess(s) -- s = {value=, from=, to=}; returns s
//	function mask(s)        -- returns a pattern string such as "(999) 999-9999"
//
// Offsets are zero-based rune positions. Hooks adapts a loaded script into
// the processors and dynamic definition a field controller consumes. A
// failing hook is logged and the edit proceeds as if the hook were absent.
//
// Only the base, table, string and math libraries are available to
// scripts; file loading functions are removed.
package lua
