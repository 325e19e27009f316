// Package gui shows a session in a native window through raylib.
//
// The grid is uploaded as a texture once per render; frames in between
// only redraw the texture and the HUD. Keys: keypad plus or = zooms in,
// keypad minus or - zooms out, arrows pan, H toggles the HUD, Q quits.
package gui
