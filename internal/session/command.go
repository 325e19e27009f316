package session

import "strings"

// Command is one viewer input translated for the session.
type Command int

const (
	None Command = iota
	ZoomIn
	ZoomOut
	PanLeft
	PanRight
	PanUp
	PanDown
	Quit
)

var commandNames = map[Command]string{
	None:     "none",
	ZoomIn:   "zoom-in",
	ZoomOut:  "zoom-out",
	PanLeft:  "pan-left",
	PanRight: "pan-right",
	PanUp:    "pan-up",
	PanDown:  "pan-down",
	Quit:     "quit",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

var keyBindings = map[string]Command{
	"+": ZoomIn, "=": ZoomIn, "kp_plus": ZoomIn, "zoom-in": ZoomIn, "in": ZoomIn,
	"-": ZoomOut, "_": ZoomOut, "minus": ZoomOut, "zoom-out": ZoomOut, "out": ZoomOut,
	"left": PanLeft, "h": PanLeft, "pan-left": PanLeft,
	"right": PanRight, "l": PanRight, "pan-right": PanRight,
	"up": PanUp, "k": PanUp, "pan-up": PanUp,
	"down": PanDown, "j": PanDown, "pan-down": PanDown,
	"q": Quit, "quit": Quit, "ctrl+c": Quit,
}

// ParseCommand maps a key or command name to a Command. Unbound names
// return None and false.
func ParseCommand(name string) (Command, bool) {
	cmd, ok := keyBindings[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return None, false
	}
	return cmd, true
}
