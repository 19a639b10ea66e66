// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

// Key names as reported by browser keyboard events.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeySpace      = " "
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyEscape     = "Escape"
)

// Command is a navigation action a key can trigger.
type Command int

const (
	CommandNone Command = iota
	CommandNext
	CommandPrev
	CommandFirst
	CommandLast
	CommandToggleThumbnails
	CommandCloseThumbnails
	CommandZoomIn
	CommandZoomOut
	CommandResetZoom
)

var keyCommands = map[string]Command{
	KeyArrowRight: CommandNext,
	KeySpace:      CommandNext,
	"Spacebar":    CommandNext,
	KeyArrowLeft:  CommandPrev,
	KeyHome:       CommandFirst,
	KeyEnd:        CommandLast,
	"t":           CommandToggleThumbnails,
	"T":           CommandToggleThumbnails,
	KeyEscape:     CommandCloseThumbnails,
	"+":           CommandZoomIn,
	"=":           CommandZoomIn,
	"-":           CommandZoomOut,
	"0":           CommandResetZoom,
}

// CommandForKey maps a key to its command, or [CommandNone].
func CommandForKey(key string) Command {
	return keyCommands[key]
}
