package utils

import (
	"fmt"
	"math"
	"time"
)

// MessageType is a custom type used as a placeholder for various message types.
type MessageType int

// The message types used accross the CLI application.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// Colors used accross the CLI application.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

var messageColors = map[MessageType]string{
	DefaultMessage: DefaultColor,
	StatusMessage:  StatusColor,
	SuccessMessage: SuccessColor,
	ErrorMessage:   ErrorColor,
}

// NoColor disables the ANSI escape sequences, e.g. when stderr is not a terminal.
var NoColor bool

// DecorateText shows the message types in different colors.
func DecorateText(s string, msgType MessageType) string {
	c, ok := messageColors[msgType]
	if !ok || NoColor {
		return s
	}
	return c + s + DefaultColor
}

// FormatTime formats time.Duration output to a human readable value.
func FormatTime(d time.Duration) string {
	secs := math.Mod(d.Seconds(), 60)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %.2fs", int64(d.Minutes()), secs)
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh %dm %.2fs", int64(d.Hours()), int64(d.Minutes())%60, secs)
	}
	return fmt.Sprintf("%dd %dh %dm %.2fs",
		int64(d.Hours())/24, int64(d.Hours())%24, int64(d.Minutes())%60, secs)
}
