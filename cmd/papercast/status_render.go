package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusPending statusKind = iota
	statusCurrent
	statusDone
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
	ansiDim   = "\x1b[2m"
)

const (
	stepLabelWidth = 18
	stepIndent     = "  "
)

func renderStepLine(label string, kind statusKind, colorize bool) string {
	marker := stepMarker(kind)
	base := fmt.Sprintf("%s%s %-*s %s", stepIndent, marker, stepLabelWidth, label, stepKindLabel(kind))
	if colorize {
		if color := stepKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func stepMarker(kind statusKind) string {
	switch kind {
	case statusDone:
		return "[x]"
	case statusCurrent:
		return "[>]"
	default:
		return "[ ]"
	}
}

func stepKindLabel(kind statusKind) string {
	switch kind {
	case statusDone:
		return "done"
	case statusCurrent:
		return "current"
	default:
		return ""
	}
}

func stepKindColor(kind statusKind) string {
	switch kind {
	case statusDone:
		return ansiGreen
	case statusCurrent:
		return ansiBlue
	default:
		return ansiDim
	}
}

func shouldColorize(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
