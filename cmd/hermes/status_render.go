package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"hermes/internal/resolver"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	return paint(base, kind, colorize)
}

// renderMatchLine is the one-line console feedback for a scan or lookup.
func renderMatchLine(prefix string, match resolver.Result, colorize bool) string {
	kind := confidenceKind(match.Confidence)
	line := fmt.Sprintf("%s%s [%s %s]", prefix, orDash(match.Name()), match.Confidence, formatScore(match.Score))
	if match.Confidence == resolver.ConfidenceAmbiguous && len(match.MatchedCodes) > 0 {
		line += " candidates: " + strings.Join(match.MatchedCodes, ", ")
	}
	return paint(line, kind, colorize)
}

func confidenceKind(c resolver.Confidence) statusKind {
	switch c {
	case resolver.ConfidenceExact, resolver.ConfidenceConfident:
		return statusOK
	case resolver.ConfidenceAmbiguous:
		return statusWarn
	default:
		return statusError
	}
}

func paint(s string, kind statusKind, colorize bool) string {
	if !colorize {
		return s
	}
	if color := statusKindColor(kind); color != "" {
		return color + s + ansiReset
	}
	return s
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
