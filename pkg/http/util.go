package http

import (
	xutil "MarTrade/pkg/util"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

// ParseWindows parses a comma-separated list of window lengths, e.g. "20,50".
func ParseWindows(s string) []int { return xutil.ParseIntList(s) }
