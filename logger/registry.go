package logger

import "sync"

// components caches one child logger per component name. Replacing the
// global logger clears it so later lookups pick up the new level and sink.
var components sync.Map

// Get returns the logger for a component, tagged with its name.
func Get(name string) *Logger {
	if l, ok := components.Load(name); ok {
		return l.(*Logger)
	}
	l, _ := components.LoadOrStore(name, GetGlobalLogger().WithComponent(name))
	return l.(*Logger)
}
