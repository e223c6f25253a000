package domain

// WatchEventKind classifies a filesystem change notification.
type WatchEventKind uint8

const (
	// WatchEventCreate means a path appeared.
	WatchEventCreate WatchEventKind = iota + 1
	// WatchEventModify means a path's content changed in place.
	WatchEventModify
	// WatchEventDelete means a path disappeared or was renamed away.
	WatchEventDelete
	// WatchEventOverflow means too many changes happened to enumerate them.
	WatchEventOverflow
)

// String returns the kind name.
func (k WatchEventKind) String() string {
	switch k {
	case WatchEventCreate:
		return "create"
	case WatchEventModify:
		return "modify"
	case WatchEventDelete:
		return "delete"
	case WatchEventOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// WatchEvent is a single change notification from the file watcher.
// Path is project-relative and empty for overflow events.
type WatchEvent struct {
	Kind WatchEventKind
	Path string
}

// InvalidatesGraphShape reports whether the event may change the target graph.
// In-place modifications only change content, which rule keys already cover.
func (e WatchEvent) InvalidatesGraphShape() bool {
	return e.Kind != WatchEventModify
}
