package download

// validTransitions defines allowed state transitions.
// Key is the "from" status, value is the list of valid "to" statuses.
var validTransitions = map[Status][]Status{
	StatusQueued:      {StatusDownloading, StatusError},
	StatusDownloading: {StatusProcessing, StatusRetrying, StatusError},
	StatusProcessing:  {StatusCompleted, StatusError},
	StatusRetrying:    {StatusDownloading, StatusError},
	StatusCompleted:   {}, // terminal
	StatusError:       {}, // terminal
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	valid, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, v := range valid {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if this status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// IsActive returns true for jobs the queue is still responsible for.
func (s Status) IsActive() bool {
	return !s.IsTerminal()
}
