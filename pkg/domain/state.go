package domain

// CloneState returns a copy of a state bag that is independent of
// subsequent mutation of the original. Maps and slices are copied
// recursively; scalar values are shared, which is safe because the
// engine never mutates a value in place, only replaces keys.
func CloneState(state map[string]any) map[string]any {
	if state == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(state))
	for k, v := range state {
		out[k] = cloneValue(v)
	}
	return out
}

// CloneRun returns a deep copy of a run, isolating store reads and
// writes from the executor's live record.
func CloneRun(run *Run) *Run {
	if run == nil {
		return nil
	}
	clone := *run
	clone.State = CloneState(run.State)
	clone.Log = make([]LogEntry, len(run.Log))
	for i, entry := range run.Log {
		clone.Log[i] = cloneEntry(entry)
	}
	return &clone
}

func cloneEntry(entry LogEntry) LogEntry {
	out := entry
	if entry.Step != nil {
		step := *entry.Step
		out.Step = &step
	}
	if entry.Input != nil {
		out.Input = CloneState(entry.Input)
	}
	if entry.Output != nil {
		out.Output = CloneState(entry.Output)
	}
	if entry.State != nil {
		out.State = CloneState(entry.State)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneState(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
