package domain

import "context"

// ToolFunc is the contract for a step implementation. It receives the
// run's live state bag and may mutate it in place, return a partial
// patch to merge over it (last writer per key wins), or both. A non-nil
// error is the failure channel: the run fails fast, no routing happens.
type ToolFunc func(ctx context.Context, state map[string]any) (map[string]any, error)
