package recording

import (
	"sort"
	"strings"

	"github.com/desimlab/desim/sim"
)

// An ExecutionEntry is one executed event as stored in the database. The
// event context is flattened into a single "k=v;k=v" column.
type ExecutionEntry struct {
	EventID string
	Time    float64
	Context string
	Outcome string
}

// An ExecutionHook observes a scheduler and stores every executed event into
// a recorder table.
type ExecutionHook struct {
	recorder  DataRecorder
	tableName string
}

// NewExecutionHook creates a hook that writes execution records into the
// given table, creating the table on the way.
func NewExecutionHook(recorder DataRecorder, tableName string) *ExecutionHook {
	h := &ExecutionHook{
		recorder:  recorder,
		tableName: tableName,
	}

	h.recorder.CreateTable(tableName, ExecutionEntry{})

	return h
}

// Func stores the execution record carried by after-event hook contexts.
func (h *ExecutionHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}

	record, ok := ctx.Detail.(sim.ExecutionRecord)
	if !ok {
		return
	}

	h.recorder.InsertData(h.tableName, ExecutionEntry{
		EventID: record.ID,
		Time:    float64(record.Time),
		Context: flattenContext(record.Context),
		Outcome: record.Outcome,
	})
}

func flattenContext(context map[string]string) string {
	if len(context) == 0 {
		return ""
	}

	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+context[k])
	}

	return strings.Join(pairs, ";")
}
