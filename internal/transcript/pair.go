package transcript

// TaskToolName is the tool that spawns a subagent. Task calls render
// expanded so subagent work stays visible in the export.
const TaskToolName = "Task"

// CallUnit pairs a tool_use block with its tool_result, matched by
// tool_use_id. A call whose result never arrived (conversation truncated
// mid-tool) has HasResult false and renders as pending.
type CallUnit struct {
	Name      string
	ID        string
	Input     map[string]any
	Result    string
	HasResult bool
	Expanded  bool
}

// ResultMap scans user turns for tool_result blocks and returns the result
// text keyed by tool_use_id. Pairing is order-independent: results are
// collected from the whole turn list before any tool_use is examined.
//
// When several results claim the same id, the first one in turn order (turns
// are chronological) wins; the ids of the losers are returned so the caller
// can log the anomaly.
func ResultMap(turns []Turn) (map[string]string, []string) {
	results := make(map[string]string)
	var dupes []string
	for _, turn := range turns {
		if turn.Role != "user" || !turn.Content.IsList {
			continue
		}
		for _, blk := range turn.Content.Blocks {
			if blk.Type != "tool_result" || blk.ToolUseID == "" {
				continue
			}
			if _, seen := results[blk.ToolUseID]; seen {
				dupes = append(dupes, blk.ToolUseID)
				continue
			}
			results[blk.ToolUseID] = blk.ResultText()
		}
	}
	return results, dupes
}

// CallFor builds the CallUnit for one tool_use block against a result map.
func CallFor(blk ContentBlock, results map[string]string) CallUnit {
	name := blk.Name
	if name == "" {
		name = "unknown"
	}
	unit := CallUnit{
		Name:     name,
		ID:       blk.ID,
		Input:    blk.Input,
		Expanded: name == TaskToolName,
	}
	if result, ok := results[blk.ID]; ok && blk.ID != "" {
		unit.Result = result
		unit.HasResult = true
	}
	return unit
}

// Calls pairs every tool_use block in the assistant turns with its result.
func Calls(turns []Turn) []CallUnit {
	results, _ := ResultMap(turns)
	var units []CallUnit
	for _, turn := range turns {
		if turn.Role != "assistant" || !turn.Content.IsList {
			continue
		}
		for _, blk := range turn.Content.Blocks {
			if blk.Type == "tool_use" {
				units = append(units, CallFor(blk, results))
			}
		}
	}
	return units
}
