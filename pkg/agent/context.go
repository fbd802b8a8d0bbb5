package agent

import "github.com/tombee/mcpscout/pkg/llm"

// ContextManager estimates conversation size and prunes old turns so the
// agent stays inside the model's context window.
type ContextManager struct {
	maxTokens      int
	pruneThreshold int
}

// NewContextManager creates a manager for a window of maxTokens.
// Pruning starts at 80% utilisation.
func NewContextManager(maxTokens int) *ContextManager {
	return &ContextManager{
		maxTokens:      maxTokens,
		pruneThreshold: maxTokens * 8 / 10,
	}
}

// ShouldPrune reports whether messages exceed the prune threshold.
func (cm *ContextManager) ShouldPrune(messages []llm.Message) bool {
	return cm.EstimateTokens(messages) > cm.pruneThreshold
}

// Prune keeps the system and first user message and then as many of the
// newest messages as fit in the window. A tool message is never kept
// without the assistant message that requested it.
func (cm *ContextManager) Prune(messages []llm.Message) []llm.Message {
	if len(messages) <= 2 {
		return messages
	}

	head := messages[:2]
	remaining := cm.maxTokens - cm.EstimateTokens(head)

	start := len(messages)
	for i := len(messages) - 1; i >= 2; i-- {
		cost := cm.estimateMessageTokens(messages[i])
		if remaining-cost < 0 {
			break
		}
		remaining -= cost
		start = i
	}

	// Drop orphaned tool results at the front of the kept tail.
	for start < len(messages) && messages[start].Role == llm.MessageRoleTool {
		start++
	}

	pruned := make([]llm.Message, 0, 2+len(messages)-start)
	pruned = append(pruned, head...)
	return append(pruned, messages[start:]...)
}

// EstimateTokens returns a rough token count for messages.
func (cm *ContextManager) EstimateTokens(messages []llm.Message) int {
	total := 0
	for _, msg := range messages {
		total += cm.estimateMessageTokens(msg)
	}
	return total
}

// Rough estimate: 4 characters per token plus structural overhead.
func (cm *ContextManager) estimateMessageTokens(msg llm.Message) int {
	tokens := len(msg.Content)/4 + 10
	for _, tc := range msg.ToolCalls {
		tokens += len(tc.Name)/4 + len(tc.Arguments)/4 + 20
	}
	return tokens
}
