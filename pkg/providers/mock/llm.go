package mock

import (
	"context"
	"sync"

	"github.com/expertbridge/interviewer/pkg/llm"
)

// Reply scripts one completion outcome for a model.
type Reply struct {
	Text string
	Err  error
}

// CompletionClient is a scriptable completion backend for tests. Replies are
// keyed by model name and consumed in order; an unscripted model returns the
// default text.
type CompletionClient struct {
	mu          sync.Mutex
	replies     map[string][]Reply
	defaultText string
	calls       []Call
}

// Call records one Complete invocation for assertions.
type Call struct {
	Model  string
	Params llm.Params
}

func NewCompletionClient() *CompletionClient {
	return &CompletionClient{
		replies:     make(map[string][]Reply),
		defaultText: "mock response",
	}
}

// Script queues replies for a model. Each Complete call consumes one; the
// last reply repeats once the queue is drained.
func (c *CompletionClient) Script(model string, replies ...Reply) *CompletionClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies[model] = append(c.replies[model], replies...)
	return c
}

// SetDefaultText changes the reply for unscripted models.
func (c *CompletionClient) SetDefaultText(text string) *CompletionClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultText = text
	return c
}

func (c *CompletionClient) Name() string { return "mock_llm" }

func (c *CompletionClient) Complete(ctx context.Context, model string, messages []llm.Message, params llm.Params) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Model: model, Params: params})

	queue := c.replies[model]
	if len(queue) == 0 {
		return c.defaultText, nil
	}
	reply := queue[0]
	if len(queue) > 1 {
		c.replies[model] = queue[1:]
	}
	return reply.Text, reply.Err
}

// Calls returns a snapshot of every Complete invocation so far.
func (c *CompletionClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

var _ llm.CompletionClient = (*CompletionClient)(nil)
