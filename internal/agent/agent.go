// Package agent implements the conversation loop: user input goes to the
// model together with the tool schemas, requested tool calls are executed,
// and trade tools interrupt the loop until the user confirms.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tradermate/tradermate/internal/config"
	"github.com/tradermate/tradermate/internal/llm"
	"github.com/tradermate/tradermate/internal/logger"
	"github.com/tradermate/tradermate/internal/memory"
	"github.com/tradermate/tradermate/internal/tools"
)

const (
	// MaxToolIterations maximum number of tool call iterations per turn
	MaxToolIterations = 10
)

var (
	// ErrAwaitingDecision is returned by Chat while a trade confirmation is pending
	ErrAwaitingDecision = errors.New("a trade confirmation is pending, answer it first")
	// ErrNoPendingDecision is returned by Resume when nothing is pending
	ErrNoPendingDecision = errors.New("no decision is pending")
)

// ChatClient is the LLM surface the agent needs
type ChatClient interface {
	Chat(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.ChatResponse, error)
	ChatStream(ctx context.Context, messages []llm.Message, tools []llm.Tool, handler llm.StreamHandler) (*llm.ChatResponse, error)
}

// Agent conversation agent core
type Agent struct {
	config          *config.Config
	promptConfig    *config.PromptConfig
	llm             ChatClient
	memory          memory.Store
	registry        *tools.Registry
	sessionID       string
	maxContextMsgs  int
	streamHandler   func(content string)
	toolCallHandler func(name string, args map[string]any, result string, err error)
	pending         *pendingDecision
}

// pendingDecision parks an interrupted tool call until the user answers.
// messages holds the in-flight conversation including the assistant
// message that requested the call; remaining holds sibling calls that
// have not run yet.
type pendingDecision struct {
	call      llm.ToolCall
	args      map[string]any
	remaining []llm.ToolCall
	messages  []llm.Message
	prompt    string
}

// Reply is the outcome of one conversational turn
type Reply struct {
	Content          string
	AwaitingDecision bool
	DecisionPrompt   string
}

// Option agent configuration option
type Option func(*Agent)

// WithStreamHandler sets the stream output handler
func WithStreamHandler(handler func(content string)) Option {
	return func(a *Agent) {
		a.streamHandler = handler
	}
}

// WithToolCallHandler sets the tool call handler
func WithToolCallHandler(handler func(name string, args map[string]any, result string, err error)) Option {
	return func(a *Agent) {
		a.toolCallHandler = handler
	}
}

// New creates a new Agent instance
func New(cfg *config.Config, llmClient ChatClient, mem memory.Store, reg *tools.Registry, opts ...Option) (*Agent, error) {
	promptCfg, err := config.LoadPromptConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt config: %w", err)
	}

	agent := &Agent{
		config:         cfg,
		promptConfig:   promptCfg,
		llm:            llmClient,
		memory:         mem,
		registry:       reg,
		maxContextMsgs: cfg.Memory.MaxContextMessages,
	}

	for _, opt := range opts {
		opt(agent)
	}

	if err := agent.initSession(); err != nil {
		return nil, err
	}

	return agent, nil
}

// initSession resumes the latest session or creates a fresh one
func (a *Agent) initSession() error {
	session, err := a.memory.GetLatestSession()
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session != nil {
		a.sessionID = session.ID
		return nil
	}

	sessionID, err := a.memory.CreateSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	a.sessionID = sessionID
	return nil
}

// NewSession creates a new session
func (a *Agent) NewSession() error {
	sessionID, err := a.memory.CreateSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	a.sessionID = sessionID
	a.pending = nil
	return nil
}

// ClearSession clears the current session
func (a *Agent) ClearSession() error {
	if err := a.memory.ClearSession(a.sessionID); err != nil {
		return err
	}
	return a.NewSession()
}

// SwitchSession switches to an existing session by ID
func (a *Agent) SwitchSession(id string) error {
	session, err := a.memory.GetSession(id)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session not found: %s", id)
	}
	a.sessionID = session.ID
	a.pending = nil
	return nil
}

// SessionID returns the current session ID
func (a *Agent) SessionID() string {
	return a.sessionID
}

// AwaitingDecision reports whether a trade confirmation is pending
func (a *Agent) AwaitingDecision() bool {
	return a.pending != nil
}

// PendingPrompt returns the confirmation prompt of the pending trade, if any
func (a *Agent) PendingPrompt() string {
	if a.pending == nil {
		return ""
	}
	return a.pending.prompt
}

// Chat processes one user message. The reply either carries the final
// assistant text or flags that a trade decision is awaited.
func (a *Agent) Chat(ctx context.Context, userMessage string) (*Reply, error) {
	if a.pending != nil {
		return nil, ErrAwaitingDecision
	}

	if err := a.memory.SaveMessage(a.sessionID, &memory.Message{
		SessionID: a.sessionID,
		Role:      "user",
		Content:   userMessage,
	}); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	messages, err := a.buildMessages(userMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to build messages: %w", err)
	}

	return a.run(ctx, messages)
}

// Resume completes the pending trade with the user's decision and
// continues the conversation loop until a final reply.
func (a *Agent) Resume(ctx context.Context, decision string) (*Reply, error) {
	if a.pending == nil {
		return nil, ErrNoPendingDecision
	}
	pd := a.pending
	a.pending = nil

	result, toolErr := a.registry.Resume(pd.call.Function.Name, pd.args, decision)
	logger.Infof("trade decision %q for %s: %s", decision, pd.call.Function.Name, result)

	if a.toolCallHandler != nil {
		a.toolCallHandler(pd.call.Function.Name, pd.args, result, toolErr)
	}

	messages, err := a.appendToolResult(pd.messages, pd.call, result, toolErr)
	if err != nil {
		return nil, err
	}

	// Sibling calls requested alongside the interrupted one run now and
	// may interrupt again
	interrupted, messages, err := a.runToolCalls(messages, pd.remaining)
	if err != nil {
		return nil, err
	}
	if interrupted != nil {
		return interrupted, nil
	}

	return a.run(ctx, messages)
}

// run drives the model/tool loop until a final text reply or an interrupt
func (a *Agent) run(ctx context.Context, messages []llm.Message) (*Reply, error) {
	llmTools := a.toolSchemas()

	for i := 0; i < MaxToolIterations; i++ {
		var resp *llm.ChatResponse
		var err error

		if a.streamHandler != nil {
			resp, err = a.llm.ChatStream(ctx, messages, llmTools, a.streamHandler)
		} else {
			resp, err = a.llm.Chat(ctx, messages, llmTools)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to call LLM: %w", err)
		}

		// No tool calls, this is the final response
		if len(resp.ToolCalls) == 0 {
			if resp.Content != "" {
				if err := a.memory.SaveMessage(a.sessionID, &memory.Message{
					SessionID: a.sessionID,
					Role:      "assistant",
					Content:   resp.Content,
				}); err != nil {
					return nil, fmt.Errorf("failed to save assistant message: %w", err)
				}
			}
			return &Reply{Content: resp.Content}, nil
		}

		// Record the assistant message that requested the calls
		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		toolCallsJSON, _ := json.Marshal(resp.ToolCalls)
		if err := a.memory.SaveMessage(a.sessionID, &memory.Message{
			SessionID: a.sessionID,
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: string(toolCallsJSON),
		}); err != nil {
			return nil, fmt.Errorf("failed to save assistant tool call message: %w", err)
		}

		interrupted, next, err := a.runToolCalls(messages, resp.ToolCalls)
		if err != nil {
			return nil, err
		}
		if interrupted != nil {
			return interrupted, nil
		}
		messages = next
	}

	logger.Warnf("tool iteration limit reached for session %s", a.sessionID)
	return &Reply{}, nil
}

// runToolCalls executes tool calls in order. When a call interrupts, the
// loop state is parked on the agent and an awaiting-decision reply is
// returned instead of updated messages.
func (a *Agent) runToolCalls(messages []llm.Message, calls []llm.ToolCall) (*Reply, []llm.Message, error) {
	for idx, toolCall := range calls {
		args, result, toolErr := a.executeTool(toolCall)

		var interrupt *tools.Interrupt
		if errors.As(toolErr, &interrupt) {
			a.pending = &pendingDecision{
				call:      toolCall,
				args:      args,
				remaining: append([]llm.ToolCall(nil), calls[idx+1:]...),
				messages:  messages,
				prompt:    interrupt.Prompt,
			}
			logger.Infof("trade confirmation pending in session %s: %s", a.sessionID, interrupt.Prompt)
			return &Reply{
				Content:          interrupt.Prompt,
				AwaitingDecision: true,
				DecisionPrompt:   interrupt.Prompt,
			}, nil, nil
		}

		if a.toolCallHandler != nil {
			a.toolCallHandler(toolCall.Function.Name, args, result, toolErr)
		}

		next, err := a.appendToolResult(messages, toolCall, result, toolErr)
		if err != nil {
			return nil, nil, err
		}
		messages = next
	}
	return nil, messages, nil
}

// executeTool parses the arguments and executes a tool
func (a *Agent) executeTool(toolCall llm.ToolCall) (map[string]any, string, error) {
	var args map[string]any
	if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &args); err != nil {
		return nil, "", fmt.Errorf("failed to parse tool arguments: %w", err)
	}

	result, err := a.registry.Execute(toolCall.Function.Name, args)
	return args, result, err
}

// appendToolResult appends and persists a tool result message
func (a *Agent) appendToolResult(messages []llm.Message, toolCall llm.ToolCall, result string, toolErr error) ([]llm.Message, error) {
	content := result
	if toolErr != nil {
		content = fmt.Sprintf("%s: %v", a.promptConfig.GetErrorPrefix(), toolErr)
	}

	messages = append(messages, llm.Message{
		Role:       "tool",
		Content:    content,
		ToolCallID: toolCall.ID,
	})

	if err := a.memory.SaveMessage(a.sessionID, &memory.Message{
		SessionID:  a.sessionID,
		Role:       "tool",
		Content:    content,
		ToolCallID: toolCall.ID,
	}); err != nil {
		return nil, fmt.Errorf("failed to save tool message: %w", err)
	}

	return messages, nil
}

// toolSchemas converts registry schemas into the LLM tool format
func (a *Agent) toolSchemas() []llm.Tool {
	schemas := a.registry.GetSchemas()
	llmTools := make([]llm.Tool, len(schemas))
	for i, schema := range schemas {
		llmTools[i] = llm.Tool{
			Type: schema.Type,
			Function: llm.ToolFunction{
				Name:        schema.Function.Name,
				Description: schema.Function.Description,
				Parameters:  schema.Function.Parameters,
			},
		}
	}
	return llmTools
}

// buildMessages builds the message list: system prompt, bounded history,
// current user message
func (a *Agent) buildMessages(userMessage string) ([]llm.Message, error) {
	messages := []llm.Message{
		{Role: "system", Content: a.promptConfig.GetSystemPrompt()},
	}

	historyMsgs, err := a.memory.GetMessages(a.sessionID, a.maxContextMsgs)
	if err != nil {
		return nil, fmt.Errorf("failed to get history messages: %w", err)
	}

	for i, msg := range historyMsgs {
		// Skip the just-saved current user message
		if i == len(historyMsgs)-1 && msg.Role == "user" && msg.Content == userMessage {
			continue
		}

		llmMsg := llm.Message{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}

		if msg.ToolCalls != "" {
			var toolCalls []llm.ToolCall
			if err := json.Unmarshal([]byte(msg.ToolCalls), &toolCalls); err == nil {
				llmMsg.ToolCalls = toolCalls
			}
		}

		messages = append(messages, llmMsg)
	}

	messages = append(messages, llm.Message{
		Role:    "user",
		Content: userMessage,
	})

	return messages, nil
}
