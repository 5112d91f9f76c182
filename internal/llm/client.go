// Package llm wraps the OpenAI SDK for chat completions with function
// calling against any OpenAI-compatible endpoint (Groq by default).
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Client LLM client
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// Message message structure
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall tool call structure
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall function call details
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatResponse chat response
type ChatResponse struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// StreamHandler stream response handler
type StreamHandler func(content string)

// Tool tool definition (for Function Calling)
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction tool function definition
type ToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// New creates a new LLM client. baseURL must include the API version
// path, e.g. https://api.groq.com/openai/v1.
func New(apiKey, baseURL, model string, temperature float64, maxTokens int) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(120 * time.Second),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(baseURL, "/")))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Chat sends a chat request
func (c *Client) Chat(ctx context.Context, messages []Message, tools []Tool) (*ChatResponse, error) {
	completion, err := c.api.Chat.Completions.New(ctx, c.buildParams(messages, tools))
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("API returned empty response")
	}

	msg := completion.Choices[0].Message
	return &ChatResponse{
		Content:   msg.Content,
		ToolCalls: fromSDKToolCalls(msg.ToolCalls),
	}, nil
}

// ChatStream sends a streaming chat request. Content deltas are passed to
// the handler as they arrive; the accumulated final message (including any
// tool calls) is returned once the stream ends.
func (c *Client) ChatStream(ctx context.Context, messages []Message, tools []Tool, handler StreamHandler) (*ChatResponse, error) {
	stream := c.api.Chat.Completions.NewStreaming(ctx, c.buildParams(messages, tools))
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" && handler != nil {
			handler(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("streaming chat completion failed: %w", err)
	}

	if len(acc.Choices) == 0 {
		return nil, fmt.Errorf("API returned empty response")
	}

	msg := acc.Choices[0].Message
	return &ChatResponse{
		Content:   msg.Content,
		ToolCalls: fromSDKToolCalls(msg.ToolCalls),
	}, nil
}

// buildParams translates messages and tool schemas into SDK request params
func (c *Client) buildParams(messages []Message, tools []Tool) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    toMessageParams(messages),
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	}

	for _, tool := range tools {
		params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        tool.Function.Name,
				Description: openai.String(tool.Function.Description),
				Parameters:  shared.FunctionParameters(tool.Function.Parameters),
			},
		})
	}

	return params
}

func toMessageParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			params = append(params, openai.SystemMessage(msg.Content))
		case "assistant":
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content.OfString = openai.String(msg.Content)
			}
			for _, tc := range msg.ToolCalls {
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				})
			}
			params = append(params, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case "tool":
			params = append(params, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			params = append(params, openai.UserMessage(msg.Content))
		}
	}
	return params
}

func fromSDKToolCalls(calls []openai.ChatCompletionMessageToolCall) []ToolCall {
	if len(calls) == 0 {
		return nil
	}
	result := make([]ToolCall, 0, len(calls))
	for _, call := range calls {
		result = append(result, ToolCall{
			ID:   call.ID,
			Type: "function",
			Function: FunctionCall{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			},
		})
	}
	return result
}

// ChatWithRetry chat request with retry
func (c *Client) ChatWithRetry(ctx context.Context, messages []Message, tools []Tool, maxRetries int) (*ChatResponse, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		resp, err := c.Chat(ctx, messages, tools)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		// Wait before retry
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	return nil, fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// ChatStreamWithRetry streaming chat request with retry
func (c *Client) ChatStreamWithRetry(ctx context.Context, messages []Message, tools []Tool, handler StreamHandler, maxRetries int) (*ChatResponse, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		resp, err := c.ChatStream(ctx, messages, tools, handler)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		// Wait before retry
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	return nil, fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
