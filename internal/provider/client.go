package provider

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

// Client is a vendor client bound to one api model id.
type Client interface {
	Provider() contracts.Provider
	ModelID() string
	// Complete runs a single-turn prompt and returns the text reply.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIClient serves every OpenAI-compatible vendor.
type OpenAIClient struct {
	provider  contracts.Provider
	model     string
	maxTokens int
	client    *openai.Client
}

func (c *OpenAIClient) Provider() contracts.Provider { return c.provider }
func (c *OpenAIClient) ModelID() string              { return c.model }

// SDK exposes the underlying go-openai client.
func (c *OpenAIClient) SDK() *openai.Client { return c.client }

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var messages []openai.ChatCompletionMessage
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userPrompt})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", c.provider)
	}
	return resp.Choices[0].Message.Content, nil
}

// GeminiClient wraps the genai SDK for the google provider.
type GeminiClient struct {
	model     string
	maxTokens int
	client    *genai.Client
}

func (c *GeminiClient) Provider() contracts.Provider { return contracts.ProviderGoogle }
func (c *GeminiClient) ModelID() string              { return c.model }

// SDK exposes the underlying genai client.
func (c *GeminiClient) SDK() *genai.Client { return c.client }

func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if c.maxTokens > 0 {
		cfg.MaxOutputTokens = int32(c.maxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("google generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response from google")
	}
	return text, nil
}
