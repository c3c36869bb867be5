package qa

import (
	"context"
	"strings"

	"github.com/akelani/classchat/internal/llm"
	"github.com/akelani/classchat/internal/retry"
)

// ChainConfig tunes one orchestrator instance.
type ChainConfig struct {
	Model            string
	Temperature      float64
	BufferMaxSize    int // history buffer capacity
	PromptCharBudget int // citation block budget
}

// DefaultChainConfig matches the deployed defaults.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		Temperature:      0.05,
		BufferMaxSize:    4000,
		PromptCharBudget: DefaultPromptCharBudget,
	}
}

// Chain orchestrates one request/response cycle: embed, retrieve, assemble,
// generate, sanitize. Each call is independent and repeatable; the only
// instance state is the history buffer, so a Chain is intended to serve one
// session at a time.
type Chain struct {
	retriever  *Retriever
	provider   llm.Provider
	exec       *retry.Executor
	history    *HistoryBuffer
	namespaces []string
	cfg        ChainConfig
}

// NewChain creates a Chain scoped to the given catalog namespaces.
func NewChain(retriever *Retriever, provider llm.Provider, exec *retry.Executor, namespaces []string, cfg ChainConfig) *Chain {
	if cfg.BufferMaxSize <= 0 {
		cfg.BufferMaxSize = DefaultChainConfig().BufferMaxSize
	}
	if cfg.PromptCharBudget <= 0 {
		cfg.PromptCharBudget = DefaultPromptCharBudget
	}
	return &Chain{
		retriever:  retriever,
		provider:   provider,
		exec:       exec,
		history:    NewHistoryBuffer(cfg.BufferMaxSize),
		namespaces: namespaces,
		cfg:        cfg,
	}
}

// History exposes the chain's conversation buffer.
func (c *Chain) History() *HistoryBuffer { return c.history }

// Call answers one question. history is the raw prior-conversation text
// supplied by the caller; namespaceFilter scopes retrieval to one course.
// On failure no partial result is returned.
func (c *Chain) Call(ctx context.Context, question, history, namespaceFilter string) (*Result, error) {
	docs, err := c.retriever.Retrieve(ctx, question, c.namespaces, namespaceFilter)
	if err != nil {
		return nil, err
	}

	c.history.Add(history)

	prompt := AssemblePrompt(PromptInput{
		Question:   question,
		Course:     namespaceFilter,
		Catalog:    c.namespaces,
		Documents:  docs,
		History:    history,
		CharBudget: c.cfg.PromptCharBudget,
	})

	var resp *llm.CompletionResponse
	err = c.exec.Do(ctx, func(ctx context.Context) error {
		var cerr error
		resp, cerr = c.provider.Complete(ctx, llm.CompletionRequest{
			Model:       c.cfg.Model,
			Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
			Temperature: c.cfg.Temperature,
		})
		return cerr
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Content == "" {
		return nil, ErrEmptyAnswer
	}

	answer := SanitizeAnswer(resp.Content)

	c.history.Add("Question: " + question)

	return &Result{Answer: answer, Sources: docs}, nil
}

// SanitizeAnswer strips the model's trailing continuation marker: exactly
// one literal " +" at the end of the text, nothing else.
func SanitizeAnswer(s string) string {
	return strings.TrimSuffix(s, " +")
}
