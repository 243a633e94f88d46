package ports

import (
	"context"

	"chatbi/domain/source"
	"chatbi/domain/table"
)

// LLMClient is a minimal chat-completion client
type LLMClient interface {
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SQLGenerator turns a natural-language question into SQL and narrates
// analysis results
type SQLGenerator interface {
	GenerateSQL(ctx context.Context, question string, schemas []source.TableSchema) (string, error)
	AnalyzeResult(ctx context.Context, question, query string, res *table.Result) (string, error)
}
