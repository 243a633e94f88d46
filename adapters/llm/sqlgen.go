package llm

import (
	"context"
	"fmt"
	"strings"

	"chatbi/domain/core"
	"chatbi/domain/source"
	"chatbi/domain/table"
	"chatbi/ports"
)

const sqlSystemPrompt = `You are a SQL generator for a business-intelligence tool.
Given a database schema and a question, answer with a single read-only SELECT
statement and nothing else. Never modify data. Limit results to what the
question needs.`

const analysisSystemPrompt = `You are a data analyst. Given a question, the SQL
that answered it and a sample of the result, write a short analysis in
markdown: key numbers first, then one or two observations. No preamble.`

// sampleRowLimit caps how many rows are inlined into the analysis prompt
const sampleRowLimit = 20

// Generator implements ports.SQLGenerator on top of a chat client
type Generator struct {
	client ports.LLMClient
}

// NewGenerator creates a SQL generator
func NewGenerator(client ports.LLMClient) *Generator {
	return &Generator{client: client}
}

var _ ports.SQLGenerator = (*Generator)(nil)

// GenerateSQL asks the model for a SELECT answering the question over the
// given schema, then strips fences and enforces the read-only contract.
func (g *Generator) GenerateSQL(ctx context.Context, question string, schemas []source.TableSchema) (string, error) {
	prompt := buildSchemaPrompt(question, schemas)
	raw, err := g.client.ChatCompletion(ctx, sqlSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("sql generation failed: %w", err)
	}

	query := ExtractSQL(raw)
	if query == "" {
		return "", fmt.Errorf("%w: model returned no SQL", core.ErrQueryRejected)
	}
	upper := strings.ToUpper(query)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return "", fmt.Errorf("%w: model produced a non-SELECT statement", core.ErrQueryRejected)
	}
	return query, nil
}

// AnalyzeResult asks the model for a short markdown narrative over a result
// sample.
func (g *Generator) AnalyzeResult(ctx context.Context, question, query string, res *table.Result) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\nSQL:\n%s\n\n", question, query)
	fmt.Fprintf(&sb, "Result: %d rows, columns: %s\n", res.RowCount(), strings.Join(res.Columns, ", "))

	limit := len(res.Rows)
	if limit > sampleRowLimit {
		limit = sampleRowLimit
	}
	for _, row := range res.Rows[:limit] {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = fmt.Sprint(row[col])
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
	if res.RowCount() > limit {
		fmt.Fprintf(&sb, "... (%d more rows)\n", res.RowCount()-limit)
	}

	narrative, err := g.client.ChatCompletion(ctx, analysisSystemPrompt, sb.String())
	if err != nil {
		return "", fmt.Errorf("result analysis failed: %w", err)
	}
	return strings.TrimSpace(narrative), nil
}

// ExtractSQL pulls a statement out of a model reply, removing markdown code
// fences and trailing chatter. Models wrap SQL in fences despite the prompt.
func ExtractSQL(reply string) string {
	content := strings.TrimSpace(reply)

	if i := strings.Index(content, "```"); i >= 0 {
		content = content[i+3:]
		// Drop a language tag like "sql" on the fence line
		if j := strings.Index(content, "\n"); j >= 0 {
			first := strings.TrimSpace(content[:j])
			if len(first) <= 10 && !strings.ContainsAny(first, " \t") {
				content = content[j+1:]
			}
		}
		if j := strings.Index(content, "```"); j >= 0 {
			content = content[:j]
		}
	}

	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, ";")
	return strings.TrimSpace(content)
}

func buildSchemaPrompt(question string, schemas []source.TableSchema) string {
	var sb strings.Builder
	sb.WriteString("Schema:\n")
	for _, schema := range schemas {
		fmt.Fprintf(&sb, "TABLE %s (", schema.Name)
		for i, col := range schema.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s %s", col.Name, col.DataType)
			if col.Nullable {
				sb.WriteString(" NULL")
			}
		}
		sb.WriteString(")\n")
	}
	fmt.Fprintf(&sb, "\nQuestion: %s\n", question)
	return sb.String()
}
