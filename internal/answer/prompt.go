package answer

import "fmt"

// systemPrompt sets the analyst role for both backends.
const systemPrompt = `You are an expert financial analyst who quickly extracts insights from a company's financial filings. Answer using only the provided filing context.`

// BuildPrompt creates the user message carrying the document context and the
// question.
func BuildPrompt(question, docContext string) string {
	return fmt.Sprintf(`Using the provided filing context, answer: %s

Context:
%s

Be concise and data-focused. Include specific numbers when available.`, question, docContext)
}
