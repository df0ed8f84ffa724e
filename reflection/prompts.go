// Prompt templates for the reflection flows.
//
// The round prompt pins the original topic and forbids drift and
// meta-commentary; the recovery prompt is the stricter, narrower variant
// used after a failed validation.

package reflection

import "fmt"

const roundPromptTemplate = `IMPORTANT: You are improving a response about the following topic. STAY ON TOPIC and maintain context.

ORIGINAL TOPIC: %s

CURRENT RESPONSE TO IMPROVE:
%s

TASK: Improve this response while:
1. MAINTAINING the original topic and context
2. ENHANCING clarity, structure, and usefulness
3. ADDING relevant examples and practical details
4. KEEPING the response focused and well-organized

DO NOT:
- Change the subject matter
- Start analyzing feedback about improving documents
- Go off-topic
- Lose the original context

Provide ONLY the improved response content, not analysis or feedback.`

const recoveryPromptTemplate = `The previous improvement went off-topic. Please provide a focused improvement of this response:

ORIGINAL TOPIC: %s
CURRENT RESPONSE: %s

IMPROVE this response while staying strictly on the topic of %s.
Focus on enhancing clarity, adding examples, and improving structure.`

const reflectionPromptTemplate = `Review the following response and suggest improvements:

%s`

const comparisonPromptTemplate = `Compare these two responses and highlight:
1. What was improved
2. What remained the same
3. Specific changes made

Initial: %s
Improved: %s`

// roundPrompt builds the main improvement prompt for one refinement round.
func roundPrompt(originalPrompt, currentResponse string) string {
	return fmt.Sprintf(roundPromptTemplate, originalPrompt, currentResponse)
}

// recoveryPrompt builds the stricter prompt used for the single recovery attempt.
func recoveryPrompt(originalPrompt, currentResponse string) string {
	return fmt.Sprintf(recoveryPromptTemplate, originalPrompt, currentResponse, originalPrompt)
}

// reflectionPrompt asks the model to critique a previous response.
func reflectionPrompt(response string) string {
	return fmt.Sprintf(reflectionPromptTemplate, response)
}

// comparisonPrompt builds the fixed-template diff request for two responses.
func comparisonPrompt(initial, improved string) string {
	return fmt.Sprintf(comparisonPromptTemplate, initial, improved)
}
