// Package generator builds prompts for the oracle and interprets its answers:
// stack validation, script synthesis and the popular stacks list.
package generator

import (
	"fmt"

	"github.com/bcnelson/stackex/internal/domain"
)

const validationTemplate = `Does the following input describe a valid software development tech stack (programming languages, frameworks, databases, tools)?
These can include docker, git, node, sql, postgresql, python, etc.
The input may also contain versions and other details for the stack; accept them.
Answer only "YES" or "NO".
Input: %q`

// ValidationPrompt asks the oracle to classify text as a tech stack.
func ValidationPrompt(stack string) string {
	return fmt.Sprintf(validationTemplate, stack)
}

const scriptTemplate = `Generate an installation script for the following tech stack:
%s

Output only the installation commands, without any explanations.

Strict rules:
- DO NOT wrap the output in markdown code blocks (e.g. ` + "```powershell or ```bash" + `).
- To show the script heading as %s, use comments.
- Use comments only for section headers.
- DO NOT include unnecessary text or explanations.
- Return only raw script content with correct syntax.

Format:
- Output a %s (%s) script.

OS selected: %s.`

// ScriptPrompt asks the oracle for an installation script. The stack text is
// embedded verbatim.
func ScriptPrompt(stack string, os domain.OS) string {
	return fmt.Sprintf(scriptTemplate, stack, os.Dialect(), os.Dialect(), os.ScriptExtension(), os.Label())
}

// PopularPrompt asks for the current popular stacks as a JSON array.
const PopularPrompt = `Give me an array of the top 10 trending and popular tech stacks (coding) for this year in valid JSON format. Only return an array, like ["MERN", "MEAN", "T3", "Jamstack", "Serverless"]. No markdown, no JSON wrapping.`
