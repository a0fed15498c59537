package analyzer

import "strings"

// SystemPrompt sets the model persona.
const SystemPrompt = "You are a recruiter experienced in analysing CV documents."

// ExtractionPrompt is the fixed instruction sent for every CV. It also serves
// as the retrieval query.
const ExtractionPrompt = `You will be provided with a CV document. Your task is to produce a JSON object describing the analysed document.
The object must have exactly these keys:
'profession' - profession of the candidate found in the document,
'years' - sum of all periods of commercial experience found in the document, as a number,
'summary' - summary of the candidate (up to 3 sentences),
'strongest_skills' - list of the strongest skills found in the document,
'challenges' - list of professional highlights found in the document.

Output:
Provide a single JSON object enclosed in {}. Do not return an array.
Do not add any additional symbols to it, including markdown.
Double check that the output does not contain ` + "```json ```" + ` enclosures.
The output will be parsed directly, so it must be ready for parsing without postprocessing.`

const contextHeader = "Context information from the CV is below.\n---------------------\n"

const contextFooter = "\n---------------------\nGiven the context information and not prior knowledge, answer the query.\nQuery: "

// renderPrompt places the retrieved chunks ahead of the instruction.
func renderPrompt(chunks []string, instruction string) string {
	var b strings.Builder
	b.WriteString(contextHeader)
	b.WriteString(strings.Join(chunks, "\n\n"))
	b.WriteString(contextFooter)
	b.WriteString(instruction)
	b.WriteString("\nAnswer: ")
	return b.String()
}
