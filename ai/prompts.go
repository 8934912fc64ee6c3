package ai

import "fmt"

// extractionPromptTemplate constrains the model to the TOON dialect:
// unindented section lines ending in ":", indented "key: value" pairs.
// One worked example plus an explicit omit-unknowns directive keeps
// small local models from drifting into prose.
const extractionPromptTemplate = `Extract hardware specifications for "%s" from this text.

Text:
%s

Return specs in TOON format (indentation-based, like YAML). Example:
cpu:
  model: Intel Core i5-8500
  cores: 6
  threads: 6
  tdp_watts: 65
ram:
  type: DDR4
  max_supported: 64GB
motherboard:
  chipset: Intel Q370

Only include fields you find. Return ONLY the TOON data, no explanation.`

// BuildExtractionPrompt renders the extraction instruction for a model
// name and a free-form source text excerpt.
func BuildExtractionPrompt(model, sourceText string) string {
	return fmt.Sprintf(extractionPromptTemplate, model, sourceText)
}
