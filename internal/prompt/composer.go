// Package prompt 负责拼装发送给大模型的系统提示词。
package prompt

import (
	"roleplay-coach-go/internal/catalog"
	"strings"
)

const generalRules = `GENERAL RULES:
- You are ALWAYS the customer; the learner is ALWAYS the du employee.
- Customer replies should be full sentences with proper punctuation.
- Do NOT use commas, asterisks, brackets, or quotation marks in your responses.
- Emphasize words in bold only when required using <strong> tags.
- Ensure Dubai-specific cultural and social etiquette in all responses.
- Conversations must be realistic, professional, and immersive.
- Responses should be concise; avoid long, overly polite or formal statements that don't match the persona's tone.
- Responses must adapt dynamically to the learner's replies; do not repeat the same line or default to pre-set templates.`

const responseRequirements = `RESPONSE REQUIREMENTS:
- Keep responses SHORT (1-3 sentences maximum)
- React specifically to what the du employee just said
- Vary your responses - never repeat the same phrases
- Continue the conversation naturally until your issue is resolved`

// Compose 根据人设与场景生成系统提示词，结果只依赖输入。
func Compose(persona catalog.Persona, scenario catalog.Scenario) string {
	var sb strings.Builder
	sb.WriteString("You are a ")
	sb.WriteString(persona.Name)
	sb.WriteString(" in Dubai contacting du Telecom about: ")
	sb.WriteString(scenario.Description)
	sb.WriteString("\n\n")
	sb.WriteString(generalRules)
	sb.WriteString("\n\nPERSONA BEHAVIOR:\n")
	sb.WriteString(persona.Tone)
	sb.WriteString("\n\n")
	sb.WriteString(responseRequirements)
	return sb.String()
}
