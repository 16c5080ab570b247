// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "EnactmentDate")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "number"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or guess.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// EnactmentDateSchema returns the extraction schema for statute enactment dates.
// The date is extracted from preamble/short-title text where it usually appears
// ("dated the 15th August, 1947", "Gazette of ... Extraordinary, dated ...").
func EnactmentDateSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "EnactmentDate",
		Description: `You are an expert legal archivist. Your task is to find the enactment or
promulgation date of a statute from the text of its opening sections.
Look for gazette references, assent dates, and phrases like "dated the ...".
If no date is stated in the text, return null for the date. Never guess a
date that is not supported by the text.`,
		Fields: []SchemaField{
			{
				Name:        "date",
				Type:        "\"string\" or null",
				Description: "Enactment date in DD-Mon-YYYY form (e.g. 15-Aug-1947), or null if absent",
				Required:    true,
			},
			{
				Name:        "confidence",
				Type:        "number",
				Description: "Extraction certainty from 0.0 to 1.0",
				Required:    true,
			},
			{
				Name:        "rationale",
				Type:        "\"string\"",
				Description: "Short quote or explanation of where the date was found",
				Required:    true,
			},
		},
	}
}
