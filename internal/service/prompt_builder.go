package service

import "strings"

// AIGenerationDTO carries the item facts the caller wants turned into
// listing copy.
type AIGenerationDTO struct {
	ItemName       string `json:"item_name" binding:"required"`
	Category       string `json:"category" binding:"required"`
	Condition      string `json:"condition"`
	Specifications string `json:"specifications"`
	AdditionalInfo string `json:"additional_info"`
}

// BuildTitlePrompt assembles the model prompt for title generation.
func BuildTitlePrompt(req AIGenerationDTO) string {
	var b strings.Builder

	b.WriteString("You are an AI assistant helping college students list items for borrowing on a peer-to-peer sharing platform.\n\n")
	b.WriteString("Generate a concise, attention-grabbing title for the following item:\n")
	b.WriteString("- Item Name: " + req.ItemName + "\n")
	b.WriteString("- Category: " + req.Category + "\n")
	if req.AdditionalInfo != "" {
		b.WriteString("- Additional Info: " + req.AdditionalInfo + "\n")
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString("- Length: 3-200 characters\n")
	b.WriteString("- Be specific and descriptive\n")
	b.WriteString("- Include key identifying features\n")
	b.WriteString("- Use clear, professional language\n")
	b.WriteString("- Target audience: college students\n")

	if instructions := categoryInstructions(req.Category); instructions != "" {
		b.WriteString("\nCategory-specific guidelines:\n")
		b.WriteString(instructions)
	}

	b.WriteString("\nGenerate only the title, no additional text.")
	return b.String()
}

// BuildDescriptionPrompt assembles the model prompt for description
// generation.
func BuildDescriptionPrompt(req AIGenerationDTO) string {
	var b strings.Builder

	b.WriteString("You are an AI assistant helping college students list items for borrowing on a peer-to-peer sharing platform.\n\n")
	b.WriteString("Generate a compelling description for the following item:\n")
	b.WriteString("- Item Name: " + req.ItemName + "\n")
	b.WriteString("- Category: " + req.Category + "\n")
	if req.Condition != "" {
		b.WriteString("- Condition: " + req.Condition + "\n")
	}
	if req.Specifications != "" {
		b.WriteString("- Specifications: " + req.Specifications + "\n")
	}
	if req.AdditionalInfo != "" {
		b.WriteString("- Additional Info: " + req.AdditionalInfo + "\n")
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString("- Length: 50-1000 characters\n")
	b.WriteString("- Highlight key features and benefits for borrowers\n")
	b.WriteString("- Mention condition and any important details\n")
	b.WriteString("- Use friendly, informative tone\n")
	b.WriteString("- Structure with clear sentences\n")
	b.WriteString("- Target audience: college students\n")

	if instructions := categoryInstructions(req.Category); instructions != "" {
		b.WriteString("\nCategory-specific guidelines:\n")
		b.WriteString(instructions)
	}

	b.WriteString("\nGenerate only the description, no additional text.")
	return b.String()
}

func categoryInstructions(category string) string {
	switch strings.ToLower(category) {
	case "electronics":
		return "- Emphasize technical specifications (model, features, capacity)\n" +
			"- Mention condition clearly (new, like-new, good, fair)\n" +
			"- Highlight any accessories included"
	case "books":
		return "- Mention subject matter and topic\n" +
			"- Include edition information if relevant\n" +
			"- Note condition (highlighting, annotations, wear)"
	case "sports equipment":
		return "- Describe usage scenarios and activities\n" +
			"- Mention size/fit information\n" +
			"- Note condition and any wear"
	case "tools":
		return "- Describe functionality and applications\n" +
			"- Mention brand and model if relevant\n" +
			"- Note condition and completeness"
	case "musical instruments":
		return "- Specify instrument type and brand\n" +
			"- Mention skill level suitability\n" +
			"- Note condition and any accessories"
	case "accessories":
		return "- Describe compatibility and use cases\n" +
			"- Mention brand and model\n" +
			"- Note condition and completeness"
	case "other":
		return "- Be descriptive about the item's purpose\n" +
			"- Highlight unique features\n" +
			"- Mention condition clearly"
	default:
		return ""
	}
}
