package learning

import "strings"

const directiveHeader = "\n\nPERSONALIZATION (adapt your response based on learned preferences):"

// BuildDirective converts a learned profile into prompt instructions
// for the tutor. Returns "" when there is no profile, not enough
// history, or no strong signal — the caller treats all three the same.
func BuildDirective(profile *Profile) string {
	if profile == nil || profile.TotalLikes < likesBeforeAnalysis {
		return ""
	}

	parts := []string{directiveHeader}

	// Dominant style. Ties resolve by fixed priority:
	// visual > reading_writing > verbal.
	dominant, score := "visual", profile.Visual
	if profile.ReadingWriting > score {
		dominant, score = "reading_writing", profile.ReadingWriting
	}
	if profile.Verbal > score {
		dominant, score = "verbal", profile.Verbal
	}
	if score > 60 {
		switch dominant {
		case "visual":
			parts = append(parts, "- Use VISUAL descriptions and ANALOGIES. Describe things spatially. Paint mental pictures.")
		case "reading_writing":
			parts = append(parts, "- Use STRUCTURED FORMAT with clear definitions. Lists and organized points work well.")
		case "verbal":
			parts = append(parts, "- Use CONVERSATIONAL tone. Explain as if talking to a friend. Less structure, more flow.")
		}
	}

	switch {
	case profile.TheoryVsExample < 35:
		parts = append(parts, "- Start with the CONCEPT/THEORY first, then provide examples to illustrate.")
	case profile.TheoryVsExample > 65:
		parts = append(parts, "- Start with CONCRETE EXAMPLES first, then explain the underlying concept.")
	}

	switch {
	case profile.DetailLevel < 35:
		parts = append(parts, "- Keep responses CONCISE and to-the-point. Avoid unnecessary detail.")
	case profile.DetailLevel > 65:
		parts = append(parts, "- Provide COMPREHENSIVE explanations with full context and background.")
	}

	switch {
	case profile.StructurePreference > 65:
		parts = append(parts, "- Use BULLET POINTS and NUMBERED STEPS. Organize information clearly.")
	case profile.StructurePreference < 35:
		parts = append(parts, "- Use flowing PROSE paragraphs. Avoid excessive bullet points.")
	}

	if len(parts) == 1 {
		return "" // no strong preferences detected
	}
	return strings.Join(parts, "\n")
}
