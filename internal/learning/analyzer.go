package learning

import (
	"regexp"
	"unicode/utf8"
)

// Rule-based feature extraction — no model calls. Patterns mirror the
// indicators the scorer aggregates: structure markers are matched per
// line, phrase sets are matched case-insensitively with non-overlapping
// scans so repeated phrases are never double-counted.

var (
	bulletPattern = regexp.MustCompile(`(?m)^[ \t]*[-•*]`)
	stepPattern   = regexp.MustCompile(`(?m)^[ \t]*[0-9]+[.)]`)

	examplePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bfor example\b`),
		regexp.MustCompile(`(?i)\bfor instance\b`),
		regexp.MustCompile(`(?i)\bsuch as\b`),
		regexp.MustCompile(`(?i)\blike when\b`),
		regexp.MustCompile(`(?i)\bimagine\b`),
		regexp.MustCompile(`(?i)\bconsider\b`),
		regexp.MustCompile(`(?i)\blet's say\b`),
		regexp.MustCompile(`(?i)\bsuppose\b`),
	}

	analogyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\blike a\b`),
		regexp.MustCompile(`(?i)\bjust like\b`),
		regexp.MustCompile(`(?i)\bsimilar to\b`),
		regexp.MustCompile(`(?i)\bthink of it as\b`),
		regexp.MustCompile(`(?i)\bimagine a\b`),
		regexp.MustCompile(`(?i)\bpicture\b`),
		regexp.MustCompile(`(?i)\banalog`),
		regexp.MustCompile(`(?i)\bmetaphor`),
	}

	definitionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bis defined as\b`),
		regexp.MustCompile(`(?i)\bmeans that\b`),
		regexp.MustCompile(`(?i)\brefers to\b`),
		regexp.MustCompile(`(?i)\bin other words\b`),
		regexp.MustCompile(`(?i)\bsimply put\b`),
		regexp.MustCompile(`(?i)\bdefinition\b`),
	}
)

// Analyze extracts the learning-style feature vector from raw answer
// text. Deterministic and total: any string, including empty, yields a
// valid vector.
func Analyze(text string) FeatureVector {
	fv := FeatureVector{Length: utf8.RuneCountInString(text)}

	fv.HasBullets = bulletPattern.MatchString(text)

	fv.StepCount = len(stepPattern.FindAllStringIndex(text, -1))
	fv.HasNumberedSteps = fv.StepCount > 0

	for _, p := range examplePatterns {
		fv.ExampleCount += len(p.FindAllStringIndex(text, -1))
	}
	fv.HasExamples = fv.ExampleCount > 0

	fv.HasAnalogies = matchAny(analogyPatterns, text)
	fv.HasDefinitions = matchAny(definitionPatterns, text)

	return fv
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
