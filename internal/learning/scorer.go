package learning

import "math"

// likesBeforeAnalysis is the activation threshold: a fold only runs
// once this many likes are pending, and a profile below this count
// never drives personalization.
const likesBeforeAnalysis = 5

// ScoreBatch aggregates a batch of feature vectors into one style score
// vector. Returns nil on an empty batch. Each score blends a behavioral
// signal with a baseline offset so a user with no signal lands mid-scale
// rather than at zero.
func ScoreBatch(batch []FeatureVector) *Scores {
	n := len(batch)
	if n == 0 {
		return nil
	}

	var bulletN, stepN, exampleN, analogyN, definitionN int
	var totalExamples, totalLength int
	for _, fv := range batch {
		if fv.HasBullets {
			bulletN++
		}
		if fv.HasNumberedSteps {
			stepN++
		}
		if fv.HasExamples {
			exampleN++
		}
		if fv.HasAnalogies {
			analogyN++
		}
		if fv.HasDefinitions {
			definitionN++
		}
		totalExamples += fv.ExampleCount
		totalLength += fv.Length
	}

	nf := float64(n)
	avgLength := float64(totalLength) / nf

	// Verbal reads as the inverse of structure density: heavily
	// structured answers imply a less conversational preference.
	structureDensity := float64(bulletN+stepN) / nf

	return &Scores{
		Visual:              clampScore(float64(analogyN)/nf*100 + 20),
		Verbal:              clampScore((1-structureDensity)*60 + 20),
		ReadingWriting:      clampScore(float64(definitionN)/nf*40 + float64(bulletN)/nf*30 + float64(stepN)/nf*30),
		TheoryVsExample:     clampScore(float64(exampleN)/nf*70 + float64(totalExamples)/math.Max(1, nf)*10),
		DetailLevel:         detailLevel(avgLength),
		StructurePreference: clampScore(float64(bulletN)/nf*50 + float64(stepN)/nf*50),
	}
}

// BlendScores merges a freshly scored batch into existing profile
// scores. Old data gains weight as history accumulates, capped at 0.7,
// so early profiles adapt fast while mature ones resist single-batch
// swings.
func BlendScores(old Scores, oldTotalLikes int, fresh Scores) Scores {
	oldWeight := math.Min(0.7, float64(oldTotalLikes)/50)
	newWeight := 1 - oldWeight

	mix := func(o, n int) int {
		return int(float64(o)*oldWeight + float64(n)*newWeight)
	}

	return Scores{
		Visual:              mix(old.Visual, fresh.Visual),
		Verbal:              mix(old.Verbal, fresh.Verbal),
		ReadingWriting:      mix(old.ReadingWriting, fresh.ReadingWriting),
		TheoryVsExample:     mix(old.TheoryVsExample, fresh.TheoryVsExample),
		DetailLevel:         mix(old.DetailLevel, fresh.DetailLevel),
		StructurePreference: mix(old.StructurePreference, fresh.StructurePreference),
	}
}

// detailLevel quantizes average answer length into preference buckets.
func detailLevel(avgLength float64) int {
	switch {
	case avgLength < 500:
		return 25
	case avgLength < 1000:
		return 50
	case avgLength < 1500:
		return 70
	default:
		return 90
	}
}

// clampScore truncates toward zero, then clamps to [0,100].
func clampScore(v float64) int {
	s := int(v)
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
