package gemini

import (
	"fmt"
	"iter"
	"slices"
)

// HarmCategory values are the API's constants, so they encode and decode as-is.
type HarmCategory string

const (
	HarmCategoryUnspecified      HarmCategory = "HARM_CATEGORY_UNSPECIFIED"
	HarmCategoryDerogatory       HarmCategory = "HARM_CATEGORY_DEROGATORY"
	HarmCategoryToxicity         HarmCategory = "HARM_CATEGORY_TOXICITY"
	HarmCategoryViolence         HarmCategory = "HARM_CATEGORY_VIOLENCE"
	HarmCategorySexual           HarmCategory = "HARM_CATEGORY_SEXUAL"
	HarmCategoryMedical          HarmCategory = "HARM_CATEGORY_MEDICAL"
	HarmCategoryDangerous        HarmCategory = "HARM_CATEGORY_DANGEROUS"
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmCategoryCivicIntegrity   HarmCategory = "HARM_CATEGORY_CIVIC_INTEGRITY"
)

var harmCategories = []HarmCategory{
	HarmCategoryUnspecified,
	HarmCategoryDerogatory,
	HarmCategoryToxicity,
	HarmCategoryViolence,
	HarmCategorySexual,
	HarmCategoryMedical,
	HarmCategoryDangerous,
	HarmCategoryHarassment,
	HarmCategoryHateSpeech,
	HarmCategorySexuallyExplicit,
	HarmCategoryDangerousContent,
	HarmCategoryCivicIntegrity,
}

// Valid reports whether c is one of the known categories.
func (c HarmCategory) Valid() bool {
	return slices.Contains(harmCategories, c)
}

func ParseHarmCategory(s string) (HarmCategory, error) {
	return parseEnum(harmCategories, s)
}

type HarmBlockThreshold string

const (
	HarmBlockThresholdUnspecified HarmBlockThreshold = "HARM_BLOCK_THRESHOLD_UNSPECIFIED"
	BlockLowAndAbove              HarmBlockThreshold = "BLOCK_LOW_AND_ABOVE"
	BlockMediumAndAbove           HarmBlockThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	BlockOnlyHigh                 HarmBlockThreshold = "BLOCK_ONLY_HIGH"
	BlockNone                     HarmBlockThreshold = "BLOCK_NONE"
	BlockOff                      HarmBlockThreshold = "OFF"
)

var harmBlockThresholds = []HarmBlockThreshold{
	HarmBlockThresholdUnspecified,
	BlockLowAndAbove,
	BlockMediumAndAbove,
	BlockOnlyHigh,
	BlockNone,
	BlockOff,
}

func (t HarmBlockThreshold) Valid() bool {
	return slices.Contains(harmBlockThresholds, t)
}

func ParseHarmBlockThreshold(s string) (HarmBlockThreshold, error) {
	return parseEnum(harmBlockThresholds, s)
}

type HarmProbability string

const (
	// HarmProbabilityNotApplicable marks a category the API did not rate.
	HarmProbabilityNotApplicable HarmProbability = ""
	HarmProbabilityUnspecified   HarmProbability = "HARM_PROBABILITY_UNSPECIFIED"
	HarmProbabilityNegligible    HarmProbability = "NEGLIGIBLE"
	HarmProbabilityLow           HarmProbability = "LOW"
	HarmProbabilityMedium        HarmProbability = "MEDIUM"
	HarmProbabilityHigh          HarmProbability = "HIGH"
)

var harmProbabilities = []HarmProbability{
	HarmProbabilityUnspecified,
	HarmProbabilityNegligible,
	HarmProbabilityLow,
	HarmProbabilityMedium,
	HarmProbabilityHigh,
}

func (p HarmProbability) Valid() bool {
	return slices.Contains(harmProbabilities, p)
}

func ParseHarmProbability(s string) (HarmProbability, error) {
	return parseEnum(harmProbabilities, s)
}

type SafetySetting struct {
	Category  HarmCategory       `json:"category"`
	Threshold HarmBlockThreshold `json:"threshold"`
}

// SafetyProfile holds a threshold for each category the API lets callers adjust.
type SafetyProfile struct {
	Harassment       HarmBlockThreshold
	HateSpeech       HarmBlockThreshold
	SexuallyExplicit HarmBlockThreshold
	DangerousContent HarmBlockThreshold
	CivicIntegrity   HarmBlockThreshold
}

// All yields category and threshold pairs in a fixed order.
func (p SafetyProfile) All() iter.Seq2[HarmCategory, HarmBlockThreshold] {
	return func(yield func(HarmCategory, HarmBlockThreshold) bool) {
		_ = yield(HarmCategoryHarassment, p.Harassment) &&
			yield(HarmCategoryHateSpeech, p.HateSpeech) &&
			yield(HarmCategorySexuallyExplicit, p.SexuallyExplicit) &&
			yield(HarmCategoryDangerousContent, p.DangerousContent) &&
			yield(HarmCategoryCivicIntegrity, p.CivicIntegrity)
	}
}

// Settings converts the profile into the request form. Unset thresholds are skipped.
func (p SafetyProfile) Settings() []SafetySetting {
	settings := make([]SafetySetting, 0, 5)
	for category, threshold := range p.All() {
		if threshold == "" {
			continue
		}
		settings = append(settings, SafetySetting{Category: category, Threshold: threshold})
	}
	return settings
}

// SafetySettingsFrom applies one threshold to every adjustable category.
func SafetySettingsFrom(threshold HarmBlockThreshold) []SafetySetting {
	return SafetyProfile{
		Harassment:       threshold,
		HateSpeech:       threshold,
		SexuallyExplicit: threshold,
		DangerousContent: threshold,
		CivicIntegrity:   threshold,
	}.Settings()
}

func DefaultSafetySettings() []SafetySetting {
	return SafetySettingsFrom(BlockLowAndAbove)
}

func CustomSafetySettings(harassment, hateSpeech, sexuallyExplicit, dangerousContent, civicIntegrity HarmBlockThreshold) []SafetySetting {
	return SafetyProfile{
		Harassment:       harassment,
		HateSpeech:       hateSpeech,
		SexuallyExplicit: sexuallyExplicit,
		DangerousContent: dangerousContent,
		CivicIntegrity:   civicIntegrity,
	}.Settings()
}

// HarmProbabilities is the per-category view of a list of safety ratings.
type HarmProbabilities struct {
	Harassment       HarmProbability
	HateSpeech       HarmProbability
	SexuallyExplicit HarmProbability
	DangerousContent HarmProbability
	CivicIntegrity   HarmProbability
}

// ProbabilitiesFrom picks the adjustable categories out of ratings. Categories
// without a rating stay HarmProbabilityNotApplicable.
func ProbabilitiesFrom(ratings []SafetyRating) HarmProbabilities {
	var p HarmProbabilities
	for _, r := range ratings {
		switch r.Category {
		case HarmCategoryHarassment:
			p.Harassment = r.Probability
		case HarmCategoryHateSpeech:
			p.HateSpeech = r.Probability
		case HarmCategorySexuallyExplicit:
			p.SexuallyExplicit = r.Probability
		case HarmCategoryDangerousContent:
			p.DangerousContent = r.Probability
		case HarmCategoryCivicIntegrity:
			p.CivicIntegrity = r.Probability
		}
	}
	return p
}

func (p HarmProbabilities) All() iter.Seq2[HarmCategory, HarmProbability] {
	return func(yield func(HarmCategory, HarmProbability) bool) {
		_ = yield(HarmCategoryHarassment, p.Harassment) &&
			yield(HarmCategoryHateSpeech, p.HateSpeech) &&
			yield(HarmCategorySexuallyExplicit, p.SexuallyExplicit) &&
			yield(HarmCategoryDangerousContent, p.DangerousContent) &&
			yield(HarmCategoryCivicIntegrity, p.CivicIntegrity)
	}
}

func parseEnum[T ~string](list []T, s string) (T, error) {
	v := T(s)
	if !slices.Contains(list, v) {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrInvalidEnum, s)
	}
	return v, nil
}
