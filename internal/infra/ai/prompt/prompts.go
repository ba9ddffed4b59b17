package prompt

import (
	"fmt"
	"strings"
)

// maxContentChars bounds the content embedded into a prompt.
const maxContentChars = 12000

// FactCheckSystem provides strict directions and schema for the verdict call.
func FactCheckSystem() string {
	return `You are a careful fact-checking analyst. Respond with one valid JSON object only (no markdown, no code fences).

Classify the content with exactly one verdict:
- CREDIBLE: consistent with established facts and reputable sources
- POTENTIALLY_MISLEADING: partly true, missing context, exaggerated or unverified
- HIGH_MISINFORMATION_RISK: contradicts established facts or spreads known falsehoods
- SCAM_ALERT: tries to extract money, credentials or personal data by deception

Schema:
{"verdict": "<CREDIBLE|POTENTIALLY_MISLEADING|HIGH_MISINFORMATION_RISK|SCAM_ALERT>", "explanation": "<2-4 sentences>"}`
}

// FactCheckUser embeds the content and asks for the explanation in language.
func FactCheckUser(content, language string) string {
	return fmt.Sprintf("Write the explanation in language %q.\n\nContent:\n%s", language, Clip(content))
}

func MisinformationSystem() string {
	return `You are an expert in misinformation and manipulation techniques. Respond with one JSON object only.

Schema:
{
  "isLikelyMisinformation": <bool>,
  "confidenceScore": <number 0..1>,
  "riskLevel": "<LOW|MEDIUM|HIGH|CRITICAL>",
  "patterns": ["<pattern, e.g. false urgency, fabricated quote>"],
  "techniques": ["<technique, e.g. emotional manipulation, cherry picking>"],
  "explanation": "<short explanation>"
}`
}

func CategorizeSystem() string {
	return `You categorize content. Respond with one JSON object only.

primaryCategory must be one of: NEWS, POLITICS, HEALTH, SCIENCE, TECHNOLOGY, ENTERTAINMENT, SPORTS, BUSINESS, EDUCATION, OPINION, SOCIAL_MEDIA, OTHER.

Schema:
{"primaryCategory": "<CATEGORY>", "subCategories": ["<string>"], "confidence": <number 0..1>, "tags": ["<string>"]}`
}

func TopicsSystem() string {
	return `You extract the main topics of content. Respond with one JSON object only, at most 3 topics.

Schema:
{"topics": [{"topic": "<string>", "relevance": <number 0..1>, "subtopics": ["<string>"], "keywords": ["<string>"]}]}`
}

func EntitiesSystem() string {
	return `You are a named-entity extractor. Respond with one JSON object only.
type is one of PERSON, ORGANIZATION, LOCATION, EVENT, WORK_OF_ART, CONSUMER_GOOD, OTHER. salience is 0..1 and all saliences sum to at most 1.

Schema:
{"entities": [{"name": "<string>", "type": "<TYPE>", "salience": <number>}]}`
}

func SentimentSystem() string {
	return `You are a sentiment analyzer. Respond with one JSON object only.
score is in -1..1 (negative to positive). magnitude is >= 0 and grows with the amount of emotional content. language is the ISO 639-1 code of the text.

Schema:
{"score": <number>, "magnitude": <number>, "language": "<code>"}`
}

func TranslateSystem() string {
	return `You are a professional translator. Translate faithfully, keep names and numbers unchanged. Respond with one JSON object only.

Schema:
{"translatedText": "<string>"}`
}

func TranslateUser(text, source, target string) string {
	src := source
	if src == "" {
		src = "auto-detect"
	}
	return fmt.Sprintf("Source language: %s\nTarget language: %s\n\nText:\n%s", src, target, Clip(text))
}

func DetectLanguageSystem() string {
	return `Identify the language of the text. Respond with one JSON object only.

Schema:
{"detectedLanguage": "<ISO 639-1 code>"}`
}

func ImageSystem() string {
	return `You analyze images shared on social media for misinformation and scams. Respond with one JSON object only.

Schema:
{
  "extractedText": "<all legible text in the image, empty if none>",
  "labels": ["<object or scene label>"],
  "riskLevel": "<LOW|MEDIUM|HIGH|VERY_HIGH>",
  "indicators": ["<why the image may be misleading>"]
}`
}

func ManipulationSystem() string {
	return `You are an image forensics assistant. Judge whether the image was digitally manipulated or synthetically generated. Respond with one JSON object only.

Schema:
{"manipulationLikelihood": "<LOW|MEDIUM|HIGH>", "signals": ["<observed artefact>"]}`
}

// Content wraps plain content for the single-input prompts.
func Content(content, language string) string {
	return fmt.Sprintf("Language: %s\n\nContent:\n%s", language, Clip(content))
}

// Clip truncates on a rune boundary.
func Clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxContentChars {
		return s
	}
	cut := maxContentChars
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
