package refine

import "github.com/Veraticus/promptsmith/internal/model"

// ImageFamily groups image platforms by how they expect prompts to be written.
type ImageFamily string

// Image template families.
const (
	FamilyConversational ImageFamily = "conversational"
	FamilyStructured     ImageFamily = "structured"
)

// Profile describes how to write prompts for one platform.
type Profile struct {
	Name        string
	Guidance    string
	ImageClause string
	Family      ImageFamily
}

const conversationalImageClause = "The user has attached an image. Refer to it as \"the uploaded image\" and " +
	"describe the requested changes relative to it rather than describing a new scene from scratch."

var profiles = map[model.Platform]Profile{
	model.PlatformChatGPT: {
		Name:        "ChatGPT",
		Guidance:    "ChatGPT responds well to a clear role, numbered steps and an explicitly stated output format.",
		ImageClause: conversationalImageClause,
		Family:      FamilyConversational,
	},
	model.PlatformClaude: {
		Name:        "Claude",
		Guidance:    "Claude responds well to XML-style tags separating context, task and output format, and to explicit constraints.",
		ImageClause: conversationalImageClause,
		Family:      FamilyConversational,
	},
	model.PlatformGemini: {
		Name:        "Gemini",
		Guidance:    "Gemini responds well to concise structured instructions with an explicit output format and an example.",
		ImageClause: conversationalImageClause,
		Family:      FamilyConversational,
	},
	model.PlatformPerplexity: {
		Name:        "Perplexity",
		Guidance:    "Perplexity answers from live search: ask a focused question, name the time range and request cited sources.",
		ImageClause: conversationalImageClause,
		Family:      FamilyConversational,
	},
	model.PlatformCopilot: {
		Name:        "Microsoft Copilot",
		Guidance:    "Copilot favors short direct tasks with context about the document, file or tool involved.",
		ImageClause: conversationalImageClause,
		Family:      FamilyConversational,
	},
	model.PlatformGrok: {
		Name:        "Grok",
		Guidance:    "Grok handles an informal tone well; state the goal plainly and ask for a direct answer.",
		ImageClause: conversationalImageClause,
		Family:      FamilyConversational,
	},
	model.PlatformDallE: {
		Name:        "DALL-E",
		Guidance:    "DALL-E renders literal scene descriptions; avoid negations and name any text that must appear in quotes.",
		ImageClause: "The user has uploaded an image to edit. Describe the full desired result and state which parts of the uploaded image stay unchanged.",
		Family:      FamilyConversational,
	},
	model.PlatformMidjourney: {
		Name:        "Midjourney",
		Guidance:    "Midjourney reads comma separated descriptors and trailing parameters such as --ar, --stylize and --v.",
		ImageClause: "The user supplied a reference image. Start the prompt with the placeholder <image-url> so the image can be pasted in, and add --iw 1 to the parameters.",
		Family:      FamilyStructured,
	},
}

// ProfileFor returns the writing profile for p. Unknown platforms get the
// ChatGPT profile.
func ProfileFor(p model.Platform) Profile {
	if profile, ok := profiles[p]; ok {
		return profile
	}
	return profiles[model.PlatformChatGPT]
}

var categoryGuidelines = map[model.CategoryID][]string{
	model.CategoryGrammarSpelling: {
		"Ask for corrections only and say the meaning and tone must not change.",
		"Include the exact text to correct, clearly delimited.",
	},
	model.CategoryImageGeneration: {
		"Name the subject, setting, style, lighting and composition.",
		"State the aspect ratio or format if it matters.",
	},
	model.CategoryCoding: {
		"Name the language, framework and runtime versions.",
		"Describe inputs, outputs and edge cases the code must handle.",
		"State constraints such as dependencies, performance or platform.",
		"Ask for error handling and tests where appropriate.",
		"Say whether explanation is wanted alongside the code.",
	},
	model.CategoryResearchAnalysis: {
		"Define the scope, time period and geography of the question.",
		"Ask for sources or evidence and how recent they must be.",
		"List the criteria for any comparison.",
		"Specify the structure of the answer, such as a summary then details.",
	},
	model.CategoryContentCreation: {
		"Name the audience and the platform the content is for.",
		"Specify tone, voice and approximate length.",
		"List the key points or messages to include.",
		"Say whether a headline, call to action or hashtags are wanted.",
	},
	model.CategoryGeneral: {
		"State the goal behind the question.",
		"Add the context an expert would need to answer well.",
		"Say what form the answer should take.",
	},
}

// Guidelines returns the rewrite guidelines for a category.
func Guidelines(id model.CategoryID) []string {
	if g, ok := categoryGuidelines[id]; ok {
		return g
	}
	return categoryGuidelines[model.CategoryGeneral]
}
