package testutil

import "github.com/Veraticus/promptsmith/internal/model"

// FixtureCorpus is a small corpus covering every category.
var FixtureCorpus = []model.CorpusEntry{
	{
		Title:    "Fix grammar",
		Content:  "fix the grammar and spelling in my email to the landlord",
		Category: string(model.CategoryGrammarSpelling),
	},
	{
		Title:    "Sunset render",
		Content:  "create a photorealistic image of a sunset over snowy mountains",
		Category: string(model.CategoryImageGeneration),
		Tags:     []string{"landscape"},
	},
	{
		Title:    "Calculator app",
		Content:  "build a calculator app in python with a simple ui",
		Category: string(model.CategoryCoding),
		Tags:     []string{"python"},
	},
	{
		Title:    "Market research",
		Content:  "analyze the market for electric bikes and compare the top brands",
		Category: string(model.CategoryResearchAnalysis),
	},
	{
		Title:    "Launch post",
		Content:  "write a blog post announcing our product launch",
		Category: string(model.CategoryContentCreation),
	},
	{
		Title:    "Dinner ideas",
		Content:  "what should I make for dinner tonight",
		Category: string(model.CategoryGeneral),
	},
}

// FixtureGolden is a golden set with one confirmed example per category.
var FixtureGolden = []model.GoldenExample{
	{Prompt: "can u fix my spelling pls", CorrectCategory: model.CategoryGrammarSpelling},
	{Prompt: "a watercolor fox in a misty forest", CorrectCategory: model.CategoryImageGeneration},
	{Prompt: "why does my go test deadlock", CorrectCategory: model.CategoryCoding},
	{Prompt: "summarize recent studies on sleep and memory", CorrectCategory: model.CategoryResearchAnalysis},
	{Prompt: "draft a newsletter intro for our bakery", CorrectCategory: model.CategoryContentCreation},
	{Prompt: "tell me a fun fact", CorrectCategory: model.CategoryGeneral},
}
