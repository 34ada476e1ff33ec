package view

import (
	"github.com/a-h/templ"
)

type card struct {
	Title       string
	Description string
}

var homeFeatures = []card{
	{"Various Languages", "Seamlessly communicate in over various languages with perfect context understanding and cultural awareness."},
	{"Lightning Fast", "Get instant responses with our optimized AI engine that processes multilingual queries in seconds."},
	{"Privacy First", "Your conversations are encrypted and secure. We prioritize your privacy with enterprise-grade security."},
}

var homeSteps = []card{
	{"Sign up", "Create an admin account for your college and verify your work email."},
	{"Connect", "Point EchoBot at your college website, FAQs and course information."},
	{"Go live", "Embed the chat widget and let students ask questions in any language."},
}

var homeLanguages = []string{"English", "Español", "Français", "हिन्दी", "日本語"}

type homeView struct {
	FullName  string
	Features  []card
	Steps     []card
	Languages []string
	Chat      ChatWidget
}

// HomePage renders the marketing page with the demo chat overlay. fullName
// is empty for anonymous visitors.
func HomePage(fullName string, chat ChatWidget) templ.Component {
	return page("home", homeView{
		FullName:  fullName,
		Features:  homeFeatures,
		Steps:     homeSteps,
		Languages: homeLanguages,
		Chat:      chat,
	})
}
