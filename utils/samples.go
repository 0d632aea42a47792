package utils

import "math/rand"

// Canned submissions used when an ingest request arrives without text, so the
// pipeline can always be exercised end to end.
var sampleFeedback = []string{
	"The app crashes every time I open the settings page on Android.",
	"Love the new dark mode, would be great to schedule it automatically.",
	"Checkout keeps spinning forever and my order never goes through.",
	"The onboarding flow has too many steps, I almost gave up.",
	"Please add an export to CSV option for the reports screen.",
	"Search results feel irrelevant when I type more than two words.",
	"Fantastic update, everything feels faster now. Thank you!",
	"The password reset email never arrives, tried three times.",
}

// RandomSampleFeedback returns one canned submission.
func RandomSampleFeedback() string {
	return sampleFeedback[rand.Intn(len(sampleFeedback))]
}
