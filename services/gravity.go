package services

import (
	"math"
	"time"

	"feedback-pulse-server/models"
)

// GravityScore maps sentiment, category and age to a bounded priority:
//
//	age_hours = max(1, floor(hours since createdAt))
//	base      = |sentiment| * 10 / age_hours
//	base     *= 2 when sentiment < 0 and category is Bug
//	score     = min(50, round(base, 2dp))
//
// Urgency decays inversely with age (floored at one hour so brand-new items
// don't blow up the division), negative bug reports weigh double, and the cap
// keeps scores comparable.
func GravityScore(sentiment float64, category string, createdAt, now time.Time) float64 {
	ageHours := math.Floor(now.Sub(createdAt).Hours())
	if ageHours < 1 {
		ageHours = 1
	}

	base := math.Abs(sentiment) * 10 / ageHours
	if sentiment < 0 && category == models.CategoryBug {
		base *= 2
	}

	score := math.Round(base*100) / 100
	if score > 50 {
		score = 50
	}
	return score
}
