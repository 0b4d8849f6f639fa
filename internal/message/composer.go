package message

import (
	"fmt"
	"strings"

	"couponworker/internal/scraper"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxCoursesPerBatch bounds the rendered message size. Courses beyond
// the bound are dropped from the message only; the caller has already
// recorded them as seen.
const MaxCoursesPerBatch = 10

const (
	frameTemplate = "🎓 *New %s Courses*\n\n%s\n\n🔍 More deals at: real.discount"

	courseTemplate = "\n📚 *%s*\n💰 Original Price: %s\n🏷️ Coupon: %s\n⏰ Expires: %s\n🔗 %s\n"
)

// Batch is one composed notification for a category
type Batch struct {
	Category string
	Courses  []scraper.ResolvedCourse
	Text     string
}

// GroupByCategory splits courses per category, preserving encounter
// order within each group
func GroupByCategory(courses []scraper.ResolvedCourse) map[string][]scraper.ResolvedCourse {
	grouped := make(map[string][]scraper.ResolvedCourse)
	for _, course := range courses {
		grouped[course.Category] = append(grouped[course.Category], course)
	}
	return grouped
}

// Compose renders one notification batch for a category. Pure
// formatting; delivery is the notifier's job.
func Compose(category string, courses []scraper.ResolvedCourse) Batch {
	if len(courses) > MaxCoursesPerBatch {
		courses = courses[:MaxCoursesPerBatch]
	}

	bodies := make([]string, 0, len(courses))
	for _, course := range courses {
		bodies = append(bodies, fmt.Sprintf(courseTemplate,
			course.Title,
			orNA(course.RawPrice),
			orNA(course.AccessCode),
			orNA(course.ExpiryDate),
			course.CanonicalURL,
		))
	}

	return Batch{
		Category: category,
		Courses:  courses,
		Text:     fmt.Sprintf(frameTemplate, displayName(category), strings.Join(bodies, "\n")),
	}
}

var titleCaser = cases.Title(language.English)

// displayName turns a category name into its message heading form
func displayName(category string) string {
	return titleCaser.String(strings.ReplaceAll(category, "_", " "))
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
