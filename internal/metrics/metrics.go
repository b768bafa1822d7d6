// Package metrics turns already-fetched resource lists into dashboard figures.
// Every function is pure and tolerates nil or partially filled input.
package metrics

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tajious/visitdesk/internal/models"
)

const (
	DefaultWindow = 7
	UpcomingLimit = 5

	followUpMarker = "follow-up"
	virtualMarker  = "virtual"
	dateKey        = "2006-01-02"
)

// ProfileRequired are the profile fields counted by the completion widget.
var ProfileRequired = []string{"first_name", "last_name", "email"}

type DayBucket struct {
	Label string `json:"label"`
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type MonthBucket struct {
	Label string `json:"label"`
	Month int    `json:"month"`
	Count int    `json:"count"`
}

// Tag names a group of visits selected by Match.
type Tag struct {
	Name  string
	Match func(models.Visit) bool
}

type TagGroup struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Percent string `json:"percent"`
}

// CountDistinct counts the distinct non-empty keys among visits.
func CountDistinct(visits []models.Visit, key func(models.Visit) string) int {
	if key == nil {
		return 0
	}
	seen := make(map[string]struct{}, len(visits))
	for _, v := range visits {
		if k := key(v); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

func DoctorsVisited(visits []models.Visit) int {
	return CountDistinct(visits, func(v models.Visit) string {
		return strings.TrimSpace(v.DoctorName)
	})
}

// BucketByDay counts visits per UTC calendar day over the window days ending
// with now, oldest first. Days without visits are reported with a zero count and
// visits outside the window or without a date are ignored.
func BucketByDay(visits []models.Visit, window int, now time.Time) []DayBucket {
	return bucketByDay(visits, window, now, nil)
}

// FollowUpsByDay is BucketByDay restricted to visits whose notes mention a
// follow-up.
func FollowUpsByDay(visits []models.Visit, window int, now time.Time) []DayBucket {
	return bucketByDay(visits, window, now, func(v models.Visit) bool {
		return strings.Contains(v.Notes, followUpMarker)
	})
}

func bucketByDay(visits []models.Visit, window int, now time.Time, keep func(models.Visit) bool) []DayBucket {
	if window <= 0 {
		return []DayBucket{}
	}
	now = now.UTC()
	buckets := make([]DayBucket, window)
	index := make(map[string]int, window)
	for i := 0; i < window; i++ {
		day := now.AddDate(0, 0, i-window+1)
		key := day.Format(dateKey)
		buckets[i] = DayBucket{Label: day.Format("Mon"), Date: key}
		index[key] = i
	}
	for _, v := range visits {
		if v.VisitDate.IsZero() || (keep != nil && !keep(v)) {
			continue
		}
		if i, ok := index[v.VisitDate.UTC().Format(dateKey)]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// BucketByMonth is a January to December histogram by month number. The year
// of each visit is not considered.
func BucketByMonth(visits []models.Visit) []MonthBucket {
	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		m := time.Month(i + 1)
		buckets[i] = MonthBucket{Label: m.String()[:3], Month: int(m)}
	}
	for _, v := range visits {
		if v.VisitDate.IsZero() {
			continue
		}
		buckets[v.VisitDate.Month()-1].Count++
	}
	return buckets
}

// SplitByTag counts visits per tag. A visit may match several tags. Percent is
// each count's share of the summed tag counts, rounded half up, or "0%" when
// nothing matched.
func SplitByTag(visits []models.Visit, tags []Tag) []TagGroup {
	groups := make([]TagGroup, len(tags))
	total := 0
	for i, tag := range tags {
		groups[i].Name = tag.Name
		if tag.Match == nil {
			continue
		}
		for _, v := range visits {
			if tag.Match(v) {
				groups[i].Count++
			}
		}
		total += groups[i].Count
	}
	for i := range groups {
		groups[i].Percent = percent(groups[i].Count, total)
	}
	return groups
}

// VisitTypes splits visits into in-person, virtual and cancelled.
func VisitTypes(visits []models.Visit) []TagGroup {
	return SplitByTag(visits, []Tag{
		{Name: "in-person", Match: func(v models.Visit) bool { return !strings.Contains(v.Notes, virtualMarker) }},
		{Name: "virtual", Match: func(v models.Visit) bool { return strings.Contains(v.Notes, virtualMarker) }},
		{Name: "cancelled", Match: func(v models.Visit) bool { return v.Status == models.VisitStatusCancelled }},
	})
}

func percent(n, total int) string {
	if total <= 0 {
		return "0%"
	}
	return strconv.Itoa(roundHalfUp(float64(n)*100/float64(total))) + "%"
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// CompletionPercentage is the rounded share of required fields that hold a
// non-blank value.
func CompletionPercentage(fields map[string]string, required []string) int {
	if len(required) == 0 {
		return 0
	}
	filled := 0
	for _, name := range required {
		if strings.TrimSpace(fields[name]) != "" {
			filled++
		}
	}
	return roundHalfUp(float64(filled) * 100 / float64(len(required)))
}

func UpcomingCount(visits []models.Visit, now time.Time) int {
	n := 0
	for _, v := range visits {
		if v.VisitDate.After(now) {
			n++
		}
	}
	return n
}

// UpcomingVisits returns visits dated after now, soonest first. A limit of
// zero or less returns all of them.
func UpcomingVisits(visits []models.Visit, now time.Time, limit int) []models.Visit {
	upcoming := make([]models.Visit, 0)
	for _, v := range visits {
		if v.VisitDate.After(now) {
			upcoming = append(upcoming, v)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].VisitDate.Before(upcoming[j].VisitDate.Time)
	})
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

func UnreadCount(notifications []models.Notification) int {
	n := 0
	for _, note := range notifications {
		if !note.IsRead {
			n++
		}
	}
	return n
}

func ActiveUsers(users []models.User) int {
	n := 0
	for _, u := range users {
		if u.IsActive {
			n++
		}
	}
	return n
}
