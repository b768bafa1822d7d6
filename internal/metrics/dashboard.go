package metrics

import (
	"time"

	"github.com/tajious/visitdesk/internal/models"
)

// Input is everything the dashboard was able to fetch. Missing lists are nil.
type Input struct {
	Session       *models.Session
	Visits        []models.Visit
	Users         []models.User
	Notifications []models.Notification
}

type Dashboard struct {
	TotalVisits          int            `json:"total_visits"`
	DoctorsVisited       int            `json:"doctors_visited"`
	ActiveUsers          int            `json:"active_users"`
	UpcomingAppointments int            `json:"upcoming_appointments"`
	UnreadNotifications  int            `json:"unread_notifications"`
	ProfileCompletion    int            `json:"profile_completion"`
	VisitsByDay          []DayBucket    `json:"visits_by_day"`
	FollowUpsByDay       []DayBucket    `json:"follow_ups_by_day"`
	VisitsByMonth        []MonthBucket  `json:"visits_by_month"`
	VisitTypes           []TagGroup     `json:"visit_types"`
	UpcomingVisits       []models.Visit `json:"upcoming_visits"`
}

// Summarize builds the dashboard view model. Day buckets use UTC calendar
// days whatever the zone of now.
func Summarize(in Input, now time.Time) Dashboard {
	now = now.UTC()
	d := Dashboard{
		TotalVisits:          len(in.Visits),
		DoctorsVisited:       DoctorsVisited(in.Visits),
		ActiveUsers:          ActiveUsers(in.Users),
		UpcomingAppointments: UpcomingCount(in.Visits, now),
		UnreadNotifications:  UnreadCount(in.Notifications),
		VisitsByDay:          BucketByDay(in.Visits, DefaultWindow, now),
		FollowUpsByDay:       FollowUpsByDay(in.Visits, DefaultWindow, now),
		VisitsByMonth:        BucketByMonth(in.Visits),
		VisitTypes:           VisitTypes(in.Visits),
		UpcomingVisits:       UpcomingVisits(in.Visits, now, UpcomingLimit),
	}
	if in.Session != nil {
		d.ProfileCompletion = CompletionPercentage(in.Session.ProfileFields(), ProfileRequired)
	}
	return d
}
