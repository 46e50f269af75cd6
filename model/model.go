package model

import "time"

type Form struct {
	ID               int       `json:"id,omitempty"`
	OwnerID          string    `json:"-"`
	UUID             string    `json:"uuid"`
	Content          string    `json:"content"`
	Published        bool      `json:"published"`
	SubmissionsCount int       `json:"submissions"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Submission struct {
	ID        int            `json:"id"`
	FormID    int            `json:"-"`
	Answers   map[string]any `json:"answers"`
	CreatedAt time.Time      `json:"createdAt"`
}

// DayCount is one calendar-day bucket of the submissions time series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type TopForm struct {
	UUID        string    `json:"id"`
	Title       string    `json:"title"`
	Submissions int       `json:"submissions"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Activity struct {
	ID        int       `json:"id"`
	FormUUID  string    `json:"formId"`
	FormTitle string    `json:"formTitle"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnalyticsSnapshot is recomputed on every request, never persisted.
type AnalyticsSnapshot struct {
	TotalForms             int        `json:"totalForms"`
	PublishedForms         int        `json:"publishedForms"`
	TotalSubmissions       int        `json:"totalSubmissions"`
	AvgSubmissionsPerForm  int        `json:"avgSubmissionsPerForm"`
	SubmissionsByDay       []DayCount `json:"submissionsByDay"`
	RecentSubmissionsCount int        `json:"recentSubmissionsCount"`
	GrowthPercentage       int        `json:"growthPercentage"`
	TopForms               []TopForm  `json:"topForms"`
	RecentActivity         []Activity `json:"recentActivity"`
}
