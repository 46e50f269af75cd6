// Package analytics derives owner-level usage statistics from the forms
// store. Everything is recomputed from current store state on each call;
// nothing here writes or caches.
package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/formforge/quickform/model"
	"github.com/formforge/quickform/schema"
	"github.com/formforge/quickform/store"
)

const (
	seriesDays = 7
	topLimit   = 5
)

type Aggregator struct {
	store *store.Store
}

func New(s *store.Store) *Aggregator {
	return &Aggregator{store: s}
}

func (a *Aggregator) Compute(ctx context.Context, ownerID string) (model.AnalyticsSnapshot, error) {
	return a.compute(ctx, ownerID, time.Now())
}

func (a *Aggregator) compute(ctx context.Context, ownerID string, now time.Time) (model.AnalyticsSnapshot, error) {
	snap := model.AnalyticsSnapshot{}

	forms, err := a.store.ListForms(ctx, ownerID)
	if err != nil {
		return snap, err
	}

	snap.TotalForms = len(forms)
	for _, f := range forms {
		snap.TotalSubmissions += f.SubmissionsCount
		if f.Published {
			snap.PublishedForms++
		}
	}
	if snap.TotalForms > 0 {
		snap.AvgSubmissionsPerForm = int(math.Round(float64(snap.TotalSubmissions) / float64(snap.TotalForms)))
	}

	// one bucket per calendar day, today included
	seriesStart := dayStart(now).AddDate(0, 0, -(seriesDays - 1))
	times, err := a.store.SubmissionTimes(ctx, ownerID, seriesStart, seriesStart.AddDate(0, 0, seriesDays))
	if err != nil {
		return snap, err
	}
	snap.SubmissionsByDay = dayBuckets(seriesStart, times)
	snap.RecentSubmissionsCount = len(times)

	weekAgo := now.Add(-7 * 24 * time.Hour)
	current, err := a.store.CountSubmissions(ctx, ownerID, weekAgo, now)
	if err != nil {
		return snap, err
	}
	previous, err := a.store.CountSubmissions(ctx, ownerID, now.Add(-14*24*time.Hour), weekAgo)
	if err != nil {
		return snap, err
	}
	snap.GrowthPercentage = Growth(previous, current)

	snap.TopForms = topForms(forms)

	recent, err := a.store.RecentSubmissions(ctx, ownerID, topLimit)
	if err != nil {
		return snap, err
	}
	snap.RecentActivity = make([]model.Activity, len(recent))
	for i, sub := range recent {
		snap.RecentActivity[i] = model.Activity{
			ID:        sub.ID,
			FormUUID:  sub.FormUUID,
			FormTitle: schema.DisplayTitle(sub.FormContent),
			CreatedAt: sub.CreatedAt,
		}
	}

	return snap, nil
}

// Growth is the week-over-week percentage change of submission volume. A
// previous week without submissions yields 100 when anything came in since,
// 0 otherwise.
func Growth(previous, current int) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayBuckets(start time.Time, times []time.Time) []model.DayCount {
	buckets := make([]model.DayCount, seriesDays)
	for i := range buckets {
		buckets[i].Date = start.AddDate(0, 0, i).Format("Jan 2")
	}
	for _, t := range times {
		for i := 0; i < seriesDays; i++ {
			from := start.AddDate(0, 0, i)
			to := start.AddDate(0, 0, i+1)
			if !t.Before(from) && t.Before(to) {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// topForms ranks by the denormalized counter, ties keeping list order
// (newest first), truncated to the display limit.
func topForms(forms []model.Form) []model.TopForm {
	ranked := make([]model.Form, len(forms))
	copy(ranked, forms)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SubmissionsCount > ranked[j].SubmissionsCount
	})
	if len(ranked) > topLimit {
		ranked = ranked[:topLimit]
	}

	top := make([]model.TopForm, len(ranked))
	for i, f := range ranked {
		top[i] = model.TopForm{
			UUID:        f.UUID,
			Title:       schema.DisplayTitle(f.Content),
			Submissions: f.SubmissionsCount,
			Published:   f.Published,
			CreatedAt:   f.CreatedAt,
		}
	}
	return top
}
