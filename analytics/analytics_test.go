package analytics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/formforge/quickform/database"
	"github.com/formforge/quickform/schema"
	"github.com/formforge/quickform/store"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowth(t *testing.T) {
	assert.Equal(t, 0, Growth(0, 0))
	assert.Equal(t, 100, Growth(0, 5))
	assert.Equal(t, 50, Growth(10, 15))
	assert.Equal(t, -50, Growth(10, 5))
	assert.Equal(t, 200, Growth(5, 15))
	assert.Equal(t, -100, Growth(5, 0))
	assert.Equal(t, 33, Growth(3, 4))
}

func TestDayBuckets(t *testing.T) {
	now := time.Date(2026, time.August, 31, 15, 30, 0, 0, time.Local)
	start := dayStart(now).AddDate(0, 0, -6)

	buckets := dayBuckets(start, []time.Time{
		start.Add(10 * time.Minute),              // first bucket
		start.AddDate(0, 0, 2).Add(23 * time.Hour), // third bucket
		start.AddDate(0, 0, 2).Add(5 * time.Hour),  // third bucket
		now, // today
	})

	require.Len(t, buckets, 7)
	assert.Equal(t, "Aug 25", buckets[0].Date)
	assert.Equal(t, "Aug 31", buckets[6].Date)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 2, buckets[2].Count)
	assert.Equal(t, 1, buckets[6].Count)

	sum := 0
	for _, b := range buckets {
		sum += b.Count
	}
	assert.Equal(t, 4, sum)
}

func testAggregator(t *testing.T) (*Aggregator, *store.Store) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	return New(st), st
}

func testForm(t *testing.T, st *store.Store, owner, title string) (int, string) {
	t.Helper()

	content, err := schema.FormSchema{
		Title: title,
		Fields: []schema.FieldSpec{
			{Label: "Name", Name: "name", Type: schema.TypeText, Required: true},
			{Label: "Email", Name: "email", Type: schema.TypeEmail},
			{Label: "Rating", Name: "rating", Type: schema.TypeRadio, Options: []string{"good", "bad"}},
		},
	}.Serialize()
	require.NoError(t, err)

	id, err := uuid.NewV4()
	require.NoError(t, err)
	form, err := st.CreateForm(context.Background(), owner, id.String(), content)
	require.NoError(t, err)
	return form.ID, form.UUID
}

func TestComputeEmptyOwner(t *testing.T) {
	agg, _ := testAggregator(t)

	snap, err := agg.Compute(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Zero(t, snap.TotalForms)
	assert.Zero(t, snap.TotalSubmissions)
	assert.Zero(t, snap.AvgSubmissionsPerForm)
	assert.Zero(t, snap.GrowthPercentage)
	assert.Len(t, snap.SubmissionsByDay, 7)
	assert.Empty(t, snap.TopForms)
	assert.Empty(t, snap.RecentActivity)
}

func TestComputeScenario(t *testing.T) {
	agg, st := testAggregator(t)
	ctx := context.Background()
	now := time.Now()

	formID, formUUID := testForm(t, st, "alice", "Customer Feedback")
	require.NoError(t, st.Publish(ctx, "alice", formUUID))

	// 3 submissions on 2 distinct days of the current week, none before
	times := []time.Time{
		now.Add(-2 * time.Hour),
		dayStart(now).AddDate(0, 0, -2).Add(10 * time.Hour),
		dayStart(now).AddDate(0, 0, -2).Add(14 * time.Hour),
	}
	for _, at := range times {
		_, err := st.CreateSubmission(ctx, formID, `{"name":"x"}`, at)
		require.NoError(t, err)
	}

	snap, err := agg.compute(ctx, "alice", now)
	require.NoError(t, err)

	assert.Equal(t, 1, snap.TotalForms)
	assert.Equal(t, 1, snap.PublishedForms)
	assert.Equal(t, 3, snap.TotalSubmissions)
	assert.Equal(t, 3, snap.AvgSubmissionsPerForm)
	assert.Equal(t, 100, snap.GrowthPercentage)
	assert.Equal(t, 3, snap.RecentSubmissionsCount)

	require.Len(t, snap.SubmissionsByDay, 7)
	sum := 0
	daysWithActivity := 0
	for _, b := range snap.SubmissionsByDay {
		sum += b.Count
		if b.Count > 0 {
			daysWithActivity++
		}
	}
	assert.Equal(t, snap.RecentSubmissionsCount, sum)
	assert.Equal(t, 2, daysWithActivity)

	require.Len(t, snap.TopForms, 1)
	assert.Equal(t, "Customer Feedback", snap.TopForms[0].Title)
	assert.Equal(t, 3, snap.TopForms[0].Submissions)
	assert.Equal(t, formUUID, snap.TopForms[0].UUID)

	require.Len(t, snap.RecentActivity, 3)
	assert.Equal(t, "Customer Feedback", snap.RecentActivity[0].FormTitle)
	assert.Equal(t, formUUID, snap.RecentActivity[0].FormUUID)
}

func TestComputeNegativeGrowth(t *testing.T) {
	agg, st := testAggregator(t)
	ctx := context.Background()
	now := time.Now()

	formID, _ := testForm(t, st, "alice", "Waning Form")

	for i := 0; i < 10; i++ {
		_, err := st.CreateSubmission(ctx, formID, `{}`, now.Add(-8*24*time.Hour))
		require.NoError(t, err)
	}
	for i := 0; i < 5; i++ {
		_, err := st.CreateSubmission(ctx, formID, `{}`, now.Add(-2*24*time.Hour))
		require.NoError(t, err)
	}

	snap, err := agg.compute(ctx, "alice", now)
	require.NoError(t, err)
	assert.Equal(t, -50, snap.GrowthPercentage)
}

func TestComputeTopForms(t *testing.T) {
	agg, st := testAggregator(t)
	ctx := context.Background()
	now := time.Now()

	var uuids []string
	for i := 0; i < 7; i++ {
		formID, formUUID := testForm(t, st, "alice", "Form")
		uuids = append(uuids, formUUID)
		for j := 0; j < i; j++ {
			_, err := st.CreateSubmission(ctx, formID, `{}`, now.Add(-20*24*time.Hour))
			require.NoError(t, err)
		}
	}
	// somebody else's busy form must not rank
	otherID, _ := testForm(t, st, "bob", "Bob's Form")
	for j := 0; j < 100; j++ {
		_, err := st.CreateSubmission(ctx, otherID, `{}`, now)
		require.NoError(t, err)
	}

	snap, err := agg.compute(ctx, "alice", now)
	require.NoError(t, err)

	require.Len(t, snap.TopForms, 5)
	assert.Equal(t, 6, snap.TopForms[0].Submissions)
	for i := 1; i < len(snap.TopForms); i++ {
		assert.GreaterOrEqual(t, snap.TopForms[i-1].Submissions, snap.TopForms[i].Submissions)
	}
	for _, top := range snap.TopForms {
		assert.Contains(t, uuids, top.UUID)
	}
}

func TestComputeTopFormsStableTies(t *testing.T) {
	agg, st := testAggregator(t)
	ctx := context.Background()

	_, first := testForm(t, st, "alice", "First")
	_, second := testForm(t, st, "alice", "Second")

	snap, err := agg.Compute(ctx, "alice")
	require.NoError(t, err)

	// both have zero submissions: listing order (newest first) is kept
	require.Len(t, snap.TopForms, 2)
	assert.Equal(t, second, snap.TopForms[0].UUID)
	assert.Equal(t, first, snap.TopForms[1].UUID)
}
