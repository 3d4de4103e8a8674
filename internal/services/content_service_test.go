package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahek9015/community-learning-hub/internal/models"
)

func newContentSvc(f *fixture) *ContentService {
	return NewContentService(f.repos.Contents, f.credits, f.repos.AuditLogs)
}

func TestSaveGrantsRewardOnce(t *testing.T) {
	f := newFixture(t)
	svc := newContentSvc(f)
	ctx := context.Background()
	c := f.addContent(t, false, 0)

	require.NoError(t, svc.Save(ctx, f.user.ID, c.ID))

	bal, _ := f.credits.Balance(ctx, f.user.ID)
	assert.Equal(t, RewardSave, bal)

	saved, err := svc.Saved(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, c.ID, saved[0].ID)

	// second save: rejected, no second reward
	err = svc.Save(ctx, f.user.ID, c.ID)
	assert.ErrorIs(t, err, models.ErrAlreadySaved)
	bal, _ = f.credits.Balance(ctx, f.user.ID)
	assert.Equal(t, RewardSave, bal)
}

func TestSaveUnknownContent(t *testing.T) {
	f := newFixture(t)
	svc := newContentSvc(f)
	err := svc.Save(context.Background(), f.user.ID, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFeedPaginationAndFilter(t *testing.T) {
	f := newFixture(t)
	svc := newContentSvc(f)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		f.addContent(t, false, 0)
	}

	p, err := svc.Feed(ctx, models.ContentFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, p.Items, 10)
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, int64(12), p.TotalItems)

	p, err = svc.Feed(ctx, models.ContentFilter{Category: "business"}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.Equal(t, int64(0), p.TotalItems)
}

func TestReportAndModeration(t *testing.T) {
	f := newFixture(t)
	svc := newContentSvc(f)
	ctx := context.Background()
	c := f.addContent(t, false, 0)

	require.NoError(t, svc.Report(ctx, f.user.ID, c.ID, "spam"))

	p, err := svc.Reported(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, c.ID, p.Items[0].ID)
	assert.Equal(t, 1, p.Items[0].ReportCount)

	// keep clears the reports
	require.NoError(t, svc.HandleReport(ctx, "mod-1", c.ID, "keep"))
	p, err = svc.Reported(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, p.Items)

	// remove deletes the content
	require.NoError(t, svc.Report(ctx, f.user.ID, c.ID, "still spam"))
	require.NoError(t, svc.HandleReport(ctx, "mod-1", c.ID, "remove"))
	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = svc.HandleReport(ctx, "mod-1", c.ID, "noop")
	assert.Error(t, err)
}

func TestReportRequiresReason(t *testing.T) {
	f := newFixture(t)
	svc := newContentSvc(f)
	c := f.addContent(t, false, 0)

	err := svc.Report(context.Background(), f.user.ID, c.ID, "")
	assert.Error(t, err)
}
