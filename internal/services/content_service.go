package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mahek9015/community-learning-hub/internal/models"
	repo "github.com/mahek9015/community-learning-hub/internal/repository"
)

// ContentService serves the feed and the user-facing content actions
// (save, report, saved list). Saving grants the save reward through the
// credit engine.
type ContentService struct {
	contents repo.Contents
	credits  *CreditService
	audit    repo.AuditLogs
}

func NewContentService(c repo.Contents, cs *CreditService, a repo.AuditLogs) *ContentService {
	return &ContentService{contents: c, credits: cs, audit: a}
}

func (s *ContentService) Feed(ctx context.Context, filter models.ContentFilter, page, pageSize int) (models.Page[models.Content], error) {
	page, pageSize = models.ClampPage(page, pageSize, defaultPageSize)

	items, err := s.contents.List(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return models.Page[models.Content]{}, err
	}
	total, err := s.contents.Count(ctx, filter)
	if err != nil {
		return models.Page[models.Content]{}, err
	}
	return models.NewPage(items, page, pageSize, total), nil
}

func (s *ContentService) Get(ctx context.Context, id string) (models.Content, error) {
	return s.contents.GetByID(ctx, id)
}

// Save puts the content into the user's saved set and grants the save
// reward. The saved-set insert is conditional, and the ledger's uniqueness
// on (user, content, content_save) backstops the grant, so the reward can
// never be paid twice even if the two writes race.
func (s *ContentService) Save(ctx context.Context, userID, contentID string) error {
	if _, err := s.contents.GetByID(ctx, contentID); err != nil {
		return err
	}

	added, err := s.contents.Save(ctx, userID, contentID)
	if err != nil {
		return err
	}
	if !added {
		return models.ErrAlreadySaved
	}

	if _, err := s.credits.EarnForSave(ctx, userID, contentID); err != nil {
		// A duplicate here means the reward was granted by an earlier save
		// whose set insert did not survive; the save itself succeeded.
		if errors.Is(err, models.ErrDuplicateEarn) {
			return nil
		}
		return err
	}
	return nil
}

func (s *ContentService) CountAll(ctx context.Context) (int64, error) {
	return s.contents.Count(ctx, models.ContentFilter{})
}

func (s *ContentService) Saved(ctx context.Context, userID string) ([]models.Content, error) {
	return s.contents.SavedByUser(ctx, userID)
}

func (s *ContentService) Report(ctx context.Context, userID, contentID, reason string) error {
	if reason == "" {
		return errors.New("reason is required")
	}
	return s.contents.Report(ctx, contentID, userID, reason)
}

// ---------------- moderation ----------------

func (s *ContentService) Reported(ctx context.Context, page, pageSize int) (models.Page[models.Content], error) {
	page, pageSize = models.ClampPage(page, pageSize, defaultPageSize)

	items, err := s.contents.Reported(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return models.Page[models.Content]{}, err
	}
	total, err := s.contents.CountReported(ctx)
	if err != nil {
		return models.Page[models.Content]{}, err
	}
	return models.NewPage(items, page, pageSize, total), nil
}

// HandleReport resolves a moderation report: "remove" deletes the content,
// "keep" clears its reports.
func (s *ContentService) HandleReport(ctx context.Context, moderatorID, contentID, action string) error {
	switch action {
	case "remove":
		if err := s.contents.Delete(ctx, contentID); err != nil {
			return err
		}
	case "keep":
		if _, err := s.contents.GetByID(ctx, contentID); err != nil {
			return err
		}
		if err := s.contents.ClearReports(ctx, contentID); err != nil {
			return err
		}
	default:
		return errors.New("invalid action")
	}

	if err := s.audit.Create(ctx, models.AuditLog{
		EntityType: "content",
		EntityID:   &contentID,
		Action:     "report_" + action,
		Details:    map[string]any{"moderator": moderatorID},
	}); err != nil {
		slog.Warn("audit write", "err", err)
	}
	return nil
}
