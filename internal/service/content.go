package service

import (
	"context"
	"strings"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/db"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/transport"
)

// ContentService manages the static page texts and the team roster.
type ContentService struct {
	Repo *repo.GormRepo
}

func (s *ContentService) ListPages(ctx context.Context) ([]models.PageContent, error) {
	items, err := s.Repo.ListPages(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list pages")
	}
	return items, nil
}

func (s *ContentService) GetPage(ctx context.Context, id uint) (*models.PageContent, error) {
	p, err := s.Repo.GetPage(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "PageContent", "get page")
	}
	return p, nil
}

func (s *ContentService) CreatePage(ctx context.Context, req transport.PageContentRequest) (*models.PageContent, error) {
	p := &models.PageContent{PageName: strings.TrimSpace(req.PageName), Content: req.Content}
	if err := s.Repo.SavePage(ctx, p); err != nil {
		return nil, pageWriteError(err)
	}
	return p, nil
}

func (s *ContentService) UpdatePage(ctx context.Context, id uint, req transport.PageContentRequest) (*models.PageContent, error) {
	p, err := s.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}
	p.PageName = strings.TrimSpace(req.PageName)
	p.Content = req.Content
	if err := s.Repo.SavePage(ctx, p); err != nil {
		return nil, pageWriteError(err)
	}
	return p, nil
}

func (s *ContentService) DeletePage(ctx context.Context, id uint) error {
	if err := s.Repo.DeletePage(ctx, id); err != nil {
		return notFoundOr(err, "PageContent", "delete page")
	}
	return nil
}

func pageWriteError(err error) error {
	if db.IsUniqueViolation(err) {
		return apperr.Field("page_name", "page content with this page name already exists.")
	}
	return apperr.Internal(err, "save page")
}

func (s *ContentService) ListTeam(ctx context.Context) ([]models.TeamMember, error) {
	items, err := s.Repo.ListTeam(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list team")
	}
	return items, nil
}

func (s *ContentService) GetTeamMember(ctx context.Context, id uint) (*models.TeamMember, error) {
	m, err := s.Repo.GetTeamMember(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "TeamMember", "get team member")
	}
	return m, nil
}

func (s *ContentService) CreateTeamMember(ctx context.Context, req transport.TeamMemberRequest) (*models.TeamMember, error) {
	m := &models.TeamMember{Name: strings.TrimSpace(req.Name), Role: req.Role, Bio: req.Bio}
	if err := s.Repo.SaveTeamMember(ctx, m); err != nil {
		return nil, apperr.Internal(err, "create team member")
	}
	return m, nil
}

func (s *ContentService) UpdateTeamMember(ctx context.Context, id uint, req transport.TeamMemberRequest) (*models.TeamMember, error) {
	m, err := s.GetTeamMember(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Name = strings.TrimSpace(req.Name)
	m.Role = req.Role
	m.Bio = req.Bio
	if err := s.Repo.SaveTeamMember(ctx, m); err != nil {
		return nil, apperr.Internal(err, "update team member")
	}
	return m, nil
}

func (s *ContentService) DeleteTeamMember(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteTeamMember(ctx, id); err != nil {
		return notFoundOr(err, "TeamMember", "delete team member")
	}
	return nil
}
