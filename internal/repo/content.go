package repo

import (
	"context"

	"github.com/hatef97/office-supplies-website/internal/models"
)

func (r *GormRepo) ListPages(ctx context.Context) ([]models.PageContent, error) {
	var items []models.PageContent
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetPage(ctx context.Context, id uint) (*models.PageContent, error) {
	var p models.PageContent
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) SavePage(ctx context.Context, p *models.PageContent) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeletePage(ctx context.Context, id uint) error {
	return notFoundIfNone(r.DB.WithContext(ctx).Delete(&models.PageContent{}, id))
}

func (r *GormRepo) ListTeam(ctx context.Context) ([]models.TeamMember, error) {
	var items []models.TeamMember
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetTeamMember(ctx context.Context, id uint) (*models.TeamMember, error) {
	var m models.TeamMember
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormRepo) SaveTeamMember(ctx context.Context, m *models.TeamMember) error {
	return r.DB.WithContext(ctx).Save(m).Error
}

func (r *GormRepo) DeleteTeamMember(ctx context.Context, id uint) error {
	return notFoundIfNone(r.DB.WithContext(ctx).Delete(&models.TeamMember{}, id))
}
