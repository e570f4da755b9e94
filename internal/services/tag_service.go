package services

import (
	"leadtrack/internal/models"
	"leadtrack/internal/repositories"
	"leadtrack/internal/services/dto"

	"leadtrack/pkg/apperrors"
)

type TagService interface {
	List() ([]dto.TagResponse, error)
	Create(callerID string, req *dto.CreateTagRequest) (*dto.TagResponse, error)
}

type TagServiceImpl struct {
	tagRepo repositories.TagRepository
}

func NewTagService(tagRepo repositories.TagRepository) TagService {
	return &TagServiceImpl{
		tagRepo: tagRepo,
	}
}

func (s *TagServiceImpl) List() ([]dto.TagResponse, error) {
	tags, err := s.tagRepo.FindAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, dto.TagResponse{
			ID:    tag.ID,
			Name:  tag.Name,
			Color: tag.Color,
		})
	}
	return responses, nil
}

func (s *TagServiceImpl) Create(callerID string, req *dto.CreateTagRequest) (*dto.TagResponse, error) {
	color := req.Color
	if color == "" {
		color = models.TagDefaultColor
	}

	tag := &models.Tag{
		Name:      req.Name,
		Color:     color,
		CreatedBy: callerID,
	}

	if err := s.tagRepo.Create(tag); err != nil {
		if apperrors.Is(err, repositories.ErrTagAlreadyExists) {
			return nil, apperrors.NewConflictError("tags", "Tag already exists")
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
	}, nil
}
