package service

import (
	"errors"
	"strings"

	"github.com/liftlog/liftlog-backend/internal/app/model"
	"github.com/liftlog/liftlog-backend/internal/app/repository"
	"github.com/liftlog/liftlog-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrTemplateNotFound covers both a missing template and a template owned by
// another user; the caller cannot tell the two apart.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateExerciseInput is one exercise of a template create/update request.
type TemplateExerciseInput struct {
	ExerciseName  string  `json:"exercise_name"`
	DefaultWeight float64 `json:"default_weight"`
	DefaultReps   int     `json:"default_reps"`
	DefaultSets   int     `json:"default_sets"`
}

// UpdateTemplateInput carries the optional fields of a template update. A nil
// Exercises leaves the existing list untouched; a non-nil one replaces it
// wholesale with freshly assigned order indices.
type UpdateTemplateInput struct {
	Name      *string
	Exercises *[]TemplateExerciseInput
}

type TemplateService interface {
	List(userID uint) ([]model.Template, error)
	Get(id, userID uint) (*model.Template, error)
	Create(userID uint, name string, exercises []TemplateExerciseInput) (*model.Template, error)
	Update(id, userID uint, input UpdateTemplateInput) (*model.Template, error)
	Delete(id, userID uint) error
}

type templateService struct {
	templateRepo repository.TemplateRepository
}

func NewTemplateService(templateRepo repository.TemplateRepository) TemplateService {
	return &templateService{templateRepo: templateRepo}
}

func (s *templateService) List(userID uint) ([]model.Template, error) {
	return s.templateRepo.FindByUser(userID)
}

func (s *templateService) Get(id, userID uint) (*model.Template, error) {
	template, err := s.templateRepo.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		logger.Error("Failed to fetch template", err, map[string]interface{}{
			"template_id": id,
			"user_id":     userID,
		})
		return nil, err
	}
	return template, nil
}

// Create validates the template name and every exercise before anything is
// written; a single bad exercise rejects the whole template.
func (s *templateService) Create(userID uint, name string, exercises []TemplateExerciseInput) (*model.Template, error) {
	name = strings.TrimSpace(name)

	logger.Info("Creating template", map[string]interface{}{
		"user_id":        userID,
		"name":           name,
		"exercise_count": len(exercises),
	})

	if err := ValidateTemplateName(name); err != nil {
		return nil, err
	}
	if err := ValidateTemplateExercises(exercises); err != nil {
		return nil, err
	}

	template := &model.Template{
		UserID:    userID,
		Name:      name,
		Exercises: buildTemplateExercises(exercises),
	}

	if err := s.templateRepo.Create(template); err != nil {
		return nil, err
	}

	logger.Info("Template created", map[string]interface{}{
		"template_id": template.ID,
		"user_id":     userID,
	})
	return template, nil
}

func (s *templateService) Update(id, userID uint, input UpdateTemplateInput) (*model.Template, error) {
	template, err := s.templateRepo.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		logger.Error("Failed to fetch template for update", err, map[string]interface{}{
			"template_id": id,
			"user_id":     userID,
		})
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := ValidateTemplateName(name); err != nil {
			return nil, err
		}
		template.Name = name
	}

	replaceExercises := input.Exercises != nil
	if replaceExercises {
		if err := ValidateTemplateExercises(*input.Exercises); err != nil {
			return nil, err
		}
		template.Exercises = buildTemplateExercises(*input.Exercises)
	}

	if err := s.templateRepo.Update(template, replaceExercises); err != nil {
		return nil, err
	}

	logger.Info("Template updated", map[string]interface{}{
		"template_id": template.ID,
		"user_id":     userID,
	})
	return s.Get(id, userID)
}

func (s *templateService) Delete(id, userID uint) error {
	template, err := s.templateRepo.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		logger.Error("Failed to fetch template for delete", err, map[string]interface{}{
			"template_id": id,
			"user_id":     userID,
		})
		return err
	}

	if err := s.templateRepo.Delete(template.ID); err != nil {
		return err
	}

	logger.Info("Template deleted", map[string]interface{}{
		"template_id": id,
		"user_id":     userID,
	})
	return nil
}

// buildTemplateExercises assigns dense order indices by list position.
func buildTemplateExercises(inputs []TemplateExerciseInput) []model.TemplateExercise {
	exercises := make([]model.TemplateExercise, 0, len(inputs))
	for i, in := range inputs {
		exercises = append(exercises, model.TemplateExercise{
			ExerciseName:  strings.TrimSpace(in.ExerciseName),
			DefaultWeight: in.DefaultWeight,
			DefaultReps:   in.DefaultReps,
			DefaultSets:   in.DefaultSets,
			OrderIndex:    i,
		})
	}
	return exercises
}
