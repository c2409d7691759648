package repository

import (
	"github.com/liftlog/liftlog-backend/internal/app/model"
	"github.com/liftlog/liftlog-backend/pkg/logger"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(template *model.Template) error
	FindByIDAndUser(id, userID uint) (*model.Template, error)
	FindByUser(userID uint) ([]model.Template, error)
	Update(template *model.Template, replaceExercises bool) error
	Delete(id uint) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func orderedExercises(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC")
}

// Create inserts the template and its exercises in one transaction.
func (r *templateRepository) Create(template *model.Template) error {
	logger.Debug("Creating template in database", map[string]interface{}{
		"user_id":        template.UserID,
		"name":           template.Name,
		"exercise_count": len(template.Exercises),
	})

	if err := r.db.Create(template).Error; err != nil {
		logger.Error("Failed to create template in database", err, map[string]interface{}{
			"user_id": template.UserID,
			"name":    template.Name,
		})
		return err
	}
	return nil
}

func (r *templateRepository) FindByIDAndUser(id, userID uint) (*model.Template, error) {
	var template model.Template
	err := r.db.Preload("Exercises", orderedExercises).
		Where("id = ? AND user_id = ?", id, userID).
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) FindByUser(userID uint) ([]model.Template, error) {
	var templates []model.Template
	err := r.db.Preload("Exercises", orderedExercises).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&templates).Error
	if err != nil {
		logger.Error("Failed to list templates from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return templates, nil
}

// Update saves the template row and, when replaceExercises is set, swaps the
// whole exercise list for template.Exercises. Parent and children commit
// together or not at all.
func (r *templateRepository) Update(template *model.Template, replaceExercises bool) error {
	logger.Debug("Updating template in database", map[string]interface{}{
		"template_id":       template.ID,
		"replace_exercises": replaceExercises,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Exercises").Save(template).Error; err != nil {
			return err
		}

		if !replaceExercises {
			return nil
		}

		if err := tx.Where("template_id = ?", template.ID).Delete(&model.TemplateExercise{}).Error; err != nil {
			return err
		}
		if len(template.Exercises) == 0 {
			return nil
		}
		for i := range template.Exercises {
			template.Exercises[i].ID = 0
			template.Exercises[i].TemplateID = template.ID
		}
		return tx.Create(&template.Exercises).Error
	})
	if err != nil {
		logger.Error("Failed to update template in database", err, map[string]interface{}{
			"template_id": template.ID,
		})
		return err
	}
	return nil
}

// Delete removes the template and its exercises, and detaches workouts that
// were started from it (template_id set to NULL, the workouts survive).
func (r *templateRepository) Delete(id uint) error {
	logger.Debug("Deleting template from database", map[string]interface{}{
		"template_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Workout{}).Where("template_id = ?", id).
			Update("template_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&model.TemplateExercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Template{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete template from database", err, map[string]interface{}{
			"template_id": id,
		})
		return err
	}
	return nil
}
