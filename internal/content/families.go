package content

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
	"github.com/each4all/shinchon-saessaks-sub000/internal/workflow"
	"github.com/each4all/shinchon-saessaks-sub000/pkg/metrics"
)

// Type aliases for the five family repositories, so callers don't spell
// out the generic instantiation.
type (
	ClassPostRepository         = Repository[models.ClassPost, *models.ClassPost]
	ClassScheduleRepository     = Repository[models.ClassSchedule, *models.ClassSchedule]
	MealPlanRepository          = Repository[models.MealPlan, *models.MealPlan]
	NutritionBulletinRepository = Repository[models.NutritionBulletin, *models.NutritionBulletin]
	ParentEdPostRepository      = Repository[models.ParentEdPost, *models.ParentEdPost]
)

// Repositories bundles the five families for wiring into the router and
// the import command.
type Repositories struct {
	ClassPosts    *ClassPostRepository
	Schedules     *ClassScheduleRepository
	MealPlans     *MealPlanRepository
	Bulletins     *NutritionBulletinRepository
	ParentEdPosts *ParentEdPostRepository
}

func NewRepositories(db *gorm.DB, logger *zap.Logger, mc *metrics.MetricsCollector) *Repositories {
	return &Repositories{
		ClassPosts:    NewClassPostRepository(db, logger, mc),
		Schedules:     NewClassScheduleRepository(db, logger, mc),
		MealPlans:     NewMealPlanRepository(db, logger, mc),
		Bulletins:     NewNutritionBulletinRepository(db, logger, mc),
		ParentEdPosts: NewParentEdPostRepository(db, logger, mc),
	}
}

func NewClassPostRepository(db *gorm.DB, logger *zap.Logger, mc *metrics.MetricsCollector) *ClassPostRepository {
	return NewRepository[models.ClassPost, *models.ClassPost](db, Config{
		Family:      "class_post",
		Rules:       workflow.Rules{Kind: workflow.KindArchivable, AuthorRole: models.RoleTeacher},
		CreateRoles: []models.Role{models.RoleAdmin, models.RoleTeacher},
	}, Hooks[models.ClassPost, *models.ClassPost]{
		Preloads: []string{"Attachments"},
		ReplaceChildren: func(tx *gorm.DB, p *models.ClassPost) error {
			if err := tx.Where("post_id = ?", p.ID).Delete(&models.PostAttachment{}).Error; err != nil {
				return err
			}
			if len(p.Attachments) == 0 {
				return nil
			}
			for i := range p.Attachments {
				p.Attachments[i].ID = 0
				p.Attachments[i].PostID = p.ID
			}
			return tx.Create(&p.Attachments).Error
		},
		CopyRefresh: func(dst, src *models.ClassPost) {
			dst.Title = src.Title
			dst.Body = src.Body
			dst.AudienceScope = src.AudienceScope
			dst.OwnerGroupID = src.OwnerGroupID
			dst.Attachments = src.Attachments
		},
	}, logger, mc)
}

func NewClassScheduleRepository(db *gorm.DB, logger *zap.Logger, mc *metrics.MetricsCollector) *ClassScheduleRepository {
	return NewRepository[models.ClassSchedule, *models.ClassSchedule](db, Config{
		Family:      "class_schedule",
		Rules:       workflow.Rules{Kind: workflow.KindCancellable, AuthorRole: models.RoleTeacher},
		CreateRoles: []models.Role{models.RoleAdmin, models.RoleTeacher},
	}, Hooks[models.ClassSchedule, *models.ClassSchedule]{
		CopyRefresh: func(dst, src *models.ClassSchedule) {
			dst.Title = src.Title
			dst.Details = src.Details
			dst.StartsAt = src.StartsAt
			dst.EndsAt = src.EndsAt
			dst.Location = src.Location
			dst.AudienceScope = src.AudienceScope
			dst.OwnerGroupID = src.OwnerGroupID
		},
	}, logger, mc)
}

func NewMealPlanRepository(db *gorm.DB, logger *zap.Logger, mc *metrics.MetricsCollector) *MealPlanRepository {
	return NewRepository[models.MealPlan, *models.MealPlan](db, Config{
		Family:      "meal_plan",
		Rules:       workflow.Rules{Kind: workflow.KindCancellable, AuthorRole: models.RoleNutrition},
		CreateRoles: []models.Role{models.RoleAdmin, models.RoleNutrition},
	}, Hooks[models.MealPlan, *models.MealPlan]{
		Preloads: []string{"Items"},
		ReplaceChildren: func(tx *gorm.DB, m *models.MealPlan) error {
			if err := tx.Where("meal_plan_id = ?", m.ID).Delete(&models.MealPlanItem{}).Error; err != nil {
				return err
			}
			if len(m.Items) == 0 {
				return nil
			}
			for i := range m.Items {
				m.Items[i].ID = 0
				m.Items[i].MealPlanID = m.ID
			}
			return tx.Create(&m.Items).Error
		},
		CopyRefresh: func(dst, src *models.MealPlan) {
			dst.ServedOn = src.ServedOn
			dst.MealType = src.MealType
			dst.Notes = src.Notes
			dst.AudienceScope = src.AudienceScope
			dst.OwnerGroupID = src.OwnerGroupID
			dst.Items = src.Items
		},
	}, logger, mc)
}

func NewNutritionBulletinRepository(db *gorm.DB, logger *zap.Logger, mc *metrics.MetricsCollector) *NutritionBulletinRepository {
	return NewRepository[models.NutritionBulletin, *models.NutritionBulletin](db, Config{
		Family:      "nutrition_bulletin",
		Rules:       workflow.Rules{Kind: workflow.KindArchivable, AuthorRole: models.RoleNutrition},
		CreateRoles: []models.Role{models.RoleAdmin, models.RoleNutrition},
	}, Hooks[models.NutritionBulletin, *models.NutritionBulletin]{
		CopyRefresh: func(dst, src *models.NutritionBulletin) {
			dst.Title = src.Title
			dst.Body = src.Body
			dst.SourceURL = src.SourceURL
			dst.AudienceScope = src.AudienceScope
			dst.OwnerGroupID = src.OwnerGroupID
		},
	}, logger, mc)
}

func NewParentEdPostRepository(db *gorm.DB, logger *zap.Logger, mc *metrics.MetricsCollector) *ParentEdPostRepository {
	return NewRepository[models.ParentEdPost, *models.ParentEdPost](db, Config{
		Family:      "parent_ed_post",
		Rules:       workflow.Rules{Kind: workflow.KindArchivable, AuthorRole: models.RoleTeacher},
		CreateRoles: []models.Role{models.RoleAdmin, models.RoleTeacher},
	}, Hooks[models.ParentEdPost, *models.ParentEdPost]{
		Preloads: []string{"Attachments"},
		ReplaceChildren: func(tx *gorm.DB, p *models.ParentEdPost) error {
			if err := tx.Where("post_id = ?", p.ID).Delete(&models.EduAttachment{}).Error; err != nil {
				return err
			}
			if len(p.Attachments) == 0 {
				return nil
			}
			for i := range p.Attachments {
				p.Attachments[i].ID = 0
				p.Attachments[i].PostID = p.ID
			}
			return tx.Create(&p.Attachments).Error
		},
		CopyRefresh: func(dst, src *models.ParentEdPost) {
			dst.Title = src.Title
			dst.Body = src.Body
			dst.Topic = src.Topic
			dst.AudienceScope = src.AudienceScope
			dst.OwnerGroupID = src.OwnerGroupID
			dst.Attachments = src.Attachments
		},
	}, logger, mc)
}
