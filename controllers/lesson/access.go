package lessonController

import (
	"errors"
	"log"
	"time"

	"lingala/database"
	"lingala/middleware"
	"lingala/models"
	courseModels "lingala/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Access reasons reported by ResolveAccess.
const (
	AccessFreePreview  = "FREE_PREVIEW"
	AccessEnrolled     = "ENROLLED"
	AccessSubscription = "SUBSCRIPTION"
	DeniedAuthRequired = "AUTH_REQUIRED"
	DeniedNotEnrolled  = "NOT_ENROLLED"
)

var (
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrInvalidLessonStructure means the lesson's module/course chain is
	// broken. That is corrupted reference data, not a user mistake.
	ErrInvalidLessonStructure = errors.New("lesson has no valid module/course chain")
)

// AccessDecision is the result of resolving whether a caller may play a lesson.
type AccessDecision struct {
	Allowed bool                 `json:"allowed"`
	Reason  string               `json:"reason"`
	Lesson  *courseModels.Lesson `json:"-"`
}

// ResolveAccess decides whether the caller may access a lesson's video and
// content. userID is nil for anonymous callers. Any one of three independent
// conditions grants access: the lesson is a free preview, the user holds an
// enrollment for the lesson's course, or the user holds a currently active
// subscription. The check is read-only.
func ResolveAccess(db *gorm.DB, lessonID uint, userID *uint) (*AccessDecision, error) {
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", lessonID, false, true).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	// Verify the module/course chain before trusting the lesson's CourseID.
	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", lesson.ModuleID, false).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ACCESS] Integrity warning: lesson %d references missing module %d", lesson.ID, lesson.ModuleID)
			return nil, ErrInvalidLessonStructure
		}
		return nil, err
	}
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", module.CourseID, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ACCESS] Integrity warning: module %d references missing course %d", module.ID, module.CourseID)
			return nil, ErrInvalidLessonStructure
		}
		return nil, err
	}

	if lesson.FreePreview {
		return &AccessDecision{Allowed: true, Reason: AccessFreePreview, Lesson: &lesson}, nil
	}

	if userID == nil {
		return &AccessDecision{Allowed: false, Reason: DeniedAuthRequired, Lesson: &lesson}, nil
	}

	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", *userID, course.ID, false).First(&enrollment).Error
	if err == nil {
		return &AccessDecision{Allowed: true, Reason: AccessEnrolled, Lesson: &lesson}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var subscriptions []models.Subscription
	if err := db.Where("user_id = ? AND is_deleted = ?", *userID, false).Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range subscriptions {
		if subscriptions[i].IsActive(now) {
			return &AccessDecision{Allowed: true, Reason: AccessSubscription, Lesson: &lesson}, nil
		}
	}

	return &AccessDecision{Allowed: false, Reason: DeniedNotEnrolled, Lesson: &lesson}, nil
}

// callerID reads the optional authenticated user from locals.
func callerID(c *fiber.Ctx) *uint {
	if userID, ok := c.Locals("userId").(uint); ok {
		return &userID
	}
	return nil
}

func respondDenied(c *fiber.Ctx, decision *AccessDecision) error {
	if decision.Reason == DeniedAuthRequired {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeAuthRequired, "Sign in to watch this lesson!")
	}
	return middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.CodeNotEnrolled, "Enroll in this course or subscribe to watch this lesson!")
}

func respondAccessError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrLessonNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Lesson not found!")
	case errors.Is(err, ErrInvalidLessonStructure):
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeInvalidLessonStructure, "Lesson is not attached to a valid course!")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to resolve lesson access!")
	}
}

// GetLesson returns a lesson with its content and video gated by the access
// decision, so the player UI can disable itself without a second round trip.
// The served fields, not this hint, are what enforce the paywall.
func GetLesson(c *fiber.Ctx) error {
	lessonID := uint(c.Locals("lessonID").(int))

	decision, err := ResolveAccess(database.Database.Db, lessonID, callerID(c))
	if err != nil {
		return respondAccessError(c, err)
	}

	lesson := *decision.Lesson
	if !decision.Allowed {
		lesson.Content = ""
		lesson.VideoURL = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", fiber.Map{
		"lesson": lesson,
		"access": decision,
	})
}
