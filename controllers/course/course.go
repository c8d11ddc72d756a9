package courseController

import (
	"errors"
	"time"

	"lingala/database"
	"lingala/middleware"
	"lingala/models"
	courseModels "lingala/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAllCourses lists published courses for the public catalog
func GetAllCourses(c *fiber.Ctx) error {
	reqData, _ := c.Locals("validatedCourseList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true)

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to fetch courses!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// userHasCourseAccess reports whether the (possibly anonymous) caller holds
// an enrollment for the course or an active subscription.
func userHasCourseAccess(db *gorm.DB, courseID uint, userID *uint) bool {
	if userID == nil {
		return false
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", *userID, courseID, false).First(&enrollment).Error; err == nil {
		return true
	}

	var subscriptions []models.Subscription
	if err := db.Where("user_id = ? AND is_deleted = ?", *userID, false).Find(&subscriptions).Error; err != nil {
		return false
	}
	now := time.Now()
	for i := range subscriptions {
		if subscriptions[i].IsActive(now) {
			return true
		}
	}
	return false
}

// GetCourseDetails returns a published course with its modules and lessons.
// Lesson content and video URLs are withheld unless the caller has access to
// them, so the catalog page can render locks without leaking paid media.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := uint(c.Locals("courseID").(int))
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to fetch course!")
	}

	var userID *uint
	if id, ok := c.Locals("userId").(uint); ok {
		userID = &id
	}
	hasAccess := userHasCourseAccess(db, course.ID, userID)

	var modules []courseModels.Module
	db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Order("order_index asc").Find(&modules)

	type ModuleWithLessons struct {
		courseModels.Module
		Lessons []courseModels.Lesson `json:"lessons"`
	}

	result := make([]ModuleWithLessons, len(modules))
	for i, mod := range modules {
		var lessons []courseModels.Lesson
		db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", mod.ID, false, true).Order("order_index asc").Find(&lessons)

		for j := range lessons {
			if !hasAccess && !lessons[j].FreePreview {
				lessons[j].Content = ""
				lessons[j].VideoURL = ""
			}
		}

		result[i] = ModuleWithLessons{Module: mod, Lessons: lessons}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":     course,
		"modules":    result,
		"has_access": hasAccess,
	})
}
