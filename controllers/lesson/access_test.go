package lessonController

import (
	"testing"
	"time"

	"lingala/database"
	"lingala/models"
	courseModels "lingala/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	return db
}

type catalogFixture struct {
	course        courseModels.Course
	module        courseModels.Module
	lesson        courseModels.Lesson
	previewLesson courseModels.Lesson
}

func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()

	course := courseModels.Course{Title: "Lingala for Beginners", PriceCents: 2500, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	module := courseModels.Module{CourseID: course.ID, Title: "Greetings", OrderIndex: 1}
	require.NoError(t, db.Create(&module).Error)

	lesson := courseModels.Lesson{
		ModuleID:    module.ID,
		CourseID:    course.ID,
		Title:       "Numbers 1-10",
		Content:     "moko, mibale, misato",
		VideoURL:    "https://cdn.example.com/numbers.m3u8",
		OrderIndex:  2,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&lesson).Error)

	previewLesson := courseModels.Lesson{
		ModuleID:    module.ID,
		CourseID:    course.ID,
		Title:       "Mbote: saying hello",
		FreePreview: true,
		OrderIndex:  1,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&previewLesson).Error)

	return catalogFixture{course: course, module: module, lesson: lesson, previewLesson: previewLesson}
}

func uintPtr(v uint) *uint { return &v }

func TestResolveAccessFreePreviewAnonymous(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	decision, err := ResolveAccess(db, fixture.previewLesson.ID, nil)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, AccessFreePreview, decision.Reason)
}

func TestResolveAccessAnonymousDeniedAuthRequired(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	decision, err := ResolveAccess(db, fixture.lesson.ID, nil)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DeniedAuthRequired, decision.Reason)
}

func TestResolveAccessEnrolledUser(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	enrollment := courseModels.Enrollment{UserID: 1, CourseID: fixture.course.ID, EnrolledAt: time.Now()}
	require.NoError(t, db.Create(&enrollment).Error)

	decision, err := ResolveAccess(db, fixture.lesson.ID, uintPtr(1))
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, AccessEnrolled, decision.Reason)
}

func TestResolveAccessActiveSubscriber(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	subscription := models.Subscription{
		UserID:               2,
		StripeSubscriptionID: "sub_test_active",
		Status:               models.SubscriptionActive,
		CurrentPeriodStart:   time.Now().Add(-24 * time.Hour),
		CurrentPeriodEnd:     time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(&subscription).Error)

	decision, err := ResolveAccess(db, fixture.lesson.ID, uintPtr(2))
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, AccessSubscription, decision.Reason)
}

func TestResolveAccessNoGrantsDeniedNotEnrolled(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	decision, err := ResolveAccess(db, fixture.lesson.ID, uintPtr(3))
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DeniedNotEnrolled, decision.Reason)
}

func TestResolveAccessExpiredSubscriptionDenied(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	subscription := models.Subscription{
		UserID:               4,
		StripeSubscriptionID: "sub_test_expired",
		Status:               models.SubscriptionActive,
		CurrentPeriodStart:   time.Now().Add(-48 * time.Hour),
		CurrentPeriodEnd:     time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&subscription).Error)

	decision, err := ResolveAccess(db, fixture.lesson.ID, uintPtr(4))
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DeniedNotEnrolled, decision.Reason)
}

func TestResolveAccessCancelledSubscriptionDenied(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	subscription := models.Subscription{
		UserID:               5,
		StripeSubscriptionID: "sub_test_cancelled",
		Status:               models.SubscriptionCancelled,
		CurrentPeriodStart:   time.Now().Add(-24 * time.Hour),
		CurrentPeriodEnd:     time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(&subscription).Error)

	decision, err := ResolveAccess(db, fixture.lesson.ID, uintPtr(5))
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DeniedNotEnrolled, decision.Reason)
}

func TestResolveAccessUnknownLesson(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	_, err := ResolveAccess(db, 999, nil)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestResolveAccessUnpublishedLessonHidden(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	draft := courseModels.Lesson{
		ModuleID:    fixture.module.ID,
		CourseID:    fixture.course.ID,
		Title:       "Draft lesson",
		IsPublished: false,
	}
	require.NoError(t, db.Create(&draft).Error)

	_, err := ResolveAccess(db, draft.ID, uintPtr(1))
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestResolveAccessOrphanedModule(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	orphan := courseModels.Lesson{
		ModuleID:    999,
		CourseID:    fixture.course.ID,
		Title:       "Orphaned lesson",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&orphan).Error)

	_, err := ResolveAccess(db, orphan.ID, uintPtr(1))
	assert.ErrorIs(t, err, ErrInvalidLessonStructure)
}

func TestResolveAccessSoftDeletedCourseChain(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	require.NoError(t, db.Model(&courseModels.Course{}).Where("id = ?", fixture.course.ID).Update("is_deleted", true).Error)

	_, err := ResolveAccess(db, fixture.lesson.ID, uintPtr(1))
	assert.ErrorIs(t, err, ErrInvalidLessonStructure)
}

func TestResolveAccessFreePreviewBeatsOtherRules(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)

	// An enrolled user hitting a preview lesson still resolves through the
	// cheapest rule first.
	enrollment := courseModels.Enrollment{UserID: 6, CourseID: fixture.course.ID, EnrolledAt: time.Now()}
	require.NoError(t, db.Create(&enrollment).Error)

	decision, err := ResolveAccess(db, fixture.previewLesson.ID, uintPtr(6))
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, AccessFreePreview, decision.Reason)
}
