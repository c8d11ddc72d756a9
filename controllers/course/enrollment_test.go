package courseController

import (
	"errors"
	"testing"
	"time"

	"lingala/database"
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

func TestDuplicateEnrollmentRejectedByIndex(t *testing.T) {
	db := setupTestDB(t)

	course := courseModels.Course{Title: "Lingala for Beginners", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	first := courseModels.Enrollment{UserID: 1, CourseID: course.ID, EnrolledAt: time.Now(), Source: "PURCHASE"}
	require.NoError(t, db.Create(&first).Error)

	second := courseModels.Enrollment{UserID: 1, CourseID: course.ID, EnrolledAt: time.Now(), Source: "PURCHASE"}
	err := db.Create(&second).Error
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))

	var count int64
	require.NoError(t, db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", 1, course.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDifferentCoursesDoNotConflict(t *testing.T) {
	db := setupTestDB(t)

	for _, title := range []string{"Lingala for Beginners", "Lingala Conversation"} {
		course := courseModels.Course{Title: title, IsPublished: true}
		require.NoError(t, db.Create(&course).Error)
		enrollment := courseModels.Enrollment{UserID: 1, CourseID: course.ID, EnrolledAt: time.Now(), Source: "PURCHASE"}
		require.NoError(t, db.Create(&enrollment).Error)
	}

	var count int64
	require.NoError(t, db.Model(&courseModels.Enrollment{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.True(t, isUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_user_course" (SQLSTATE 23505)`)))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: user_enrollments.user_id, user_enrollments.course_id")))
}
