package progressController

import (
	"fmt"
	"sync"
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

	// A single connection keeps every session on the same in-memory
	// database and serializes concurrent writers.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	return db
}

func seedLesson(t *testing.T, db *gorm.DB) courseModels.Lesson {
	t.Helper()

	course := courseModels.Course{Title: "Lingala for Beginners", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	module := courseModels.Module{CourseID: course.ID, Title: "Greetings", OrderIndex: 1}
	require.NoError(t, db.Create(&module).Error)

	lesson := courseModels.Lesson{
		ModuleID:    module.ID,
		CourseID:    course.ID,
		Title:       "Mbote: saying hello",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&lesson).Error)

	return lesson
}

func TestSaveProgressThreshold(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db)

	saved, err := SaveProgress(db, 1, lesson.ID, 89, 100, false)
	require.NoError(t, err)
	assert.InDelta(t, 89.0, saved.ProgressPercentage, 0.001)
	assert.False(t, saved.IsCompleted)
	assert.Nil(t, saved.CompletedAt)

	saved, err = SaveProgress(db, 1, lesson.ID, 90, 100, false)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, saved.ProgressPercentage, 0.001)
	assert.True(t, saved.IsCompleted)
	assert.NotNil(t, saved.CompletedAt)
}

func TestSaveProgressZeroDuration(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db)

	saved, err := SaveProgress(db, 1, lesson.ID, 0, 0, false)
	require.NoError(t, err)
	assert.Zero(t, saved.ProgressPercentage)
	assert.False(t, saved.IsCompleted)
}

func TestSaveProgressPercentageCapped(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db)

	saved, err := SaveProgress(db, 1, lesson.ID, 150, 100, false)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, saved.ProgressPercentage, 0.001)
	assert.True(t, saved.IsCompleted)
}

func TestSaveProgressExplicitComplete(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db)

	saved, err := SaveProgress(db, 1, lesson.ID, 10, 100, true)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, saved.ProgressPercentage, 0.001)
	assert.True(t, saved.IsCompleted)
	assert.NotNil(t, saved.CompletedAt)
}

func TestSaveProgressIdempotent(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db)

	first, err := SaveProgress(db, 1, lesson.ID, 42.5, 100, false)
	require.NoError(t, err)

	second, err := SaveProgress(db, 1, lesson.ID, 42.5, 100, false)
	require.NoError(t, err)

	assert.Equal(t, first.CurrentTime, second.CurrentTime)
	assert.Equal(t, first.Duration, second.Duration)
	assert.Equal(t, first.ProgressPercentage, second.ProgressPercentage)
	assert.Equal(t, first.WatchTimeSeconds, second.WatchTimeSeconds)
	assert.Equal(t, first.IsCompleted, second.IsCompleted)

	var count int64
	require.NoError(t, db.Model(&courseModels.LessonProgress{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSaveProgressCompletionMonotonic(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db)

	completed, err := SaveProgress(db, 1, lesson.ID, 95, 100, false)
	require.NoError(t, err)
	require.True(t, completed.IsCompleted)
	require.NotNil(t, completed.CompletedAt)
	completedAt := *completed.CompletedAt

	// Rewatching from the start must not undo completion
	rewatched, err := SaveProgress(db, 1, lesson.ID, 5, 100, false)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, rewatched.ProgressPercentage, 0.001)
	assert.True(t, rewatched.IsCompleted)
	require.NotNil(t, rewatched.CompletedAt)
	assert.Equal(t, completedAt.Unix(), rewatched.CompletedAt.Unix())
}

func TestSaveProgressWatchTimeHighWater(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db)

	_, err := SaveProgress(db, 1, lesson.ID, 50, 100, false)
	require.NoError(t, err)

	rewound, err := SaveProgress(db, 1, lesson.ID, 20, 100, false)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, rewound.CurrentTime, 0.001)
	assert.Equal(t, 50, rewound.WatchTimeSeconds)
}

func TestSaveProgressUnknownLesson(t *testing.T) {
	db := setupTestDB(t)

	_, err := SaveProgress(db, 1, 999, 10, 100, false)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestSaveProgressConcurrentSingleRow(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(tick int) {
			defer wg.Done()
			_, err := SaveProgress(db, 1, lesson.ID, float64(tick*7), 100, false)
			errs <- err
		}(i + 1)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&courseModels.LessonProgress{}).Where("user_id = ? AND lesson_id = ?", 1, lesson.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCourseProgressStats(t *testing.T) {
	db := setupTestDB(t)

	course := courseModels.Course{Title: "Lingala Conversation", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	module := courseModels.Module{CourseID: course.ID, Title: "Daily life"}
	require.NoError(t, db.Create(&module).Error)

	var lessons []courseModels.Lesson
	for i := 0; i < 5; i++ {
		lesson := courseModels.Lesson{
			ModuleID:    module.ID,
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			OrderIndex:  i + 1,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}

	for i := 0; i < 3; i++ {
		_, err := SaveProgress(db, 7, lessons[i].ID, 100, 100, false)
		require.NoError(t, err)
	}
	// A partial watch does not count as completed
	_, err := SaveProgress(db, 7, lessons[3].ID, 30, 100, false)
	require.NoError(t, err)

	stats, err := CourseProgressStats(db, 7, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Completed)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, 60, stats.Percentage)
}

func TestCourseProgressStatsEmptyCourse(t *testing.T) {
	db := setupTestDB(t)

	course := courseModels.Course{Title: "Unwritten course", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	stats, err := CourseProgressStats(db, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, int64(0), stats.Completed)
	assert.Equal(t, 0, stats.Percentage)
}

func TestEnrollmentStampedWhenCourseFinished(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db)

	enrollment := courseModels.Enrollment{UserID: 1, CourseID: lesson.CourseID, EnrolledAt: time.Now()}
	require.NoError(t, db.Create(&enrollment).Error)

	_, err := SaveProgress(db, 1, lesson.ID, 100, 100, false)
	require.NoError(t, err)

	updateEnrollmentCompletion(1, lesson.CourseID)

	var stamped courseModels.Enrollment
	require.NoError(t, db.First(&stamped, enrollment.ID).Error)
	assert.NotNil(t, stamped.CompletedAt)
}
