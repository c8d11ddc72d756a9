package utils

import (
	"log"

	"lingala/database"
	courseModels "lingala/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeTranscodeScheduler sets up the transcode polling scheduler
func InitializeTranscodeScheduler() {
	log.Println("[TRANSCODE-SCHEDULER] Initializing transcode scheduler...")

	c := cron.New()

	// Poll in-flight transcode jobs every 2 minutes
	c.AddFunc("*/2 * * * *", func() {
		PollTranscodeJobs()
	})

	c.Start()
	log.Println("[TRANSCODE-SCHEDULER] Transcode scheduler started - polls every 2 minutes")
}

// PollTranscodeJobs checks every PROCESSING lesson against the media service
// and stores the manifest URL once its job completes.
func PollTranscodeJobs() {
	db := database.Database.Db

	var lessons []courseModels.Lesson
	if err := db.
		Where("video_status = ? AND transcode_job_id <> '' AND is_deleted = ?", courseModels.VideoProcessing, false).
		Find(&lessons).Error; err != nil {
		log.Printf("[TRANSCODE-SCHEDULER] Error fetching processing lessons: %v", err)
		return
	}
	if len(lessons) == 0 {
		return
	}

	log.Printf("[TRANSCODE-SCHEDULER] Polling %d in-flight jobs", len(lessons))

	for _, lesson := range lessons {
		job, err := GetTranscodeJob(lesson.TranscodeJobID)
		if err != nil {
			log.Printf("[TRANSCODE-SCHEDULER] Error polling job %s for lesson %d: %v", lesson.TranscodeJobID, lesson.ID, err)
			continue
		}

		switch job.Status {
		case TranscodeComplete:
			if job.ManifestURL == "" {
				log.Printf("[TRANSCODE-SCHEDULER] Job %s complete but returned no manifest URL", job.ID)
				continue
			}
			db.Model(&lesson).Updates(map[string]interface{}{
				"video_status": courseModels.VideoReady,
				"video_url":    job.ManifestURL,
			})
			log.Printf("[TRANSCODE-SCHEDULER] Lesson %d video is ready", lesson.ID)
		case TranscodeError:
			db.Model(&lesson).Update("video_status", courseModels.VideoFailed)
			log.Printf("[TRANSCODE-SCHEDULER] Lesson %d transcode failed", lesson.ID)
		}
	}
}
