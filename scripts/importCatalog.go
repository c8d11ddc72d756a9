package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"lingala/config"
	"lingala/database"
	courseModels "lingala/models/course"
)

// Seeds the course catalog from Catalog.csv. Expected columns:
// course,level,price_cents,module,module_order,lesson,lesson_order,duration_minutes,free_preview
func main() {
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open("Catalog.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	db := database.Database.Db
	courses := make(map[string]uint)
	modules := make(map[string]uint)
	inserted := 0
	skipped := 0

	for i, row := range records[1:] {
		courseTitle := getField(row, headerIndex, "course")
		moduleTitle := getField(row, headerIndex, "module")
		lessonTitle := getField(row, headerIndex, "lesson")
		if courseTitle == "" || moduleTitle == "" || lessonTitle == "" {
			log.Printf("Skipping row %d: missing course/module/lesson title", i+2)
			skipped++
			continue
		}

		courseID, ok := courses[courseTitle]
		if !ok {
			course := courseModels.Course{
				Title:      courseTitle,
				Level:      strings.ToUpper(getField(row, headerIndex, "level")),
				PriceCents: int64(parseInt(getField(row, headerIndex, "price_cents"))),
			}
			if course.Level == "" {
				course.Level = "BEGINNER"
			}
			if err := db.Where("title = ? AND is_deleted = ?", courseTitle, false).FirstOrCreate(&course).Error; err != nil {
				log.Fatalf("Failed to create course %q: %v", courseTitle, err)
			}
			courses[courseTitle] = course.ID
			courseID = course.ID
		}

		moduleKey := courseTitle + "/" + moduleTitle
		moduleID, ok := modules[moduleKey]
		if !ok {
			module := courseModels.Module{
				CourseID:   courseID,
				Title:      moduleTitle,
				OrderIndex: parseInt(getField(row, headerIndex, "module_order")),
			}
			if err := db.Where("course_id = ? AND title = ? AND is_deleted = ?", courseID, moduleTitle, false).FirstOrCreate(&module).Error; err != nil {
				log.Fatalf("Failed to create module %q: %v", moduleTitle, err)
			}
			modules[moduleKey] = module.ID
			moduleID = module.ID
		}

		lesson := courseModels.Lesson{
			ModuleID:        moduleID,
			CourseID:        courseID,
			Title:           lessonTitle,
			DurationMinutes: parseInt(getField(row, headerIndex, "duration_minutes")),
			FreePreview:     parseBool(getField(row, headerIndex, "free_preview")),
			OrderIndex:      parseInt(getField(row, headerIndex, "lesson_order")),
		}
		if err := db.Where("module_id = ? AND title = ? AND is_deleted = ?", moduleID, lessonTitle, false).FirstOrCreate(&lesson).Error; err != nil {
			log.Fatalf("Failed to create lesson %q: %v", lessonTitle, err)
		}
		inserted++
	}

	log.Printf("Import complete: %d lessons processed, %d rows skipped", inserted, skipped)
}

func getField(row []string, headerIndex map[string]int, name string) string {
	idx, ok := headerIndex[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return value
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
