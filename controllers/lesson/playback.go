package lessonController

import (
	"time"

	"lingala/config"
	"lingala/database"
	"lingala/middleware"
	courseModels "lingala/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// generatePlaybackToken signs a short-lived token scoped to one lesson. The
// CDN edge validates it before serving manifest segments.
func generatePlaybackToken(lessonID uint, userID *uint) (string, time.Time, error) {
	ttl := time.Duration(config.AppConfig.PlaybackTokenTTLMinutes) * time.Minute
	expiresAt := time.Now().Add(ttl)

	claims := jwt.MapClaims{
		"jti":      uuid.NewString(),
		"lessonId": lessonID,
		"iat":      time.Now().Unix(),
		"exp":      expiresAt.Unix(),
	}
	if userID != nil {
		claims["userId"] = *userID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWTKey))
	return signed, expiresAt, err
}

// IssuePlaybackToken applies the access rules and, when access is granted and
// the video has finished transcoding, returns the playable manifest URL plus
// a signed playback token.
func IssuePlaybackToken(c *fiber.Ctx) error {
	lessonID := uint(c.Locals("lessonID").(int))
	userID := callerID(c)

	decision, err := ResolveAccess(database.Database.Db, lessonID, userID)
	if err != nil {
		return respondAccessError(c, err)
	}
	if !decision.Allowed {
		return respondDenied(c, decision)
	}

	lesson := decision.Lesson
	if lesson.VideoStatus != courseModels.VideoReady || lesson.VideoURL == "" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Video is not ready yet!", fiber.Map{
			"playback_url": nil,
			"video_status": lesson.VideoStatus,
		})
	}

	token, expiresAt, err := generatePlaybackToken(lesson.ID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to issue playback token!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Playback token issued successfully!", fiber.Map{
		"playback_url": lesson.VideoURL,
		"token":        token,
		"expires_at":   expiresAt,
		"reason":       decision.Reason,
	})
}
