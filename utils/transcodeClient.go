package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"lingala/config"

	"github.com/go-resty/resty/v2"
)

// Transcode job statuses reported by the media service.
const (
	TranscodeSubmitted = "SUBMITTED"
	TranscodeRunning   = "PROGRESSING"
	TranscodeComplete  = "COMPLETE"
	TranscodeError     = "ERROR"
)

// TranscodeJob is the media service's view of one conversion job.
type TranscodeJob struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ManifestURL string `json:"manifest_url"` // HLS manifest, set once COMPLETE
}

func transcoderClient() *resty.Client {
	return resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("X-Api-Key", config.AppConfig.TranscoderApiKey)
}

// StartTranscodeJob submits a source video for HLS conversion and returns
// the job id to poll.
func StartTranscodeJob(sourceURL string) (string, error) {
	resp, err := transcoderClient().R().
		SetBody(map[string]string{"source_url": sourceURL}).
		Post(config.AppConfig.TranscoderApiURL)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return "", fmt.Errorf("transcoder returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var job TranscodeJob
	if err := json.Unmarshal(resp.Body(), &job); err != nil {
		return "", fmt.Errorf("invalid transcoder response: %w", err)
	}
	if job.ID == "" {
		return "", fmt.Errorf("transcoder returned no job id")
	}
	return job.ID, nil
}

// GetTranscodeJob polls one job's status
func GetTranscodeJob(jobID string) (*TranscodeJob, error) {
	resp, err := transcoderClient().R().
		Get(config.AppConfig.TranscoderApiURL + jobID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("transcoder returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var job TranscodeJob
	if err := json.Unmarshal(resp.Body(), &job); err != nil {
		return nil, fmt.Errorf("invalid transcoder response: %w", err)
	}
	return &job, nil
}
