package publish

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"

	"github.com/asthiranalyticsyt/Asthir-story/errs"
)

// youtubeUploader performs the resumable upload against the Data API v3
type youtubeUploader struct{}

func (u *youtubeUploader) Upload(ctx context.Context, client *http.Client, videoPath string, meta Metadata) (string, error) {
	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", err
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  meta.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           meta.Visibility,
			SelfDeclaredMadeForKids: meta.MadeForKids,
		},
	}

	f, err := os.Open(videoPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Media() uses the resumable protocol, required for files over 5 MB
	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", err
	}
	return uploaded.Id, nil
}

// classify maps an upload error onto the publish taxonomy. Quota conditions
// are recognized structurally from the API reason when available, falling
// back to a case-insensitive message scan; everything else is a generic
// publish failure with the raw message retained.
func classify(err error) (errs.Kind, string) {
	msg := err.Error()

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Message != "" {
			msg = gerr.Message
		}
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
				return errs.KindQuotaExceeded, msg
			}
		}
	}

	lower := strings.ToLower(msg)
	if strings.Contains(lower, "quota") || strings.Contains(lower, "exceeded") {
		return errs.KindQuotaExceeded, msg
	}
	return errs.KindPublish, msg
}
