package publish

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/asthiranalyticsyt/Asthir-story/auth"
	"github.com/asthiranalyticsyt/Asthir-story/config"
	"github.com/asthiranalyticsyt/Asthir-story/errs"
	"github.com/asthiranalyticsyt/Asthir-story/types"
)

// Metadata is the fixed upload metadata applied to every account
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Visibility  string
	MadeForKids bool
}

// MetadataFromConfig builds the upload metadata from configuration
func MetadataFromConfig(cfg *config.Config) Metadata {
	return Metadata{
		Title:       cfg.Publish.Title,
		Description: cfg.Publish.Description,
		Tags:        cfg.Publish.Tags,
		CategoryID:  cfg.Publish.CategoryID,
		Visibility:  cfg.Publish.Visibility,
		MadeForKids: cfg.Publish.MadeForKids,
	}
}

// credentialStore is the slice of auth.Store the dispatcher needs
type credentialStore interface {
	Load(path string) (*auth.Credential, error)
	EnsureFresh(ctx context.Context, c *auth.Credential) error
	Client(ctx context.Context, c *auth.Credential) *http.Client
}

// videoUploader submits one video with one account's client
type videoUploader interface {
	Upload(ctx context.Context, client *http.Client, videoPath string, meta Metadata) (videoID string, err error)
}

// Dispatcher uploads the composed video to every discovered account.
// Per-account failures are captured in the result list and never abort
// the remaining accounts.
type Dispatcher struct {
	cfg      *config.Config
	store    credentialStore
	uploader videoUploader
	log      *logrus.Entry

	// OnResult, when set, observes each result as soon as it is final
	OnResult func(types.PublishResult)
}

// New creates a Dispatcher using the real YouTube uploader
func New(cfg *config.Config, store *auth.Store, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		store:    store,
		uploader: &youtubeUploader{},
		log:      log.WithField("stage", "publish"),
	}
}

// PublishAll uploads videoPath once per credential record, in discovery
// order. The returned error is non-nil only for stage-fatal conditions:
// a missing video file or an absent/empty records directory.
func (d *Dispatcher) PublishAll(ctx context.Context, videoPath string) ([]types.PublishResult, error) {
	d.log.Info("Starting uploads to all accounts...")

	if _, err := os.Stat(videoPath); err != nil {
		return nil, errs.MissingInput("publish.PublishAll", fmt.Sprintf("video file %s not found", videoPath))
	}

	records, err := discoverRecords(d.cfg.Publish.TokensDir)
	if err != nil {
		return nil, err
	}
	d.log.Infof("Found %d credential record(s)", len(records))

	meta := MetadataFromConfig(d.cfg)
	results := make([]types.PublishResult, 0, len(records))
	for _, rec := range records {
		res := d.publishOne(ctx, rec, videoPath, meta)
		results = append(results, res)
		if d.OnResult != nil {
			d.OnResult(res)
		}
	}

	success := 0
	for _, r := range results {
		if r.Outcome == types.OutcomeSuccess {
			success++
		}
	}
	d.log.Infof("Upload complete: %d/%d successful", success, len(records))
	return results, nil
}

// publishOne runs the full load-freshen-upload sequence for one account
func (d *Dispatcher) publishOne(ctx context.Context, recordPath, videoPath string, meta Metadata) types.PublishResult {
	account := filepath.Base(recordPath)
	result := types.PublishResult{Account: account, Outcome: types.OutcomePending}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Publish.Timeout.Std())
	defer cancel()

	d.log.Infof("Uploading with record: %s", account)

	cred, err := d.store.Load(recordPath)
	if err != nil {
		return d.failed(result, errs.KindPublish, err.Error())
	}
	if err := d.store.EnsureFresh(ctx, cred); err != nil {
		return d.failed(result, errs.KindPublish, err.Error())
	}

	videoID, err := d.uploader.Upload(ctx, d.store.Client(ctx, cred), videoPath, meta)
	if err != nil {
		kind, msg := classify(err)
		if kind == errs.KindQuotaExceeded {
			msg = "QUOTA EXCEEDED - resets at midnight Pacific Time: " + msg
			d.log.Warnf("Quota error: %s - %s", account, msg)
		} else {
			d.log.Errorf("Upload FAILED: %s - %s", account, msg)
		}
		return d.failed(result, kind, msg)
	}

	result.Outcome = types.OutcomeSuccess
	result.VideoURL = ShortLink(videoID)
	d.log.Infof("Upload SUCCESS: %s -> %s", account, result.VideoURL)
	return result
}

func (d *Dispatcher) failed(r types.PublishResult, kind errs.Kind, msg string) types.PublishResult {
	r.Outcome = types.OutcomeFailed
	r.Error = fmt.Sprintf("[%s] %s", kind, msg)
	return r
}

// ShortLink builds the canonical short URL for an uploaded video
func ShortLink(videoID string) string {
	return "https://youtu.be/" + videoID
}

// discoverRecords lists credential files in deterministic discovery order.
// A missing or empty directory is fatal for the publish stage.
func discoverRecords(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.MissingInput("publish.discoverRecords", fmt.Sprintf("tokens directory %q not found", dir))
	}

	var records []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".tok" || ext == ".json" {
			records = append(records, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(records)

	if len(records) == 0 {
		return nil, errs.MissingInput("publish.discoverRecords", fmt.Sprintf("no credential records found in %q", dir))
	}
	return records, nil
}
