package publish

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/asthiranalyticsyt/Asthir-story/auth"
	"github.com/asthiranalyticsyt/Asthir-story/config"
	"github.com/asthiranalyticsyt/Asthir-story/errs"
	"github.com/asthiranalyticsyt/Asthir-story/types"

	"github.com/sirupsen/logrus"
)

type fakeStore struct {
	loadErr  map[string]error
	freshErr map[string]error
}

func (f *fakeStore) Load(path string) (*auth.Credential, error) {
	name := filepath.Base(path)
	if err, ok := f.loadErr[name]; ok {
		return nil, err
	}
	return &auth.Credential{
		Account: name,
		Path:    path,
		Token:   &oauth2.Token{AccessToken: "tok"},
	}, nil
}

func (f *fakeStore) EnsureFresh(_ context.Context, c *auth.Credential) error {
	if err, ok := f.freshErr[c.Account]; ok {
		return err
	}
	return nil
}

func (f *fakeStore) Client(_ context.Context, _ *auth.Credential) *http.Client {
	return http.DefaultClient
}

type fakeUploader struct {
	calls int
	errs  []error // per call, nil means success
	ids   []string
}

func (f *fakeUploader) Upload(_ context.Context, _ *http.Client, _ string, _ Metadata) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.ids) {
		return f.ids[i], nil
	}
	return "vid" + string(rune('A'+i)), nil
}

func testDispatcher(t *testing.T, store credentialStore, up videoUploader, tokensDir string) (*Dispatcher, string) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Publish.Title = "t"
	cfg.Publish.TokensDir = tokensDir
	cfg.Publish.Timeout = config.Duration(30 * time.Second)

	video := filepath.Join(t.TempDir(), "final_video.mp4")
	if err := os.WriteFile(video, []byte("mp4"), 0644); err != nil {
		t.Fatal(err)
	}

	log := logrus.New()
	log.SetOutput(&strings.Builder{})

	return &Dispatcher{
		cfg:      cfg,
		store:    store,
		uploader: up,
		log:      log.WithField("stage", "publish"),
	}, video
}

func writeTokens(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPublishAll_OneResultPerRecordInOrder(t *testing.T) {
	dir := writeTokens(t, "c.tok", "a.tok", "b.json", "ignored.txt")
	d, video := testDispatcher(t, &fakeStore{}, &fakeUploader{ids: []string{"id1", "id2", "id3"}}, dir)

	results, err := d.PublishAll(context.Background(), video)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (one per record)", len(results))
	}
	wantOrder := []string{"a.tok", "b.json", "c.tok"}
	for i, r := range results {
		if r.Account != wantOrder[i] {
			t.Errorf("result %d account = %q, want %q", i, r.Account, wantOrder[i])
		}
		if r.Outcome != types.OutcomeSuccess {
			t.Errorf("result %d outcome = %q, want success", i, r.Outcome)
		}
		if !strings.HasPrefix(r.VideoURL, "https://youtu.be/") {
			t.Errorf("result %d url = %q, want youtu.be short link", i, r.VideoURL)
		}
	}
}

func TestPublishAll_FailureIsolation(t *testing.T) {
	dir := writeTokens(t, "a.tok", "b.tok", "c.tok")
	up := &fakeUploader{errs: []error{nil, errors.New("boom"), nil}}
	d, video := testDispatcher(t, &fakeStore{}, up, dir)

	results, err := d.PublishAll(context.Background(), video)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Outcome != types.OutcomeSuccess ||
		results[1].Outcome != types.OutcomeFailed ||
		results[2].Outcome != types.OutcomeSuccess {
		t.Errorf("one failure must not abort the rest: %+v", results)
	}
	if up.calls != 3 {
		t.Errorf("uploader called %d times, want 3", up.calls)
	}
}

func TestPublishAll_InvalidCredentialAmongThree(t *testing.T) {
	dir := writeTokens(t, "a.tok", "b.tok", "c.tok")
	store := &fakeStore{loadErr: map[string]error{
		"b.tok": errs.InvalidCredential("auth.Load", nil, "invalid credentials in b.tok"),
	}}
	d, video := testDispatcher(t, store, &fakeUploader{}, dir)

	results, err := d.PublishAll(context.Background(), video)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failed := 0
	for _, r := range results {
		if r.Outcome == types.OutcomeFailed {
			failed++
			if !strings.Contains(r.Error, "invalid credentials") {
				t.Errorf("failed result should carry the credential message, got %q", r.Error)
			}
		}
	}
	if failed != 1 {
		t.Errorf("got %d failed results, want exactly 1", failed)
	}
}

func TestPublishAll_QuotaClassification(t *testing.T) {
	dir := writeTokens(t, "a.tok")
	up := &fakeUploader{errs: []error{&googleapi.Error{Code: 403, Message: "Quota Exceeded for quota metric"}}}
	d, video := testDispatcher(t, &fakeStore{}, up, dir)

	results, err := d.PublishAll(context.Background(), video)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Outcome != types.OutcomeFailed {
		t.Fatal("expected failed result")
	}
	if !strings.Contains(results[0].Error, string(errs.KindQuotaExceeded)) {
		t.Errorf("quota failure not classified: %q", results[0].Error)
	}
	if !strings.Contains(results[0].Error, "midnight Pacific Time") {
		t.Errorf("quota failure should mention the daily reset: %q", results[0].Error)
	}
}

func TestPublishAll_MissingVideo(t *testing.T) {
	dir := writeTokens(t, "a.tok")
	d, _ := testDispatcher(t, &fakeStore{}, &fakeUploader{}, dir)

	_, err := d.PublishAll(context.Background(), "nope.mp4")
	if err == nil {
		t.Fatal("missing video must be stage-fatal")
	}
	if errs.KindOf(err) != errs.KindMissingInput {
		t.Errorf("error kind = %q, want missing_input", errs.KindOf(err))
	}
}

func TestPublishAll_EmptyTokensDir(t *testing.T) {
	d, video := testDispatcher(t, &fakeStore{}, &fakeUploader{}, t.TempDir())

	_, err := d.PublishAll(context.Background(), video)
	if err == nil {
		t.Fatal("empty tokens dir must be stage-fatal")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.Kind
	}{
		{"quota message", errors.New("Quota Exceeded"), errs.KindQuotaExceeded},
		{"quota lowercase", errors.New("the quota was reached"), errs.KindQuotaExceeded},
		{"exceeded only", errors.New("daily limit EXCEEDED"), errs.KindQuotaExceeded},
		{"invalid grant", errors.New("Invalid grant"), errs.KindPublish},
		{"generic api error", &googleapi.Error{Code: 500, Message: "backend error"}, errs.KindPublish},
		{"structural quota reason", &googleapi.Error{
			Code:    403,
			Message: "limits reached",
			Errors:  []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
		}, errs.KindQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, msg := classify(tt.err)
			if kind != tt.want {
				t.Errorf("classify(%v) kind = %q, want %q", tt.err, kind, tt.want)
			}
			if msg == "" {
				t.Error("classification must retain the raw message")
			}
		})
	}
}
