package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/asthiranalyticsyt/Asthir-story/status"
)

// Server renders read-only snapshots of the pipeline status. It never
// writes to the tracker and never blocks on the pipeline worker.
type Server struct {
	tracker *status.Tracker
	log     *logrus.Entry
	tmpl    *template.Template
}

func New(tracker *status.Tracker, log *logrus.Logger) *Server {
	return &Server{
		tracker: tracker,
		log:     log.WithField("stage", "web"),
		tmpl:    template.Must(template.New("status").Parse(statusPage)),
	}
}

// Routes returns the HTTP handler for the status endpoints
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleStatusPage)
	mux.HandleFunc("/status.json", s.handleStatusJSON)
	return mux
}

// ListenAndServe blocks serving the status page on the given port
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.log.Infof("Status server running on %s", addr)
	return http.ListenAndServe(addr, s.Routes())
}

func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, viewFrom(snap)); err != nil {
		s.log.Errorf("Render status page: %v", err)
	}
}

func (s *Server) handleStatusJSON(w http.ResponseWriter, _ *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(viewFrom(snap)); err != nil {
		s.log.Errorf("Encode status JSON: %v", err)
	}
}

// view is the template/JSON projection of one snapshot
type view struct {
	Stage        string       `json:"stage"`
	StartedAt    string       `json:"started_at"`
	VideoCreated bool         `json:"video_created"`
	VideoSizeMB  string       `json:"video_size_mb"`
	Successes    int          `json:"successes"`
	Failures     int          `json:"failures"`
	Results      []resultView `json:"results"`
	Errors       []string     `json:"errors"`
	Logs         []string     `json:"logs"`
}

type resultView struct {
	Account string `json:"account"`
	Outcome string `json:"outcome"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

func viewFrom(snap *status.Snapshot) view {
	v := view{
		Stage:        snap.Stage,
		StartedAt:    snap.StartedAt.Format("2006-01-02 15:04:05"),
		VideoCreated: snap.VideoCreated,
		VideoSizeMB:  fmt.Sprintf("%.2f", snap.VideoSizeMB),
		Successes:    snap.Successes(),
		Failures:     snap.Failures(),
	}
	for _, r := range snap.Results {
		v.Results = append(v.Results, resultView{
			Account: r.Account,
			Outcome: string(r.Outcome),
			URL:     r.VideoURL,
			Error:   r.Error,
		})
	}
	// Most recent entries only; the rings already cap the history.
	v.Errors = tailStrings(snap.Errors, 10)
	v.Logs = tailStrings(snap.Logs, 50)
	return v
}

func tailStrings(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

const statusPage = `<!DOCTYPE html>
<html>
<head>
	<title>Story Video Pipeline</title>
	<meta http-equiv="refresh" content="30">
	<style>
		body { font-family: Arial, sans-serif; margin: 20px; background: #f4f4f4; }
		.container { background: white; padding: 30px; border-radius: 10px; max-width: 1100px; margin: 0 auto; }
		.stats { background: #e8f4f8; padding: 20px; border-radius: 5px; margin: 20px 0; }
		.stat-row { display: flex; justify-content: space-between; margin: 10px 0; }
		.errors { background: #ffeaea; padding: 15px; border-radius: 5px; margin: 20px 0; color: #a33; }
		.logs { background: #f0f0f0; padding: 10px; max-height: 300px; overflow-y: auto; font-family: monospace; font-size: 12px; }
		table { width: 100%; border-collapse: collapse; margin: 20px 0; }
		th, td { padding: 8px; text-align: left; }
		th { background: #ddd; }
		.success { color: green; }
		.failed { color: red; }
	</style>
</head>
<body>
	<div class="container">
		<h1>Story Video Pipeline</h1>

		<div class="stats">
			<div class="stat-row"><strong>Current stage:</strong> <span>{{.Stage}}</span></div>
			<div class="stat-row"><strong>Started at:</strong> <span>{{.StartedAt}}</span></div>
			<div class="stat-row"><strong>Video created:</strong> <span>{{if .VideoCreated}}yes ({{.VideoSizeMB}} MB){{else}}no{{end}}</span></div>
			<div class="stat-row"><strong>Uploads:</strong> <span class="success">{{.Successes}} ok</span> / <span class="failed">{{.Failures}} failed</span></div>
		</div>

		{{if .Results}}
		<h3>Upload results</h3>
		<table>
			<tr><th>Account</th><th>Status</th><th>Result</th></tr>
			{{range .Results}}
			<tr>
				<td>{{.Account}}</td>
				<td class="{{.Outcome}}">{{.Outcome}}</td>
				<td>{{if .URL}}<a href="{{.URL}}" target="_blank">{{.URL}}</a>{{else}}{{.Error}}{{end}}</td>
			</tr>
			{{end}}
		</table>
		{{end}}

		{{if .Errors}}
		<div class="errors">
			<h3>Errors</h3>
			{{range .Errors}}<p>{{.}}</p>{{end}}
		</div>
		{{end}}

		<h3>Recent logs</h3>
		<div class="logs">
			{{range .Logs}}<div>{{.}}</div>{{end}}
		</div>

		<p><em>Page auto-refreshes every 30 seconds</em></p>
	</div>
</body>
</html>
`
