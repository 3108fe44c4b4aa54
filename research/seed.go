package research

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/asthiranalyticsyt/Asthir-story/config"
)

// Seeder pulls a top post from a subreddit to season the story prompt.
// The stage is optional: any failure here is a warning for the caller,
// never a pipeline failure.
type Seeder struct {
	cfg    *config.Config
	client *reddit.Client
	log    *logrus.Entry
}

// New creates a Seeder with a read-only Reddit client
func New(cfg *config.Config, log *logrus.Logger) (*Seeder, error) {
	client, err := reddit.NewReadonlyClient()
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return &Seeder{
		cfg:    cfg,
		client: client,
		log:    log.WithField("stage", "research"),
	}, nil
}

// Run fetches this week's top posts and returns the highest-scored one as
// seed text, formatted title-first.
func (s *Seeder) Run(ctx context.Context) (string, error) {
	sub := s.cfg.Research.Subreddit
	s.log.Infof("Fetching top posts from r/%s...", sub)

	posts, _, err := s.client.Subreddit.TopPosts(ctx, sub, &reddit.ListPostOptions{
		ListOptions: reddit.ListOptions{Limit: s.cfg.Research.MaxPosts},
		Time:        "week",
	})
	if err != nil {
		return "", fmt.Errorf("fetch top posts: %w", err)
	}
	if len(posts) == 0 {
		return "", fmt.Errorf("r/%s returned no posts", sub)
	}

	best := posts[0]
	for _, p := range posts[1:] {
		if p.Score > best.Score {
			best = p
		}
	}

	s.log.Infof("Seed post: %q (score %d)", best.Title, best.Score)
	if best.Body == "" {
		return best.Title, nil
	}
	return fmt.Sprintf("%s\n\n%s", best.Title, best.Body), nil
}
