package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mahek9015/community-learning-hub/internal/models"
)

const redditUserAgent = "CommunityLearningHub/1.0"

// RedditFetcher reads the public hot listing of a set of subreddits.
type RedditFetcher struct {
	client     *http.Client
	baseURL    string
	subreddits []string
}

func NewRedditFetcher(subreddits []string) *RedditFetcher {
	return &RedditFetcher{
		client:     &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://www.reddit.com",
		subreddits: subreddits,
	}
}

// NewRedditFetcherAt points the fetcher at a different host; tests use it
// with an httptest server.
func NewRedditFetcherAt(baseURL string, subreddits []string) *RedditFetcher {
	f := NewRedditFetcher(subreddits)
	f.baseURL = baseURL
	return f
}

func (f *RedditFetcher) Name() string { return string(models.SourceReddit) }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title     string  `json:"title"`
				Selftext  string  `json:"selftext"`
				Permalink string  `json:"permalink"`
				Author    string  `json:"author"`
				Subreddit string  `json:"subreddit"`
				Thumbnail string  `json:"thumbnail"`
				Created   float64 `json:"created"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (f *RedditFetcher) Fetch(ctx context.Context) ([]models.Content, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json", f.baseURL, strings.Join(f.subreddits, "+"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit listing: status %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, err
	}

	out := make([]models.Content, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		p := child.Data
		out = append(out, models.Content{
			Title:       p.Title,
			Description: p.Selftext,
			Source:      models.SourceReddit,
			SourceURL:   f.baseURL + p.Permalink,
			Author:      p.Author,
			Thumbnail:   p.Thumbnail,
			Category:    categoryFor(p.Subreddit),
			CreatedAt:   time.Unix(int64(p.Created), 0),
		})
	}
	return out, nil
}

func categoryFor(subreddit string) string {
	switch strings.ToLower(subreddit) {
	case "education", "learnprogramming", "askscience":
		return "education"
	case "technology", "programming":
		return "technology"
	case "science":
		return "science"
	case "business", "entrepreneur":
		return "business"
	default:
		return "other"
	}
}
