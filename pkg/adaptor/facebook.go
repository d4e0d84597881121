package adaptor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/intake"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Facebook's Graph API timestamp layout.
const fbTimeLayout = "2006-01-02T15:04:05-0700"

type fbPost struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	CreatedTime string `json:"created_time"`
}

type fbFeed struct {
	Data []fbPost `json:"data"`
}

// FacebookAdaptor collects direct wall posts from a Facebook page dedicated
// to content requests. Authentication uses an app access token obtained via
// the client-credentials grant.
type FacebookAdaptor struct {
	info     Info
	pageID   string
	graphURL string
	client   *http.Client
}

func NewFacebookAdaptor(appID, appSecret, pageID, graphURL string, timeout time.Duration) *FacebookAdaptor {
	conf := &clientcredentials.Config{
		ClientID:     appID,
		ClientSecret: appSecret,
		TokenURL:     graphURL + "/oauth/access_token",
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})

	return &FacebookAdaptor{
		info: Info{
			Name:    "hub-fb-page",
			Source:  "Facebook page " + pageID,
			Contact: "hello@aircast.example",
			Trusted: true,
		},
		pageID:   pageID,
		graphURL: graphURL,
		client:   conf.Client(ctx),
	}
}

func (a *FacebookAdaptor) Info() Info {
	return a.info
}

// GetRequests fetches page wall posts created after lastAccess and maps
// them to candidates. Posts with empty message bodies are skipped. API and
// network errors are returned as-is so the harvest window is retried.
func (a *FacebookAdaptor) GetRequests(ctx context.Context, lastAccess time.Time) ([]intake.Candidate, error) {
	feed, err := a.getPosts(ctx, lastAccess)
	if err != nil {
		return nil, err
	}

	candidates := make([]intake.Candidate, 0, len(feed.Data))
	for _, post := range feed.Data {
		if post.Message == "" {
			continue
		}
		posted, err := parseFBTime(post.CreatedTime)
		if err != nil {
			logger.Log.WithError(err).WithField("post_id", post.ID).Warn("skipping post with bad timestamp")
			continue
		}
		candidates = append(candidates, a.info.Candidate(post.Message, posted))
	}
	return candidates, nil
}

func (a *FacebookAdaptor) getPosts(ctx context.Context, lastAccess time.Time) (*fbFeed, error) {
	endpoint := fmt.Sprintf("%s/%s/feed", a.graphURL, a.pageID)
	params := url.Values{}
	params.Set("fields", "id,message,created_time")
	params.Set("since", strconv.FormatInt(lastAccess.Unix(), 10))
	params.Set("limit", "100")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page feed request failed with status %d", resp.StatusCode)
	}

	var feed fbFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding page feed: %w", err)
	}
	return &feed, nil
}

func parseFBTime(value string) (time.Time, error) {
	if ts, err := time.Parse(fbTimeLayout, value); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
