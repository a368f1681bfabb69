package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"watchhub/pkg/models"
)

// Public AniList GraphQL endpoint.
const defaultEndpoint = "https://graphql.anilist.co"

const mediaByIDQuery = `
query ($id: Int) {
  Media(id: $id, type: ANIME) {
    id
    title { romaji english }
    coverImage { large medium }
    format
    season
    seasonYear
    siteUrl
    mediaListEntry { status }
  }
}`

const mediaPageQuery = `
query ($ids: [Int], $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    pageInfo { hasNextPage }
    media(id_in: $ids, type: ANIME) {
      id
      title { romaji english }
      coverImage { large medium }
      format
      season
      seasonYear
      siteUrl
      mediaListEntry { status }
    }
  }
}`

// AniList answers a single-media query for an unknown id with a 404.
var errNotFound = errors.New("anilist: not found")

// Client is the anime metadata provider. The token is optional; with one
// set, responses carry the viewer's list-entry status.
type Client struct {
	Endpoint string
	Token    string
	Client   *http.Client
	PerPage  int // batch page size
}

func NewClient(endpoint, token string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		Endpoint: endpoint,
		Token:    token,
		Client:   &http.Client{Timeout: 12 * time.Second},
		PerPage:  50,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type mediaPayload struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
	} `json:"title"`
	CoverImage struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"coverImage"`
	Format         string `json:"format"`
	Season         string `json:"season"`
	SeasonYear     int    `json:"seasonYear"`
	SiteURL        string `json:"siteUrl"`
	MediaListEntry *struct {
		Status string `json:"status"`
	} `json:"mediaListEntry"`
}

func (p *mediaPayload) toMedia() models.Media {
	title := p.Title.English
	if title == "" {
		title = p.Title.Romaji
	}
	cover := p.CoverImage.Large
	if cover == "" {
		cover = p.CoverImage.Medium
	}
	m := models.Media{
		ID:         p.ID,
		Title:      title,
		CoverURL:   cover,
		Format:     p.Format,
		Season:     p.Season,
		SeasonYear: p.SeasonYear,
		SiteURL:    p.SiteURL,
	}
	if p.MediaListEntry != nil {
		m.ListStatus = p.MediaListEntry.Status
	}
	return m
}

// MediaByID returns one anime record, or nil when the id is unknown.
func (c *Client) MediaByID(ctx context.Context, id int) (*models.Media, error) {
	var data struct {
		Media *mediaPayload `json:"Media"`
	}
	if err := c.post(ctx, mediaByIDQuery, map[string]any{"id": id}, &data); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if data.Media == nil {
		return nil, nil
	}
	m := data.Media.toMedia()
	return &m, nil
}

// MediaByIDs hydrates a batch of ids, paging through the id_in filter.
// Ids the provider does not know are simply absent from the result.
func (c *Client) MediaByIDs(ctx context.Context, ids []int) (map[int]models.Media, error) {
	out := make(map[int]models.Media, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	perPage := c.PerPage
	if perPage <= 0 {
		perPage = 50
	}

	for page := 1; ; page++ {
		var data struct {
			Page struct {
				PageInfo struct {
					HasNextPage bool `json:"hasNextPage"`
				} `json:"pageInfo"`
				Media []mediaPayload `json:"media"`
			} `json:"Page"`
		}
		vars := map[string]any{"ids": ids, "page": page, "perPage": perPage}
		if err := c.post(ctx, mediaPageQuery, vars, &data); err != nil {
			return nil, err
		}
		for _, p := range data.Page.Media {
			out[p.ID] = p.toMedia()
		}
		if !data.Page.PageInfo.HasNextPage || len(data.Page.Media) == 0 {
			break
		}
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("anilist: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("anilist: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("anilist: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anilist: status %d: %s", resp.StatusCode, string(raw))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("anilist: decode: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("anilist: query failed: %s", envelope.Errors[0].Message)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("anilist: decode data: %w", err)
	}
	return nil
}
