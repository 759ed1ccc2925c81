package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	perr "edgeminer/internal/platform/errors"
)

// SearchRepositories fetches one page of repository search results
func (c *Client) SearchRepositories(ctx context.Context, query, sort, order string, perPage, page int) (SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", sort)
	q.Set("order", order)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))

	var out SearchResult
	if err := c.getJSON(ctx, "/search/repositories", q, &out); err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

// CountCommits pages through /commits and sums page sizes.
// since/until are optional RFC3339 bounds; zero values mean unbounded.
// REST has no single-count endpoint so this is the same approximation the
// study's dataset was built with
func (c *Client) CountCommits(ctx context.Context, owner, repo string, since, until time.Time) (int, error) {
	path := fmt.Sprintf("/repos/%s/%s/commits", owner, repo)
	total := 0
	page := 1
	for {
		q := url.Values{}
		q.Set("per_page", "100")
		q.Set("page", strconv.Itoa(page))
		if !since.IsZero() {
			q.Set("since", since.UTC().Format(time.RFC3339))
		}
		if !until.IsZero() {
			q.Set("until", until.UTC().Format(time.RFC3339))
		}

		var commits []Commit
		if err := c.getJSON(ctx, path, q, &commits); err != nil {
			return total, err
		}
		total += len(commits)
		if len(commits) < 100 {
			return total, nil
		}
		page++
	}
}

// Contributors returns one page of up to 100 contributors.
// The study counts contributors as the length of this page
func (c *Client) Contributors(ctx context.Context, owner, repo string) ([]Contributor, error) {
	path := fmt.Sprintf("/repos/%s/%s/contributors", owner, repo)
	q := url.Values{}
	q.Set("per_page", "100")

	var out []Contributor
	if err := c.getJSON(ctx, path, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserByLogin fetches a user profile, including the public email when set
func (c *Client) UserByLogin(ctx context.Context, login string) (User, error) {
	var out User
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(login), nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// CommitAuthorEmails returns the distinct commit-author emails for the given
// author login in a repository (first page of /commits?author=)
func (c *Client) CommitAuthorEmails(ctx context.Context, owner, repo, author string) ([]string, error) {
	path := fmt.Sprintf("/repos/%s/%s/commits", owner, repo)
	q := url.Values{}
	q.Set("author", author)

	var commits []Commit
	if err := c.getJSON(ctx, path, q, &commits); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var emails []string
	for _, cm := range commits {
		e := cm.Commit.Author.Email
		if e != "" && !seen[e] {
			seen[e] = true
			emails = append(emails, e)
		}
	}
	return emails, nil
}

// getJSON issues the request and decodes the (size limited) body into out
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	resp, err := c.Do(ctx, path, q)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "github read body failed")
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "github decode %s failed", path)
	}
	return nil
}
