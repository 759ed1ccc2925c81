package github

// Owner is the subset of the repository owner payload the miner keeps
type Owner struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// Repo is the subset of the search/repository payload exported to CSV
type Repo struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	FullName         string  `json:"full_name"`
	Owner            Owner   `json:"owner"`
	HTMLURL          string  `json:"html_url"`
	Description      string  `json:"description"`
	PushedAt         string  `json:"pushed_at"`
	Stars            int     `json:"stargazers_count"`
	Fork             bool    `json:"fork"`
	Forks            int     `json:"forks"`
	Language         string  `json:"language"`
	Size             int64   `json:"size"`
	Score            float64 `json:"score"`
	IsTemplate       bool    `json:"is_template"`
	Archived         bool    `json:"archived"`
	Disabled         bool    `json:"disabled"`
	ContributorsURL  string  `json:"contributors_url"`
	CollaboratorsURL string  `json:"collaborators_url"`
}

// SearchResult is one page of /search/repositories
type SearchResult struct {
	TotalCount        int    `json:"total_count"`
	IncompleteResults bool   `json:"incomplete_results"`
	Items             []Repo `json:"items"`
}

// User is the subset of the user payload the email collector keeps
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Contributor is one entry of /repos/{owner}/{repo}/contributors
type Contributor struct {
	Login         string `json:"login"`
	ID            int64  `json:"id"`
	Contributions int    `json:"contributions"`
}

// Commit is the subset of the commit payload used for email harvesting
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}
