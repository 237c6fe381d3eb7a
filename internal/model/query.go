package model

import "fmt"

// LibraryQuery identifies one library for the metadata chain.
type LibraryQuery struct {
	Name    string `json:"name" yaml:"name"`
	RepoURL string `json:"repo_url" yaml:"repo_url"`
}

func (q LibraryQuery) String() string {
	if q.RepoURL == "" {
		return q.Name
	}
	return fmt.Sprintf("%s (%s)", q.Name, q.RepoURL)
}

// SearchQuery is a free-text query for the competitor search chain.
type SearchQuery struct {
	Text string `json:"text" yaml:"text"`
}

func (q SearchQuery) String() string { return q.Text }
