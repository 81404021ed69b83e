package github

import (
	"context"

	githubapi "github.com/google/go-github/v80/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// newRESTClient creates a new GitHub REST API client
func newRESTClient(token string) *githubapi.Client {
	return githubapi.NewClient(nil).WithAuthToken(token)
}

// newGraphQLClient creates a new GitHub GraphQL client with authentication
func newGraphQLClient(token string) *githubv4.Client {
	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), src)
	return githubv4.NewClient(httpClient)
}
