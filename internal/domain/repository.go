package domain

// Repository represents a repository owned by the reported user.
type Repository struct {
	ID       int64
	Name     string
	FullName string
	HTMLURL  string
}
