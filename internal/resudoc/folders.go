package resudoc

import (
	"context"
	"net/url"
)

const foldersPath = "/folders"

// Folder is a tag bucket with the number of résumés carrying the tag.
type Folder struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Folders struct {
	Items []*Folder `json:"folders"`
	Total int       `json:"total"`
}

func (c *Client) Folders(ctx context.Context, userID string) (*Folders, error) {
	q := url.Values{}
	q.Set("user_id", userID)

	var folders Folders
	if err := c.getJSON(ctx, foldersPath, q, &folders); err != nil {
		return nil, err
	}

	if folders.Items == nil {
		folders.Items = []*Folder{}
	}

	return &folders, nil
}

func (f *Folders) Len() int {
	return len(f.Items)
}

func (f *Folders) Names() []string {
	names := make([]string, 0, len(f.Items))

	for _, folder := range f.Items {
		names = append(names, folder.Name)
	}

	return names
}

// Count returns the résumé count of the named folder, 0 when it does not exist.
func (f *Folders) Count(name string) int {
	for _, folder := range f.Items {
		if folder.Name == name {
			return folder.Count
		}
	}

	return 0
}
