// Package registry provides client registry adapters for relier resolution.
package registry

import (
	"strconv"

	"authflow/internal/relier/schema"
)

// Client is a registered OAuth client in wire form.
type Client struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ImageURI    string `json:"image_uri"`
	RedirectURI string `json:"redirect_uri"`
	Trusted     bool   `json:"trusted"`
}

// Params flattens c into ClientInfo schema input.
func (c Client) Params() schema.Params {
	return schema.Params{
		"id":           c.ID,
		"name":         c.Name,
		"image_uri":    c.ImageURI,
		"redirect_uri": c.RedirectURI,
		"trusted":      strconv.FormatBool(c.Trusted),
	}
}
