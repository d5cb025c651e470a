// Package schemaregistry pushes schema snapshots to an external registry
// service over HTTP.
package schemaregistry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/semwaqas/MongoDB-toolkit/docschema"
)

type Client struct {
	APIKey string
	Server string
}

var (
	ErrUnexpectedResponse = errors.New("unexpected response code")
)

func NewClient(apikey, server string) (*Client, error) {
	client := &Client{
		APIKey: apikey,
		Server: server,
	}
	return client, nil
}

type SnapshotUpdate struct {
	Database    string                                `json:"database"`
	RunID       uuid.UUID                             `json:"runID"`
	Schemas     map[string]map[string]*docschema.Node `json:"schemas"`
	Diagnostics []string                              `json:"diagnostics,omitempty"`
}

// Publish posts a database schema snapshot to the registry.
func (c *Client) Publish(ctx context.Context, args SnapshotUpdate) error {
	u := c.formatURL("/api/v1/schema/update")

	bs, err := json.Marshal(&args)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(bs))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	client := http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return ErrUnexpectedResponse
	}

	return nil
}

func (c *Client) formatURL(path string) string {
	return fmt.Sprintf("%s%s", c.Server, path)
}
