package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultImageEndpoint is the Flatcar release server. The channel is
// substituted into the host name.
const DefaultImageEndpoint = "https://%s.release.flatcar-linux.net"

// ImageCatalog fetches the per-region AMI list of a Flatcar release.
type ImageCatalog struct {
	endpoint   string
	httpClient *http.Client
}

// NewImageCatalog creates a catalog for the public release server.
func NewImageCatalog() *ImageCatalog {
	return NewImageCatalogWithEndpoint(DefaultImageEndpoint)
}

// NewImageCatalogWithEndpoint creates a catalog with a custom endpoint (for
// testing). A %s in endpoint is replaced by the channel.
func NewImageCatalogWithEndpoint(endpoint string) *ImageCatalog {
	return &ImageCatalog{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type amiList struct {
	AMIs []struct {
		Name string `json:"name"`
		PV   string `json:"pv"`
		HVM  string `json:"hvm"`
	} `json:"amis"`
}

// Images returns region -> virtualization type (HVM, PV) -> image id for
// the given channel and version ("current" for the latest release).
func (c *ImageCatalog) Images(ctx context.Context, channel, version string) (map[string]map[string]string, error) {
	base := c.endpoint
	if strings.Contains(base, "%s") {
		base = fmt.Sprintf(base, channel)
	}
	url := fmt.Sprintf("%s/amd64-usr/%s/flatcar_production_ami_all.json", base, version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image list: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image list %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return parseAMIList(body)
}

func parseAMIList(data []byte) (map[string]map[string]string, error) {
	var list amiList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse image list: %w", err)
	}
	if len(list.AMIs) == 0 {
		return nil, errors.New("image list is empty")
	}

	images := make(map[string]map[string]string, len(list.AMIs))
	for _, ami := range list.AMIs {
		entry := map[string]string{"HVM": ami.HVM}
		if ami.PV != "" {
			entry["PV"] = ami.PV
		}
		images[ami.Name] = entry
	}
	return images, nil
}
