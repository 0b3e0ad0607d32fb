package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

//go:embed catalog.schema.json
var catalogSchemaJSON string

// Source fetches a catalog document as JSON
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// DataLoader reads catalog files from a directory: regions.json,
// products.json and events.json.
type DataLoader struct {
	basePath string
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string) *DataLoader {
	return &DataLoader{
		basePath: basePath,
	}
}

// Name implements Source
func (dl *DataLoader) Name() string {
	return "file"
}

// Fetch assembles the three files into one catalog document
func (dl *DataLoader) Fetch(ctx context.Context) ([]byte, error) {
	parts := map[string]json.RawMessage{}
	for _, name := range []string{"regions", "products", "events"} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dl.basePath, name+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s file: %w", name, err)
		}
		parts[name] = json.RawMessage(data)
	}
	return json.Marshal(parts)
}

// HTTPSource fetches a single catalog document over HTTP
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTP catalog source with a request timeout
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Name implements Source
func (hs *HTTPSource) Name() string {
	return "http"
}

// Fetch downloads the catalog document
func (hs *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hs.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := hs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}
	return data, nil
}

var catalogSchema = jsonschema.MustCompileString("catalog.schema.json", catalogSchemaJSON)

// Parse validates a JSON catalog document against the schema and builds it
func Parse(data []byte, origin string) (*Catalog, error) {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := catalogSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("catalog does not match schema: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return doc.build(origin)
}

// Default builds the catalog compiled into the binary
func Default() (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(defaultCatalogYAML, &doc); err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return doc.build("embedded")
}

// Load fetches the catalog from src and falls back to the embedded copy when
// the source is missing, unreachable or invalid. The error is non-nil only
// when the embedded copy itself is broken.
func Load(ctx context.Context, src Source, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if src == nil {
		logger.Info("Using embedded catalog")
		return Default()
	}

	data, err := src.Fetch(ctx)
	if err == nil {
		var c *Catalog
		c, err = Parse(data, src.Name())
		if err == nil {
			logger.Info("Loaded catalog",
				zap.String("source", src.Name()),
				zap.Int("regions", len(c.regions)),
				zap.Int("products", len(c.products)),
				zap.String("events", eventSummary(c)))
			return c, nil
		}
	}

	logger.Warn("Catalog source unavailable, falling back to embedded catalog",
		zap.String("source", src.Name()),
		zap.Error(err))
	return Default()
}

func eventSummary(c *Catalog) string {
	parts := make([]string, 0, len(c.events))
	for _, rt := range c.Regions() {
		parts = append(parts, fmt.Sprintf("%s=%d", rt, len(c.events[rt])))
	}
	return strings.Join(parts, ",")
}
