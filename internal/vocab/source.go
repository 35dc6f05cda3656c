package vocab

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"vocabquest/internal/models"
)

// DefaultTitle is shown when the source document carries no title
const DefaultTitle = "Current Week"

// Source supplies the vocabulary list. Load is called at startup and on
// every manual reload; implementations must not cache.
type Source interface {
	Load() (*models.VocabList, error)
}

// document is the wire format of the vocabulary source
type document struct {
	Title string              `json:"title"`
	Words []models.VocabEntry `json:"words"`
}

// NewSource builds a source from a location string: http(s) URLs fetch over
// the network, anything else is read as a local file path.
func NewSource(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{
			URL:    location,
			Client: &http.Client{Timeout: 10 * time.Second},
		}
	}
	return &FileSource{Path: location}
}

// FileSource reads the vocabulary document from the local filesystem
type FileSource struct {
	Path string
}

func (s *FileSource) Load() (*models.VocabList, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	return parseDocument(data)
}

// HTTPSource fetches the vocabulary document from a URL
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Load() (*models.VocabList, error) {
	resp, err := s.Client.Get(cacheBust(s.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vocabulary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vocabulary fetch returned status %d", resp.StatusCode)
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	return listFromDocument(&doc)
}

// cacheBust appends a timestamp query parameter so intermediaries never
// serve a stale document on manual reload
func cacheBust(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func parseDocument(data []byte) (*models.VocabList, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	return listFromDocument(&doc)
}

func listFromDocument(doc *document) (*models.VocabList, error) {
	// A document without a words field at all is malformed. An empty words
	// array is a valid document; the empty case is surfaced separately.
	if doc.Words == nil {
		return nil, fmt.Errorf("vocabulary document has no words field")
	}

	title := doc.Title
	if title == "" {
		title = DefaultTitle
	}

	return &models.VocabList{Title: title, Entries: doc.Words}, nil
}
