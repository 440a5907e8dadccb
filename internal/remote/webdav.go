package remote

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

const propfindBody = `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:">
  <d:prop>
    <d:getetag/>
    <d:getlastmodified/>
    <d:getcontentlength/>
    <d:resourcetype/>
  </d:prop>
</d:propfind>`

// WebDAV lists a collection with PROPFIND. Nextcloud public shares use the
// share token as user name and the share password, if any, as password.
type WebDAV struct {
	client     *http.Client
	collection *url.URL
	username   string
	password   string
	timeout    time.Duration
}

// NewWebDAV returns a source for the collection at rawURL.
func NewWebDAV(rawURL, username, password string, timeout time.Duration) (*WebDAV, error) {
	collection, err := parseCollectionURL(rawURL)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(collection.Path, "/") {
		collection.Path += "/"
	}
	return &WebDAV{
		client:     &http.Client{Timeout: timeout},
		collection: collection,
		username:   username,
		password:   password,
		timeout:    timeout,
	}, nil
}

// List returns the recognized files directly inside the collection.
func (w *WebDAV) List(ctx context.Context) ([]File, error) {
	ctx, cancel := withTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "PROPFIND", w.collection.String(), strings.NewReader(propfindBody))
	if err != nil {
		return nil, transient("list", "build propfind request", err)
	}
	req.Header.Set("Depth", "1")
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	w.authorize(req)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, transient("list", "propfind", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMultiStatus {
		return nil, transient("list", fmt.Sprintf("propfind returned %s", resp.Status), nil)
	}

	body, err := readBounded(resp.Body)
	if err != nil {
		return nil, transient("list", "read propfind response", err)
	}
	files, err := parseMultistatus(body, w.collection)
	if err != nil {
		return nil, transient("list", "decode propfind response", err)
	}
	return files, nil
}

// Fetch downloads file.URL.
func (w *WebDAV) Fetch(ctx context.Context, file File) ([]byte, error) {
	return fetchURL(ctx, w.client, w.timeout, file.URL, w.authorize)
}

func (w *WebDAV) authorize(req *http.Request) {
	if w.username != "" || w.password != "" {
		req.SetBasicAuth(w.username, w.password)
	}
}

type multistatus struct {
	Responses []davResponse `xml:"DAV: response"`
}

type davResponse struct {
	Href      string        `xml:"DAV: href"`
	Propstats []davPropstat `xml:"DAV: propstat"`
}

type davPropstat struct {
	Status string  `xml:"DAV: status"`
	Prop   davProp `xml:"DAV: prop"`
}

type davProp struct {
	ETag          string `xml:"DAV: getetag"`
	LastModified  string `xml:"DAV: getlastmodified"`
	ContentLength string `xml:"DAV: getcontentlength"`
	ResourceType  struct {
		Collection *struct{} `xml:"DAV: collection"`
	} `xml:"DAV: resourcetype"`
}

func parseMultistatus(body []byte, collection *url.URL) ([]File, error) {
	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, err
	}

	self := strings.TrimSuffix(collection.Path, "/")
	files := make([]File, 0, len(ms.Responses))
	for _, r := range ms.Responses {
		ref, err := url.Parse(strings.TrimSpace(r.Href))
		if err != nil {
			continue
		}
		resolved := collection.ResolveReference(ref)
		if strings.TrimSuffix(resolved.Path, "/") == self {
			continue
		}

		var (
			prop         davProp
			isCollection bool
		)
		for _, ps := range r.Propstats {
			if ps.Status != "" && !strings.Contains(ps.Status, " 200") {
				continue
			}
			if ps.Prop.ResourceType.Collection != nil {
				isCollection = true
			}
			if ps.Prop.ETag != "" {
				prop.ETag = ps.Prop.ETag
			}
			if ps.Prop.LastModified != "" {
				prop.LastModified = ps.Prop.LastModified
			}
			if ps.Prop.ContentLength != "" {
				prop.ContentLength = ps.Prop.ContentLength
			}
		}
		if isCollection || strings.HasSuffix(resolved.Path, "/") {
			continue
		}

		name := path.Base(resolved.Path)
		if !Recognized(name) {
			continue
		}

		file := File{
			Href:      resolved.Path,
			URL:       resolved.String(),
			ChangeTag: unquoteTag(prop.ETag),
			Name:      name,
		}
		if modified, err := http.ParseTime(strings.TrimSpace(prop.LastModified)); err == nil {
			file.ModifiedAt = modified.UTC()
		}
		if size, err := strconv.ParseInt(strings.TrimSpace(prop.ContentLength), 10, 64); err == nil {
			file.Size = size
		}
		files = append(files, file)
	}
	return files, nil
}
