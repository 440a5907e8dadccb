package snapshot_test

import (
	"context"
	"sync"

	"hermes/internal/remote"
	"hermes/internal/services"
)

// fakeSource serves an in-memory collection.
type fakeSource struct {
	mu       sync.Mutex
	files    []remote.File
	content  map[string][]byte
	listErr  error
	fetchErr error
	fetches  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{content: map[string][]byte{}}
}

func (f *fakeSource) put(file remote.File, data string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if file.Href == "" {
		file.Href = "/share/" + file.Name
	}
	if file.URL == "" {
		file.URL = "https://cloud.example" + file.Href
	}
	replaced := false
	for i := range f.files {
		if f.files[i].Href == file.Href {
			f.files[i] = file
			replaced = true
		}
	}
	if !replaced {
		f.files = append(f.files, file)
	}
	f.content[file.Href] = []byte(data)
}

func (f *fakeSource) List(ctx context.Context) ([]remote.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]remote.File(nil), f.files...), nil
}

func (f *fakeSource) Fetch(ctx context.Context, file remote.File) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	data, ok := f.content[file.Href]
	if !ok {
		return nil, services.Wrap(services.ErrTransient, "fake", "fetch", "404 "+file.Href, nil)
	}
	return append([]byte(nil), data...), nil
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}
