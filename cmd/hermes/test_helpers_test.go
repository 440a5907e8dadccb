package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const directoryExport = "Sendungsnummer;Vorname;Nachname\nH7001234567;Maria;Schmidt\nA1;Ada;Lovelace\n"

type cliTestEnv struct {
	root       string
	configPath string
}

type cliTestOptions struct {
	remoteURL string
	password  string
	syncOff   bool
}

func setupCLITestEnv(t *testing.T, opts cliTestOptions) *cliTestEnv {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("HERMES_REMOTE_PASSWORD", "")

	var b strings.Builder
	fmt.Fprintf(&b, "[paths]\ndata_dir = %q\nlog_dir = %q\n\n", filepath.Join(root, "data"), filepath.Join(root, "logs"))
	if opts.remoteURL != "" {
		fmt.Fprintf(&b, "[remote]\nkind = \"webdav\"\ncollection_url = %q\nusername = \"TOKEN\"\npassword = %q\ntimeout_seconds = 5\n\n",
			opts.remoteURL, opts.password)
	} else {
		b.WriteString("[remote]\ncollection_url = \"\"\n\n")
	}
	fmt.Fprintf(&b, "[sync]\nenabled = %t\n\n", !opts.syncOff)
	b.WriteString("[intake]\nzones = [\"A\", \"B\", \"Z1\"]\n")

	configPath := filepath.Join(root, "config.toml")
	if err := os.WriteFile(configPath, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{root: root, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, input string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(input))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// newDirectoryServer serves a single CSV export from a WebDAV collection.
func newDirectoryServer(t *testing.T, export string) *httptest.Server {
	t.Helper()
	const collection = "/public.php/dav/files/TOKEN/"
	multistatus := `<?xml version="1.0"?>
<d:multistatus xmlns:d="DAV:">
  <d:response>
    <d:href>` + collection + `</d:href>
    <d:propstat>
      <d:prop><d:resourcetype><d:collection/></d:resourcetype></d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
  <d:response>
    <d:href>` + collection + `export.csv</d:href>
    <d:propstat>
      <d:prop>
        <d:getetag>"e1"</d:getetag>
        <d:getlastmodified>Sun, 01 Mar 2026 10:00:00 GMT</d:getlastmodified>
        <d:resourcetype/>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`

	mux := http.NewServeMux()
	mux.HandleFunc(collection, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "PROPFIND" && r.URL.Path == collection:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusMultiStatus)
			_, _ = w.Write([]byte(multistatus))
		case r.Method == http.MethodGet && r.URL.Path == collection+"export.csv":
			_, _ = w.Write([]byte(export))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
